package text

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

const (
	// ZWS is the zero-width marker that keeps an empty inline selectable.
	ZWS = "\u200B"
	// NBSP is the non-collapsible space.
	NBSP = "\u00A0"
)

// GraphemeBefore returns the length in runes of the user-perceived character
// that ends at rune offset off of s. It is 0 at the start of s.
func GraphemeBefore(s string, off int) int {
	runes := []rune(s)
	if off <= 0 {
		return 0
	}
	if off > len(runes) {
		off = len(runes)
	}
	prefix := string(runes[:off])
	last := 0
	g := uniseg.NewGraphemes(prefix)
	for g.Next() {
		last = len(g.Runes())
	}
	return last
}

// GraphemeAfter returns the length in runes of the user-perceived character
// that starts at rune offset off of s. It is 0 at the end of s.
func GraphemeAfter(s string, off int) int {
	runes := []rune(s)
	if off < 0 {
		off = 0
	}
	if off >= len(runes) {
		return 0
	}
	g := uniseg.NewGraphemes(string(runes[off:]))
	if g.Next() {
		return len(g.Runes())
	}
	return 0
}

// Graphemes counts user-perceived characters.
func Graphemes(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Slice returns the runes [from, to) of s.
func Slice(s string, from, to int) string {
	runes := []rune(s)
	from = min(max(from, 0), len(runes))
	to = min(max(to, from), len(runes))
	return string(runes[from:to])
}

// Cut removes the runes [from, to) of s and returns the rest and the removed
// part.
func Cut(s string, from, to int) (rest, removed string) {
	runes := []rune(s)
	from = min(max(from, 0), len(runes))
	to = min(max(to, from), len(runes))
	return string(runes[:from]) + string(runes[to:]), string(runes[from:to])
}

// RuneLen is the length of s in runes, the unit of text offsets.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// IsZWS reports whether s is non-empty and made only of zero-width markers.
func IsZWS(s string) bool {
	return s != "" && strings.Trim(s, ZWS) == ""
}

// IsCollapsibleSpace reports whether r is whitespace a browser collapses.
// NBSP is not collapsible.
func IsCollapsibleSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// OnlyCollapsible reports whether s is non-empty and holds only collapsible
// whitespace and zero-width markers.
func OnlyCollapsible(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsCollapsibleSpace(r) && string(r) != ZWS {
			return false
		}
	}
	return true
}
