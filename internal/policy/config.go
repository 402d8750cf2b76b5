package policy

import "golang.org/x/net/html/atom"

// Config holds the tag vocabulary loaded from the [policy] table.
type Config struct {
	BlockTags         []string `toml:"block_tags"`
	AtomicTags        []string `toml:"atomic_tags"`
	LineBreakTags     []string `toml:"line_break_tags"`
	UnremovableTags   []string `toml:"unremovable_tags"`
	UnbreakableTags   []string `toml:"unbreakable_tags"`
	ParagraphLikeTags []string `toml:"paragraph_like_tags"`
	DemotableTags     []string `toml:"demotable_tags"`
	ParagraphTag      string   `toml:"paragraph_tag"`
}

func names(as ...atom.Atom) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.String()
	}
	return out
}

// DefaultConfig returns the built-in HTML vocabulary.
func DefaultConfig() Config {
	return Config{
		BlockTags: names(
			atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
			atom.Blockquote, atom.Pre, atom.Ul, atom.Ol, atom.Li, atom.Table,
			atom.Thead, atom.Tbody, atom.Tfoot, atom.Tr, atom.Td, atom.Th,
			atom.Section, atom.Article, atom.Header, atom.Footer, atom.Nav,
			atom.Aside, atom.Hr, atom.Figure, atom.Address, atom.Dl, atom.Dt,
			atom.Dd, atom.Body,
		),
		AtomicTags:        names(atom.Br, atom.Img, atom.Hr, atom.Input, atom.Wbr),
		LineBreakTags:     names(atom.Br),
		UnremovableTags:   nil,
		UnbreakableTags:   nil,
		ParagraphLikeTags: names(atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote, atom.Pre, atom.Li),
		DemotableTags:     names(atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote, atom.Pre),
		ParagraphTag:      atom.P.String(),
	}
}
