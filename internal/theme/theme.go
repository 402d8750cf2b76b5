package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/folio/internal/logger"
)

// Theme maps style names to terminal styles. Names are dotted: a missing
// "Tag.block" falls back to "Tag", then to "Default".
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle resolves a style name.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.LastIndex(name, "."); dotIndex != -1 {
		return t.GetStyle(name[:dotIndex])
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// FolioDark is the built-in dark theme.
var FolioDark = newFolioDark()

// FolioLight is the built-in light theme.
var FolioLight = newFolioLight()

func newFolioDark() Theme {
	background := tcell.NewHexColor(0x2a2f38)
	foreground := tcell.NewHexColor(0xc5cdd9)
	muted := tcell.NewHexColor(0x5c6370)
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(foreground)
	return Theme{
		Name:   "Folio Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":     base,
			"Selection":   base.Reverse(true),
			"Tag":         base.Foreground(muted),
			"Tag.block":   base.Foreground(blue),
			"Atomic":      base.Foreground(orange),
			"NonEditable": base.Foreground(cyan).Italic(true),
			"Placeholder": base.Foreground(muted),
			"Code":        base.Foreground(green),
			"Link":        base.Foreground(blue).Underline(true),

			"StatusBar":         tcell.StyleDefault.Background(background).Foreground(foreground),
			"StatusBarModified": tcell.StyleDefault.Background(background).Foreground(yellow),
			"StatusBarMessage":  tcell.StyleDefault.Background(background).Foreground(foreground).Bold(true),
			"StatusBarCommand":  tcell.StyleDefault.Background(background).Foreground(green).Bold(true),
		},
	}
}

func newFolioLight() Theme {
	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorBlack)
	bar := tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	return Theme{
		Name: "Folio Light",
		Styles: map[string]tcell.Style{
			"Default":     base,
			"Selection":   base.Background(tcell.ColorLightBlue),
			"Tag":         base.Foreground(tcell.ColorGray),
			"Tag.block":   base.Foreground(tcell.ColorNavy),
			"Atomic":      base.Foreground(tcell.ColorMaroon),
			"NonEditable": base.Foreground(tcell.ColorTeal).Italic(true),
			"Placeholder": base.Foreground(tcell.ColorGray),
			"Code":        base.Foreground(tcell.ColorGreen),
			"Link":        base.Foreground(tcell.ColorNavy).Underline(true),

			"StatusBar":         bar,
			"StatusBarModified": bar.Foreground(tcell.ColorMaroon),
			"StatusBarMessage":  bar.Bold(true),
			"StatusBarCommand":  bar.Foreground(tcell.ColorGreen).Bold(true),
		},
	}
}
