package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/folio/internal/logger"
)

// TomlStyleDef represents a single style definition in the TOML file.
// Pointers distinguish unset attributes from false ones.
type TomlStyleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

// TomlTheme represents the structure of a theme file. A theme that
// inherits from another starts from a copy of its styles.
type TomlTheme struct {
	Name     string                  `toml:"name"`
	IsDark   bool                    `toml:"is_dark"`
	Inherits string                  `toml:"inherits"`
	Styles   map[string]TomlStyleDef `toml:"styles"`
}

// ParseTheme decodes theme TOML. lookup resolves the inherits key; it may
// be nil when inheritance is not available.
func ParseTheme(data, fallbackName string, lookup func(name string) (*Theme, bool)) (*Theme, error) {
	var def TomlTheme
	metadata, err := toml.Decode(data, &def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme: %w", err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme '%s': Unrecognized keys: %v", def.Name, undecoded)
	}
	if def.Name == "" {
		def.Name = fallbackName
	}

	theme := &Theme{Name: def.Name, IsDark: def.IsDark, Styles: make(map[string]tcell.Style)}
	if def.Inherits != "" {
		if lookup == nil {
			return nil, fmt.Errorf("theme '%s' inherits '%s' but no themes are available", def.Name, def.Inherits)
		}
		parent, ok := lookup(def.Inherits)
		if !ok {
			return nil, fmt.Errorf("theme '%s' inherits unknown theme '%s'", def.Name, def.Inherits)
		}
		for name, style := range parent.Styles {
			theme.Styles[name] = style
		}
	}

	// Default goes first: every other style builds on it.
	base := theme.GetStyleOr("Default", tcell.StyleDefault)
	if d, ok := def.Styles["Default"]; ok {
		if base, err = convertTomlStyle(d, base); err != nil {
			return nil, fmt.Errorf("theme '%s': style 'Default': %w", def.Name, err)
		}
	}
	theme.Styles["Default"] = base

	for name, d := range def.Styles {
		if name == "Default" {
			continue
		}
		style, err := convertTomlStyle(d, theme.GetStyleOr(name, base))
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse style '%s', skipping: %v", def.Name, name, err)
			continue
		}
		theme.Styles[name] = style
	}
	return theme, nil
}

// LoadThemeFromFile parses a theme file; the file name is the fallback name.
func LoadThemeFromFile(filePath string, lookup func(name string) (*Theme, bool)) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	theme, err := ParseTheme(string(data), name, lookup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	logger.Debugf("Loaded theme '%s' from '%s'", theme.Name, filePath)
	return theme, nil
}

// GetStyleOr returns an exact style or def.
func (t *Theme) GetStyleOr(name string, def tcell.Style) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	return def
}

func convertTomlStyle(d TomlStyleDef, style tcell.Style) (tcell.Style, error) {
	if d.Fg != nil {
		color, err := parseColorString(*d.Fg)
		if err != nil {
			return style, fmt.Errorf("invalid foreground color '%s': %w", *d.Fg, err)
		}
		style = style.Foreground(color)
	}
	if d.Bg != nil {
		color, err := parseColorString(*d.Bg)
		if err != nil {
			return style, fmt.Errorf("invalid background color '%s': %w", *d.Bg, err)
		}
		style = style.Background(color)
	}
	if d.Bold != nil {
		style = style.Bold(*d.Bold)
	}
	if d.Italic != nil {
		style = style.Italic(*d.Italic)
	}
	if d.Underline != nil {
		style = style.Underline(*d.Underline)
	}
	if d.Reverse != nil {
		style = style.Reverse(*d.Reverse)
	}
	return style, nil
}

// parseColorString accepts "#rrggbb", "reset", "default" and the W3C color
// names tcell knows ("navy", "teal", ...).
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color format '%s', must be #RRGGBB", s)
		}
		val, err := strconv.ParseInt(s[1:], 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	}

	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color format or name '%s'", s)
}
