// Package media makes embedded media behave as single characters: a media
// element or a data-embed widget is deleted whole and never edited inside.
package media

import (
	"fmt"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/types"
)

var _ plugin.Plugin = (*Media)(nil)

// EmbedAttr marks an element as an opaque embedded widget.
const EmbedAttr = "data-embed"

var defaultTags = []string{"img", "video", "audio", "iframe", "object", "embed", "svg", "canvas", "picture"}

// Media registers atomic rules for media tags and embeds.
type Media struct {
	tags []string
}

func New() plugin.Plugin {
	return &Media{}
}

func (p *Media) Name() string {
	return "media"
}

// Initialize reads the optional [plugins.media] tags list, which adds tags
// to the built-in media set.
func (p *Media) Initialize(api plugin.EditorAPI) error {
	p.tags = append([]string(nil), defaultTags...)
	if v, ok := api.GetPluginConfigValue(p.Name(), "tags"); ok {
		extra, err := stringList(v)
		if err != nil {
			return fmt.Errorf("media: invalid 'tags' config: %w", err)
		}
		p.tags = append(p.tags, extra...)
	}

	api.RegisterRule(policy.InlineAtomic, policy.TagRule("media-tags", p.tags...))
	embed := policy.Rule{Name: "data-embed", Match: hasEmbed}
	api.RegisterRule(policy.InlineAtomic, embed)
	api.RegisterRule(policy.NonEditable, embed)
	logger.Debugf("%s: %d media tags registered", p.Name(), len(p.tags))
	return nil
}

func (p *Media) Shutdown() error {
	return nil
}

func hasEmbed(t *doc.Tree, n types.NodeID) bool {
	_, ok := t.Attr(n, EmbedAttr)
	return ok
}

// stringList converts a decoded TOML array.
func stringList(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list of strings, got %T", v)
}
