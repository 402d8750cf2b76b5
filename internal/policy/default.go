package policy

import (
	"strings"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/types"
)

// TagRule matches elements whose tag is one of tags.
func TagRule(name string, tags ...string) Rule {
	set := make(map[string]struct{}, len(tags))
	for _, tg := range tags {
		set[strings.ToLower(tg)] = struct{}{}
	}
	return Rule{Name: name, Match: func(t *doc.Tree, n types.NodeID) bool {
		_, ok := set[t.Tag(n)]
		return ok
	}}
}

// AttrRule matches elements carrying key="val" (case-insensitive value).
func AttrRule(name, key, val string) Rule {
	return Rule{Name: name, Match: func(t *doc.Tree, n types.NodeID) bool {
		v, ok := t.Attr(n, key)
		return ok && strings.EqualFold(strings.TrimSpace(v), val)
	}}
}

// Default builds the capability set for a tag vocabulary.
func Default(cfg Config) *Capabilities {
	def := DefaultConfig()
	if cfg.ParagraphTag == "" {
		cfg.ParagraphTag = def.ParagraphTag
	}
	if cfg.BlockTags == nil {
		cfg.BlockTags = def.BlockTags
	}
	if cfg.AtomicTags == nil {
		cfg.AtomicTags = def.AtomicTags
	}
	if cfg.LineBreakTags == nil {
		cfg.LineBreakTags = def.LineBreakTags
	}
	if cfg.ParagraphLikeTags == nil {
		cfg.ParagraphLikeTags = def.ParagraphLikeTags
	}
	if cfg.DemotableTags == nil {
		cfg.DemotableTags = def.DemotableTags
	}

	c := New(cfg.ParagraphTag)
	c.Register(Block, TagRule("block-tags", cfg.BlockTags...))
	c.Register(InlineAtomic, TagRule("atomic-tags", cfg.AtomicTags...))
	c.Register(LineBreak, TagRule("line-break-tags", cfg.LineBreakTags...))
	c.Register(ParagraphLike, TagRule("paragraph-like-tags", cfg.ParagraphLikeTags...))
	c.Register(Demotable, TagRule("demotable-tags", cfg.DemotableTags...))
	if len(cfg.UnremovableTags) > 0 {
		c.Register(Unremovable, TagRule("unremovable-tags", cfg.UnremovableTags...))
	}
	if len(cfg.UnbreakableTags) > 0 {
		c.Register(Unbreakable, TagRule("unbreakable-tags", cfg.UnbreakableTags...))
	}
	c.Register(NonEditable, AttrRule("contenteditable-false", "contenteditable", "false"))
	c.Register(EditableHost, AttrRule("contenteditable-true", "contenteditable", "true"))
	return c
}
