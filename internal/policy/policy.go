// Package policy classifies document nodes for the edit engine. Every question
// the engine asks about structure ("is this a block?", "may this be removed?")
// goes through a Capabilities value, so collaborators can extend the
// vocabulary by registering rules instead of editing the engine.
package policy

import (
	"fmt"

	"github.com/bethropolis/folio/internal/doc"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/types"
)

// Capability names one classification predicate.
type Capability int

const (
	Block Capability = iota
	InlineAtomic
	Unremovable
	Unbreakable
	// NonEditable marks the root of a subtree that may not be edited.
	NonEditable
	// EditableHost marks a subtree that is editable again inside a
	// non-editable one.
	EditableHost
	LineBreak
	ParagraphLike
	Demotable
	numCapabilities
)

var capabilityNames = [...]string{
	Block:         "block",
	InlineAtomic:  "inline-atomic",
	Unremovable:   "unremovable",
	Unbreakable:   "unbreakable",
	NonEditable:   "non-editable",
	EditableHost:  "editable-host",
	LineBreak:     "line-break",
	ParagraphLike: "paragraph-like",
	Demotable:     "demotable",
}

func (c Capability) String() string {
	if c >= 0 && c < numCapabilities {
		return capabilityNames[c]
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// All returns every capability in declaration order.
func All() []Capability {
	out := make([]Capability, numCapabilities)
	for i := range out {
		out[i] = Capability(i)
	}
	return out
}

// ParseCapability maps a capability name back to its value.
func ParseCapability(s string) (Capability, error) {
	for i, n := range capabilityNames {
		if n == s {
			return Capability(i), nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}

// Rule is one named predicate. Rules only ever see element nodes.
type Rule struct {
	Name  string
	Match func(t *doc.Tree, n types.NodeID) bool
}

// Capabilities is the injected classification set.
type Capabilities struct {
	rules        [numCapabilities][]Rule
	paragraphTag string
}

// New returns an empty capability set. Only the tree root is classified:
// it is a block, unremovable, unbreakable and an editable host.
func New(paragraphTag string) *Capabilities {
	c := &Capabilities{paragraphTag: paragraphTag}
	root := Rule{Name: "root", Match: func(t *doc.Tree, n types.NodeID) bool { return n == t.Root() }}
	for _, cp := range []Capability{Block, Unremovable, Unbreakable, EditableHost} {
		c.Register(cp, root)
	}
	return c
}

// Register adds a rule to a capability. A rule with the name of an existing
// one replaces it in place.
func (c *Capabilities) Register(cp Capability, r Rule) {
	if cp < 0 || cp >= numCapabilities {
		logger.Warnf("Policy: ignoring rule %q for %v", r.Name, cp)
		return
	}
	for i, existing := range c.rules[cp] {
		if existing.Name == r.Name {
			c.rules[cp][i] = r
			return
		}
	}
	c.rules[cp] = append(c.rules[cp], r)
}

// Rules returns the names of the rules of a capability in evaluation order.
func (c *Capabilities) Rules(cp Capability) []string {
	out := make([]string, 0, len(c.rules[cp]))
	for _, r := range c.rules[cp] {
		out = append(out, r.Name)
	}
	return out
}

// Explain returns the name of the first rule giving n the capability, or "".
func (c *Capabilities) Explain(cp Capability, t *doc.Tree, n types.NodeID) string {
	if !t.IsElement(n) {
		return ""
	}
	for _, r := range c.rules[cp] {
		if r.Match(t, n) {
			return r.Name
		}
	}
	return ""
}

// Has reports whether n has the capability.
func (c *Capabilities) Has(cp Capability, t *doc.Tree, n types.NodeID) bool {
	return c.Explain(cp, t, n) != ""
}

func (c *Capabilities) IsBlock(t *doc.Tree, n types.NodeID) bool {
	return c.Has(Block, t, n)
}

func (c *Capabilities) IsInlineAtomic(t *doc.Tree, n types.NodeID) bool {
	return c.Has(InlineAtomic, t, n)
}

func (c *Capabilities) IsUnremovable(t *doc.Tree, n types.NodeID) bool {
	return c.Has(Unremovable, t, n)
}

func (c *Capabilities) IsUnbreakable(t *doc.Tree, n types.NodeID) bool {
	return c.Has(Unbreakable, t, n)
}

func (c *Capabilities) IsLineBreak(t *doc.Tree, n types.NodeID) bool {
	return c.Has(LineBreak, t, n)
}

func (c *Capabilities) IsParagraphLike(t *doc.Tree, n types.NodeID) bool {
	return c.Has(ParagraphLike, t, n)
}

func (c *Capabilities) IsDemotable(t *doc.Tree, n types.NodeID) bool {
	return c.Has(Demotable, t, n)
}

// IsEditable reports whether content at n may be edited. The nearest
// ancestor-or-self element that is a non-editable root or an editable host
// decides; a text node asks its parent.
func (c *Capabilities) IsEditable(t *doc.Tree, n types.NodeID) bool {
	for cur := n; cur != types.NoNode; cur = t.Parent(cur) {
		if !t.IsElement(cur) {
			continue
		}
		if c.Has(NonEditable, t, cur) {
			return false
		}
		if c.Has(EditableHost, t, cur) {
			return true
		}
	}
	return false
}

// ParagraphTag is the tag of a generic paragraph.
func (c *Capabilities) ParagraphTag() string {
	return c.paragraphTag
}

// NewPlaceholder allocates the atomic line break that keeps an empty block
// selectable.
func (c *Capabilities) NewPlaceholder(t *doc.Tree) types.NodeID {
	return t.NewElement("br")
}
