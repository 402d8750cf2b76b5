// internal/types/position.go
package types

import "fmt"

// NodeID is a stable handle to a node in a document tree arena.
// The zero value is NoNode.
type NodeID int32

// NoNode is the nil handle.
const NoNode NodeID = 0

// Position represents a cursor or boundary position in the document tree.
// For a text node Offset is a rune index in [0, len]; for an element it is a
// child index in [0, childCount] denoting the gap before that child.
type Position struct {
	Node   NodeID
	Offset int
}

// IsZero reports whether the position points at no node.
func (p Position) IsZero() bool {
	return p.Node == NoNode
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Node, p.Offset)
}
