package types

// Direction is the direction of a traversal or a deletion.
type Direction int

const (
	Left Direction = iota
	Right
)

// Opposite returns the mirrored direction.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}
