package game

import "fmt"

// Move represents a piece moving from one field to another. Validity depends on a GameState.
type Move struct {
	From Coordinates
	To   Coordinates
}

func (m Move) String() string {
	return fmt.Sprintf("%s->%s", m.From, m.To)
}

// Offset is the displacement performed by the move.
func (m Move) Offset() Vec2 {
	return m.To.Sub(m.From)
}
