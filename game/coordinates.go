package game

import (
	"fmt"
	"socha/meta"
)

// Vec2 is an integer point or displacement on the board.
type Vec2 struct {
	X int
	Y int
}

// Coordinates is a position on the board.
type Coordinates = Vec2

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// InBounds reports whether the point lies on the board.
func (v Vec2) InBounds() bool {
	return v.X >= 0 && v.X < meta.BOARD_SIZE && v.Y >= 0 && v.Y < meta.BOARD_SIZE
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}
