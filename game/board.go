package game

import (
	"errors"
	"fmt"
	"socha/meta"
	"sort"
	"strings"
)

var ErrOutOfBounds = errors.New("coordinates out of bounds")
var ErrPieceCollision = errors.New("two pieces on the same field")
var ErrInvalidPiece = errors.New("invalid piece")

// Board holds the pieces indexed by their coordinates. No two pieces share a field.
type Board struct {
	fields map[Coordinates]Piece
}

// NewBoard places the given pieces. It fails instead of dropping pieces on collisions.
func NewBoard(pieces []Piece) (*Board, error) {
	b := &Board{fields: make(map[Coordinates]Piece, len(pieces))}
	for _, p := range pieces {
		if !p.Coordinates.InBounds() {
			return nil, fmt.Errorf("cannot place %s at %s: %w", p.Type, p.Coordinates, ErrOutOfBounds)
		}
		if p.Team != TeamOne && p.Team != TeamTwo {
			return nil, fmt.Errorf("cannot place piece at %s: team %s: %w", p.Coordinates, p.Team, ErrInvalidPiece)
		}
		if !p.Type.valid() || p.Count < 1 {
			return nil, fmt.Errorf("cannot place piece at %s: %w", p.Coordinates, ErrInvalidPiece)
		}
		if _, ok := b.fields[p.Coordinates]; ok {
			return nil, fmt.Errorf("cannot place %s at %s: %w", p.Type, p.Coordinates, ErrPieceCollision)
		}
		b.fields[p.Coordinates] = p
	}
	return b, nil
}

// PieceAt returns the piece occupying c, if any.
func (b *Board) PieceAt(c Coordinates) (Piece, bool) {
	p, ok := b.fields[c]
	return p, ok
}

// Pieces returns all pieces ordered by X, then Y.
func (b *Board) Pieces() []Piece {
	pieces := make([]Piece, 0, len(b.fields))
	for _, p := range b.fields {
		pieces = append(pieces, p)
	}
	sort.Slice(pieces, func(i, j int) bool {
		if pieces[i].Coordinates.X != pieces[j].Coordinates.X {
			return pieces[i].Coordinates.X < pieces[j].Coordinates.X
		}
		return pieces[i].Coordinates.Y < pieces[j].Coordinates.Y
	})
	return pieces
}

func (b *Board) Len() int {
	return len(b.fields)
}

func (b *Board) remove(c Coordinates) {
	delete(b.fields, c)
}

func (b *Board) set(p Piece) {
	b.fields[p.Coordinates] = p
}

func (b *Board) Copy() *Board {
	fields := make(map[Coordinates]Piece, len(b.fields))
	for c, p := range b.fields {
		fields[c] = p
	}
	return &Board{fields: fields}
}

// String renders the board with y = 0 as the top row.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < meta.BOARD_SIZE; y++ {
		for x := 0; x < meta.BOARD_SIZE; x++ {
			if p, ok := b.fields[Coordinates{X: x, Y: y}]; ok {
				sb.WriteString(p.symbol())
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
