package game

import (
	"fmt"
	"strings"
)

// PieceType represents the movement capability of a piece.
type PieceType int

const (
	Herzmuschel PieceType = iota // cockle: one step diagonally forward
	Moewe                        // gull: one step orthogonally
	Seestern                     // starfish: one step forward or diagonally
	Robbe                        // seal: knight jumps
)

var pieceTypes = []PieceType{Herzmuschel, Moewe, Seestern, Robbe}

func (pt PieceType) String() string {
	switch pt {
	case Herzmuschel:
		return "Herzmuschel"
	case Moewe:
		return "Moewe"
	case Seestern:
		return "Seestern"
	case Robbe:
		return "Robbe"
	default:
		return fmt.Sprintf("PieceType(%d)", int(pt))
	}
}

func ParsePieceType(s string) (PieceType, error) {
	for _, pt := range pieceTypes {
		if strings.EqualFold(pt.String(), s) {
			return pt, nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

func (pt PieceType) valid() bool {
	return pt >= Herzmuschel && pt <= Robbe
}

// IsLight reports whether a piece of this type scores by reaching the target column.
func (pt PieceType) IsLight() bool {
	return pt != Robbe
}

// Offsets returns the displacements a piece of this type may attempt, oriented for team.
func (pt PieceType) Offsets(team Team) []Vec2 {
	d := team.Direction()
	switch pt {
	case Herzmuschel:
		return []Vec2{{d, 1}, {d, -1}}
	case Moewe:
		return []Vec2{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	case Seestern:
		return []Vec2{{d, 0}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	case Robbe:
		return []Vec2{
			{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
			{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		}
	default:
		return nil
	}
}

// Piece is a team-owned board occupant. Count is the height of the tower it forms.
type Piece struct {
	Team        Team
	Type        PieceType
	Coordinates Coordinates
	Count       int
}

// NewPiece returns a single (non-stacked) piece.
func NewPiece(team Team, pt PieceType, c Coordinates) Piece {
	return Piece{Team: team, Type: pt, Coordinates: c, Count: 1}
}

func (p Piece) canReach(offset Vec2) bool {
	for _, o := range p.Type.Offsets(p.Team) {
		if o == offset {
			return true
		}
	}
	return false
}

// symbol renders the piece for board dumps: upper case for TeamOne, lower case for TeamTwo.
func (p Piece) symbol() string {
	s := p.Type.String()[:1]
	if p.Team == TeamTwo {
		s = strings.ToLower(s)
	}
	if p.Count > 1 {
		return fmt.Sprintf("%s%d", s, p.Count)
	}
	return s + " "
}
