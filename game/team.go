package game

import (
	"fmt"
	"socha/meta"
	"strings"
)

// Team is one of the two sides. The zero value is NoTeam.
type Team int

const (
	NoTeam Team = iota
	TeamOne
	TeamTwo
)

func (t Team) Opponent() Team {
	switch t {
	case TeamOne:
		return TeamTwo
	case TeamTwo:
		return TeamOne
	default:
		return NoTeam
	}
}

// Direction is the sign of a forward step along the X axis.
func (t Team) Direction() int {
	if t == TeamTwo {
		return -1
	}
	return 1
}

// StartColumn is the column the team's pieces start on.
func (t Team) StartColumn() int {
	if t == TeamTwo {
		return meta.BOARD_SIZE - 1
	}
	return 0
}

// TargetColumn is the column where light pieces of the team turn into ambers.
func (t Team) TargetColumn() int {
	return t.Opponent().StartColumn()
}

func (t Team) String() string {
	switch t {
	case TeamOne:
		return "ONE"
	case TeamTwo:
		return "TWO"
	default:
		return "NONE"
	}
}

// ParseTeam accepts the protocol's team names in any case.
func ParseTeam(s string) (Team, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ONE":
		return TeamOne, nil
	case "TWO":
		return TeamTwo, nil
	default:
		return NoTeam, fmt.Errorf("unknown team %q", s)
	}
}
