package game

import "fmt"

// Result is the outcome of a finished game. Winner is NoTeam for a draw.
type Result struct {
	Winner Team
	Reason string
}

func (r Result) IsDraw() bool {
	return r.Winner == NoTeam
}

func (r Result) String() string {
	if r.IsDraw() {
		return fmt.Sprintf("draw (%s)", r.Reason)
	}
	return fmt.Sprintf("team %s wins (%s)", r.Winner, r.Reason)
}
