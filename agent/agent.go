package agent

import (
	"errors"
	"socha/game"
)

var ErrNoMoves = errors.New("no possible moves")

// Agent picks the move to play. It must not mutate the given state.
type Agent interface {
	FindMove(state *game.GameState, team game.Team) (game.Move, error)
}
