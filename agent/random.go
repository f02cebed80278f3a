package agent

import (
	"socha/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent choosing uniformly among the possible moves.
// Agents created with the same seed make the same choices.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state *game.GameState, team game.Team) (game.Move, error) {
	moves := state.PossibleMoves(team)
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}
	return moves[a.rng.Intn(len(moves))], nil
}
