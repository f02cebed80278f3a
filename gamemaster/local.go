package gamemaster

import (
	"fmt"
	"socha/game"
	"socha/meta"
	"slices"
)

type localGameMaster struct {
	start    *game.GameState
	state    *game.GameState
	updateCh chan Update
	gameOver bool
}

// NewLocalGameMaster referees a match starting from a copy of start.
func NewLocalGameMaster(start *game.GameState) GameMaster {
	return &localGameMaster{start: start}
}

func (gm *localGameMaster) Init() (*game.GameState, UpdateGetter) {
	gm.state = gm.start.Copy()
	gm.gameOver = false
	// Every turn produces one update, so Play never blocks on an unread channel
	gm.updateCh = make(chan Update, meta.MAX_TURNS+1)

	updateCh := gm.updateCh
	return gm.state.Copy(), func() (Update, bool) {
		select {
		case u, ok := <-updateCh:
			return u, ok
		default:
			return Update{}, false
		}
	}
}

func (gm *localGameMaster) Play(move game.Move) error {
	if gm.state == nil {
		return ErrNoGameInit
	}
	if gm.gameOver {
		return ErrGameOver
	}

	team := gm.state.CurrentTeam()
	if !slices.Contains(gm.state.PossibleMoves(team), move) {
		return fmt.Errorf("team %s cannot play %s: %w", team, move, ErrNotLegal)
	}
	if err := gm.state.PerformMove(move); err != nil {
		return err
	}

	gm.updateCh <- Update{Move: move, State: gm.state.Copy(), Hash: gm.state.Hash()}
	if _, over := gm.state.Result(); over {
		gm.gameOver = true
		close(gm.updateCh)
	}
	return nil
}

func (gm *localGameMaster) Result() (game.Result, bool) {
	if gm.state == nil {
		return game.Result{}, false
	}
	return gm.state.Result()
}
