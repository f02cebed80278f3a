package gamemaster

import (
	"errors"
	"socha/game"
)

var (
	ErrGameOver   = errors.New("game is over - no moves allowed")
	ErrNotLegal   = errors.New("move is not legal")
	ErrNoGameInit = errors.New("game not initialized")
)

// Update is published after every accepted move.
type Update struct {
	Move  game.Move
	State *game.GameState // Copy of the state after the move
	Hash  game.StateHash
}

// UpdateGetter returns the next pending update without blocking. ok is false when no update is
// pending or the game is over and all updates were consumed.
type UpdateGetter func() (u Update, ok bool)

// GameMaster owns the authoritative game state of a local match and referees the moves played.
type GameMaster interface {
	Init() (*game.GameState, UpdateGetter)
	Play(move game.Move) error
	Result() (game.Result, bool)
}
