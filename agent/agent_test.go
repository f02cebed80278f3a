package agent

import (
	"os"
	"path/filepath"
	"socha/game"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func startingState() *game.GameState {
	return game.NewStartingState(rand.New(rand.NewSource(42)))
}

func emptyState(t *testing.T) *game.GameState {
	board, err := game.NewBoard(nil)
	require.NoError(t, err)
	return game.NewGameState(game.TeamOne, board)
}

func TestRandomAgent(t *testing.T) {
	t.Run("picks a possible move", func(t *testing.T) {
		state := startingState()
		move, err := NewRandomAgent(1).FindMove(state, game.TeamOne)

		require.NoError(t, err)
		require.Contains(t, state.PossibleMoves(game.TeamOne), move)
	})

	t.Run("same seed, same choices", func(t *testing.T) {
		state := startingState()
		a, b := NewRandomAgent(99), NewRandomAgent(99)
		for i := 0; i < 10; i++ {
			ma, err := a.FindMove(state, game.TeamTwo)
			require.NoError(t, err)
			mb, err := b.FindMove(state, game.TeamTwo)
			require.NoError(t, err)
			require.Equal(t, ma, mb)
		}
	})

	t.Run("does not mutate the state", func(t *testing.T) {
		state := startingState()
		hash := state.Hash()
		_, err := NewRandomAgent(1).FindMove(state, game.TeamOne)
		require.NoError(t, err)
		require.Equal(t, hash, state.Hash())
	})

	t.Run("no moves", func(t *testing.T) {
		_, err := NewRandomAgent(1).FindMove(emptyState(t), game.TeamOne)
		require.ErrorIs(t, err, ErrNoMoves)
	})
}

func TestLuaAgent(t *testing.T) {
	t.Run("delegates to choose_move", func(t *testing.T) {
		a, err := NewLuaAgent(`function choose_move(moves, state) return #moves end`)
		require.NoError(t, err)
		defer a.Close()

		state := startingState()
		moves := state.PossibleMoves(game.TeamOne)

		move, err := a.FindMove(state, game.TeamOne)
		require.NoError(t, err)
		require.Equal(t, moves[len(moves)-1], move)
	})

	t.Run("script sees moves and state", func(t *testing.T) {
		a, err := NewLuaAgent(`
function choose_move(moves, state)
  assert(state.team == "ONE")
  assert(state.turn == 0 and state.round == 1)
  assert(state.ambers.ONE == 0)
  assert(#state.pieces == 16)
  for i, m in ipairs(moves) do
    if m.to.x - m.from.x == 1 and m.to.y == m.from.y then return i end
  end
  return 1
end`)
		require.NoError(t, err)
		defer a.Close()

		move, err := a.FindMove(startingState(), game.TeamOne)
		require.NoError(t, err)
		require.Equal(t, game.Vec2{X: 1, Y: 0}, move.Offset())
	})

	t.Run("rejects out of range index", func(t *testing.T) {
		a, err := NewLuaAgent(`function choose_move(moves, state) return #moves + 1 end`)
		require.NoError(t, err)
		defer a.Close()

		_, err = a.FindMove(startingState(), game.TeamOne)
		require.Error(t, err)
	})

	t.Run("rejects non numbers", func(t *testing.T) {
		a, err := NewLuaAgent(`function choose_move(moves, state) return "first" end`)
		require.NoError(t, err)
		defer a.Close()

		_, err = a.FindMove(startingState(), game.TeamOne)
		require.Error(t, err)
	})

	t.Run("script errors are returned", func(t *testing.T) {
		a, err := NewLuaAgent(`function choose_move(moves, state) error("nope") end`)
		require.NoError(t, err)
		defer a.Close()

		_, err = a.FindMove(startingState(), game.TeamOne)
		require.Error(t, err)
	})

	t.Run("missing function", func(t *testing.T) {
		_, err := NewLuaAgent(`x = 1`)
		require.Error(t, err)

		_, err = NewLuaAgent(`this is not lua`)
		require.Error(t, err)
	})

	t.Run("loads from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agent.lua")
		require.NoError(t, os.WriteFile(path, []byte(`function choose_move(moves) return 1 end`), 0644))

		a, err := NewLuaAgentFromFile(path)
		require.NoError(t, err)
		defer a.Close()

		state := startingState()
		move, err := a.FindMove(state, game.TeamTwo)
		require.NoError(t, err)
		require.Equal(t, state.PossibleMoves(game.TeamTwo)[0], move)
	})
}
