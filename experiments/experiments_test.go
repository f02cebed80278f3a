package experiments

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"socha/agent"
	"socha/logging"
	"testing"

	"github.com/stretchr/testify/require"
)

func random(name string, base uint64) Contestant {
	return Contestant{
		Name: name,
		New: func(game int) (agent.Agent, error) {
			return agent.NewRandomAgent(base + uint64(game)), nil
		},
	}
}

func TestRun(t *testing.T) {
	m := Matchup{First: random("a", 100), Second: random("b", 200), Games: 4, Seed: 9}

	games, moves, summary, err := Run(context.Background(), m, logging.Nop())
	require.NoError(t, err)
	require.Len(t, games, 4)

	total := 0
	for i, g := range games {
		require.Equal(t, i+1, g.ID)
		if i%2 == 0 {
			require.Equal(t, "a", g.Agent1)
			require.Equal(t, "b", g.Agent2)
		} else {
			require.Equal(t, "b", g.Agent1)
			require.Equal(t, "a", g.Agent2)
		}
		total += g.TotalMoves
	}
	require.Len(t, moves, total)
	require.Equal(t, 4, summary.Wins["a"]+summary.Wins["b"]+summary.Draws)
}

func TestRunAgentFailure(t *testing.T) {
	boom := errors.New("boom")
	broken := Contestant{Name: "broken", New: func(int) (agent.Agent, error) { return nil, boom }}
	m := Matchup{First: random("a", 1), Second: broken, Games: 2, Seed: 1}

	_, _, _, err := Run(context.Background(), m, logging.Nop())
	require.ErrorIs(t, err, boom)
}

func TestStore(t *testing.T) {
	m := Matchup{First: random("a", 1), Second: random("b", 2), Games: 1, Seed: 3}
	games, moves, _, err := Run(context.Background(), m, logging.Nop())
	require.NoError(t, err)

	dir, err := Store(t.TempDir(), games, moves)
	require.NoError(t, err)
	for _, name := range []string{"game_records.csv", "move_records.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}
