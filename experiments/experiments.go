package experiments

import (
	"context"
	"fmt"
	"socha/agent"
	"socha/engine"
	"socha/experiments/metrics"
	"socha/game"
	"socha/logging"
	"time"
)

// Contestant is one side of a matchup. New is called once per game.
type Contestant struct {
	Name string
	New  func(game int) (agent.Agent, error)
}

// Matchup plays Games local games between two contestants, swapping teams every game so both
// open equally often.
type Matchup struct {
	First  Contestant
	Second Contestant
	Games  int
	Seed   uint64 // Opening seed of the first game, 0 for time based openings
}

type Summary struct {
	Wins  map[string]int
	Draws int
}

// Run plays the matchup and returns its records.
func Run(ctx context.Context, m Matchup, sink logging.Sink) ([]metrics.GameRecord, []metrics.MoveRecord, Summary, error) {
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	summary := Summary{Wins: map[string]int{m.First.Name: 0, m.Second.Name: 0}}

	sink.Emit(logging.InfoLevel, "starting matchup",
		logging.F("first", m.First.Name), logging.F("second", m.Second.Name), logging.F("games", m.Games))

	for i := 0; i < m.Games; i++ {
		one, two := m.First, m.Second
		if i%2 == 1 {
			one, two = two, one
		}

		result, gameMetric, moveMetrics, err := runGame(ctx, i, one, two, m.seed(i), sink)
		if err != nil {
			return gameRecords, moveRecords, summary, fmt.Errorf("game %d of %d: %w", i+1, m.Games, err)
		}

		id := i + 1
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         id,
			Agent1:     one.Name,
			Agent2:     two.Name,
			GameMetric: gameMetric,
		})
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: id, MoveMetric: mm})
		}

		switch result.Winner {
		case game.TeamOne:
			summary.Wins[one.Name]++
		case game.TeamTwo:
			summary.Wins[two.Name]++
		default:
			summary.Draws++
		}

		sink.Emit(logging.InfoLevel, "completed game",
			logging.F("game", id), logging.F("result", result), logging.F("moves", gameMetric.TotalMoves))
	}

	sink.Emit(logging.InfoLevel, "completed matchup",
		logging.F(m.First.Name, summary.Wins[m.First.Name]),
		logging.F(m.Second.Name, summary.Wins[m.Second.Name]),
		logging.F("draws", summary.Draws))
	return gameRecords, moveRecords, summary, nil
}

func (m Matchup) seed(i int) uint64 {
	if m.Seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return m.Seed + uint64(i)
}

func runGame(ctx context.Context, i int, one, two Contestant, seed uint64, sink logging.Sink) (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	a1, err := one.New(i)
	if err != nil {
		return game.Result{}, metrics.GameMetric{}, nil, fmt.Errorf("failed to create agent %s: %w", one.Name, err)
	}
	defer closeAgent(a1)
	a2, err := two.New(i)
	if err != nil {
		return game.Result{}, metrics.GameMetric{}, nil, fmt.Errorf("failed to create agent %s: %w", two.Name, err)
	}
	defer closeAgent(a2)

	e := engine.NewLocalEngine(a1, a2, engine.WithSeed(seed), engine.WithLocalSink(sink))
	return e.Play(ctx)
}

func closeAgent(a agent.Agent) {
	if c, ok := a.(interface{ Close() }); ok {
		c.Close()
	}
}

// Store writes the records below root and returns the directory they were written to.
func Store(root string, games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(root)
	if err != nil {
		return "", fmt.Errorf("failed to create record writer: %w", err)
	}
	if err := writer.WriteGameRecords(games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	return writer.Dir(), nil
}
