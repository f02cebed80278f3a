package engine

import (
	"context"
	"fmt"
	"socha/agent"
	"socha/experiments/metrics"
	"socha/game"
	"socha/gamemaster"
	"socha/logging"
	"time"

	"golang.org/x/exp/rand"
)

// LocalEngine plays a match between two agents without a server.
type LocalEngine struct {
	agents    map[game.Team]agent.Agent
	start     *game.GameState
	sink      logging.Sink
	collector metrics.Collector

	result      game.Result
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
}

type LocalOption func(e *LocalEngine)

// WithStartState plays from a copy of gs instead of a random opening.
func WithStartState(gs *game.GameState) LocalOption {
	return func(e *LocalEngine) {
		if gs != nil {
			e.start = gs
		}
	}
}

// WithSeed makes the random opening reproducible.
func WithSeed(seed uint64) LocalOption {
	return func(e *LocalEngine) {
		e.start = game.NewStartingState(rand.New(rand.NewSource(seed)))
	}
}

func WithLocalSink(sink logging.Sink) LocalOption {
	return func(e *LocalEngine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

func WithLocalCollector(c metrics.Collector) LocalOption {
	return func(e *LocalEngine) {
		if c != nil {
			e.collector = c
		}
	}
}

// NewLocalEngine pairs one (playing TeamOne) against two (playing TeamTwo).
func NewLocalEngine(one, two agent.Agent, options ...LocalOption) *LocalEngine {
	e := &LocalEngine{
		agents:    map[game.Team]agent.Agent{game.TeamOne: one, game.TeamTwo: two},
		sink:      logging.Nop(),
		collector: metrics.NewCollector(),
	}
	for _, option := range options {
		option(e)
	}
	if e.start == nil {
		e.start = game.NewStartingState(rand.New(rand.NewSource(uint64(time.Now().UnixNano()))))
	}
	return e
}

func (e *LocalEngine) Run(ctx context.Context) error {
	_, _, _, err := e.Play(ctx)
	return err
}

// Play runs the match to its end and returns the result with per-game and per-move metrics.
func (e *LocalEngine) Play(ctx context.Context) (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	gm := gamemaster.NewLocalGameMaster(e.start)
	state, getUpdate := gm.Init()

	e.moveMetrics = nil
	e.gameMetric = metrics.GameMetric{StartTeam: state.StartTeam, StartTime: time.Now()}
	e.sink.Emit(logging.InfoLevel, "local game started", logging.F("start_team", state.StartTeam))
	e.sink.Emit(logging.DebugLevel, "opening", logging.F("board", "\n"+state.Board.String()))

	for {
		result, over := gm.Result()
		if over {
			e.result = result
			break
		}
		if err := ctx.Err(); err != nil {
			return game.Result{}, e.gameMetric, e.moveMetrics, err
		}

		team := state.CurrentTeam()
		candidates := len(state.PossibleMoves(team))
		e.collector.Start(state.Turn, team)
		e.collector.SetCandidates(candidates)

		// Agents get a copy so they cannot tamper with the refereed state
		move, err := e.agents[team].FindMove(state.Copy(), team)
		if err != nil {
			return game.Result{}, e.gameMetric, e.moveMetrics, fmt.Errorf("agent %s failed to find a move: %w", team, err)
		}
		metric := e.collector.Complete()

		if err := gm.Play(move); err != nil {
			return game.Result{}, e.gameMetric, e.moveMetrics, fmt.Errorf("agent %s played %s: %w", team, move, err)
		}
		update, ok := getUpdate()
		if !ok {
			return game.Result{}, e.gameMetric, e.moveMetrics, fmt.Errorf("no update after move %s", move)
		}
		state = update.State
		e.moveMetrics = append(e.moveMetrics, metric)

		e.sink.Emit(logging.DebugLevel, "move played",
			logging.F("turn", update.State.Turn),
			logging.F("team", team),
			logging.F("move", move),
			logging.F("hash", uint64(update.Hash)),
		)
	}

	e.gameMetric.EndTime = time.Now()
	e.gameMetric.Duration = e.gameMetric.EndTime.Sub(e.gameMetric.StartTime)
	e.gameMetric.Winner = e.result.Winner
	e.gameMetric.Reason = e.result.Reason
	e.gameMetric.TotalMoves = len(e.moveMetrics)

	e.sink.Emit(logging.InfoLevel, "local game over", logging.F("result", e.result), logging.F("moves", len(e.moveMetrics)))
	return e.result, e.gameMetric, e.moveMetrics, nil
}
