package metrics

import (
	"socha/game"
	"time"
)

type MoveMetric struct {
	Turn       int
	Team       game.Team
	Candidates int // Legal moves the agent chose from
	Duration   time.Duration
}

type GameMetric struct {
	StartTeam  game.Team
	Winner     game.Team // NoTeam for a draw
	Reason     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// Collector measures move decisions. Start and Complete bracket a single decision.
type Collector interface {
	Start(turn int, team game.Team)
	SetCandidates(n int)
	Complete() MoveMetric
}

type collector struct {
	turn       int
	team       game.Team
	candidates int
	startTime  time.Time
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(turn int, team game.Team) {
	m.startTime = time.Now()
	m.turn = turn
	m.team = team
	m.candidates = 0
}

func (m *collector) SetCandidates(n int) {
	m.candidates = n
}

func (m *collector) Complete() MoveMetric {
	return MoveMetric{
		Turn:       m.turn,
		Team:       m.team,
		Candidates: m.candidates,
		Duration:   time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(turn int, team game.Team) {}
func (m *dummyCollector) SetCandidates(n int)            {}
func (m *dummyCollector) Complete() MoveMetric           { return MoveMetric{} }
