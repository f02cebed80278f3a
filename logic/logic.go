package logic

import (
	"fmt"
	"time"

	"socha/agent"
	"socha/experiments/metrics"
	"socha/game"
	"socha/logging"
	"socha/protocol"
)

// Signal tells the caller whether the session goes on after a message.
type Signal int

const (
	Continue Signal = iota
	Terminate
)

func (s Signal) String() string {
	if s == Terminate {
		return "terminate"
	}
	return "continue"
}

type Phase int

const (
	AwaitingWelcome Phase = iota
	InSession
	Terminated
)

func (p Phase) String() string {
	switch p {
	case AwaitingWelcome:
		return "awaiting welcome"
	case InSession:
		return "in session"
	default:
		return "terminated"
	}
}

// Sender transmits outbound messages.
type Sender interface {
	Send(msg protocol.ClientMessage) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(msg protocol.ClientMessage) error

func (f SenderFunc) Send(msg protocol.ClientMessage) error {
	return f(msg)
}

type session interface{ phase() Phase }

type awaitingWelcome struct {
	pending *game.GameState // memento received before the welcome message
}

type inSession struct {
	roomID    string
	ownTeam   game.Team
	gameState *game.GameState
	result    *game.Result
}

type terminated struct {
	result *game.Result
}

func (*awaitingWelcome) phase() Phase { return AwaitingWelcome }
func (*inSession) phase() Phase       { return InSession }
func (*terminated) phase() Phase      { return Terminated }

type Option func(l *Logic)

func WithAgent(a agent.Agent) Option {
	return func(l *Logic) {
		if a != nil {
			l.agent = a
		}
	}
}

func WithSink(sink logging.Sink) Option {
	return func(l *Logic) {
		if sink != nil {
			l.sink = sink
		}
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(l *Logic) {
		if c != nil {
			l.metrics = c
		}
	}
}

// Logic is the client side protocol state machine. It owns the current GameState and is not
// safe for concurrent use.
type Logic struct {
	state   session
	agent   agent.Agent
	sink    logging.Sink
	metrics metrics.Collector
	moves   []metrics.MoveMetric
}

func New(options ...Option) *Logic {
	l := &Logic{ // Default values
		state:   &awaitingWelcome{},
		agent:   agent.NewRandomAgent(uint64(time.Now().UnixNano())),
		sink:    logging.Nop(),
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// Process handles one inbound message, sending at most one outbound message.
func (l *Logic) Process(msg protocol.ServerMessage, sender Sender) Signal {
	if _, ok := l.state.(*terminated); ok {
		l.sink.Emit(logging.WarnLevel, "message after session end", logging.F("message", fmt.Sprintf("%T", msg)))
		return Terminate
	}

	switch m := msg.(type) {
	case protocol.Joined:
		l.sink.Emit(logging.InfoLevel, "joined room", logging.F("room", m.RoomID))
		return Continue
	case protocol.WelcomeMessage:
		l.onWelcome(m)
		return Continue
	case protocol.Memento:
		l.onMemento(m)
		return Continue
	case protocol.MoveRequest:
		return l.onMoveRequest(sender)
	case protocol.Result:
		l.onResult(m)
		return Continue
	case protocol.Left:
		l.sink.Emit(logging.InfoLevel, "left")
		l.terminate()
		return Terminate
	case protocol.Error:
		l.sink.Emit(logging.ErrorLevel, "received error message from server", logging.F("error", m.Message))
		l.terminate()
		return Terminate
	default:
		l.sink.Emit(logging.WarnLevel, "unhandled message", logging.F("message", fmt.Sprintf("%T", msg)))
		return Continue
	}
}

func (l *Logic) onWelcome(m protocol.WelcomeMessage) {
	next := &inSession{roomID: m.RoomID, ownTeam: m.Team}
	switch s := l.state.(type) {
	case *awaitingWelcome:
		next.gameState = s.pending
	case *inSession:
		next.gameState = s.gameState
		next.result = s.result
	}
	l.state = next

	l.sink.Emit(logging.InfoLevel, "welcome", logging.F("room", m.RoomID), logging.F("team", m.Team))
}

func (l *Logic) onMemento(m protocol.Memento) {
	switch s := l.state.(type) {
	case *awaitingWelcome:
		s.pending = m.State
	case *inSession:
		s.gameState = m.State
	}

	if m.State != nil {
		l.sink.Emit(logging.DebugLevel, "memento",
			logging.F("turn", m.State.Turn),
			logging.F("hash", uint64(m.State.Hash())),
		)
	}
}

func (l *Logic) onMoveRequest(sender Sender) Signal {
	s, ok := l.state.(*inSession)
	if !ok || s.gameState == nil {
		l.sink.Emit(logging.WarnLevel, "move requested without game state", logging.F("phase", l.Phase()))
		return Continue
	}

	move, err := l.calculateMove(s)
	if err != nil {
		l.sink.Emit(logging.ErrorLevel, "failed to calculate move", logging.F("error", err))
		return Continue
	}

	if err := sender.Send(protocol.Move{Move: move, RoomID: s.roomID}); err != nil {
		l.sink.Emit(logging.ErrorLevel, "failed to send move", logging.F("error", err))
		l.terminate()
		return Terminate
	}
	return Continue
}

func (l *Logic) calculateMove(s *inSession) (game.Move, error) {
	gs := s.gameState

	l.sink.Emit(logging.InfoLevel, "move requested",
		logging.F("turn", gs.Turn),
		logging.F("current_team", gs.CurrentTeam()),
		logging.F("ambers_one", gs.Ambers[game.TeamOne]),
		logging.F("ambers_two", gs.Ambers[game.TeamTwo]),
	)

	candidates := len(gs.PossibleMoves(s.ownTeam))
	l.metrics.Start(gs.Turn, s.ownTeam)
	l.metrics.SetCandidates(candidates)
	move, err := l.agent.FindMove(gs, s.ownTeam)
	if err != nil {
		return game.Move{}, err
	}
	metric := l.metrics.Complete()
	l.moves = append(l.moves, metric)

	l.sink.Emit(logging.InfoLevel, "calculated move", logging.F("move", move), logging.F("elapsed", metric.Duration))

	// Local application is best effort: the server's next memento is authoritative
	if err := gs.PerformMove(move); err != nil {
		l.sink.Emit(logging.ErrorLevel, "failed to perform move on game state", logging.F("move", move), logging.F("error", err))
	}

	l.sink.Emit(logging.DebugLevel, "new game state", logging.F("board", "\n"+gs.Board.String()))
	if result, over := gs.Result(); over {
		l.sink.Emit(logging.InfoLevel, "local result", logging.F("result", result))
	}

	return move, nil
}

func (l *Logic) onResult(m protocol.Result) {
	result := m.Result
	l.sink.Emit(logging.InfoLevel, "result", logging.F("result", result))

	s, ok := l.state.(*inSession)
	if !ok {
		return
	}
	s.result = &result

	switch {
	case result.IsDraw():
		l.sink.Emit(logging.InfoLevel, "game ended in a draw")
	case result.Winner == s.ownTeam:
		l.sink.Emit(logging.InfoLevel, "won the game", logging.F("team", s.ownTeam))
	default:
		l.sink.Emit(logging.InfoLevel, "lost the game", logging.F("team", s.ownTeam))
	}
}

func (l *Logic) terminate() {
	var result *game.Result
	if s, ok := l.state.(*inSession); ok {
		result = s.result
	}
	l.state = &terminated{result: result}
}

func (l *Logic) Phase() Phase {
	return l.state.phase()
}

func (l *Logic) RoomID() (string, bool) {
	if s, ok := l.state.(*inSession); ok {
		return s.roomID, true
	}
	return "", false
}

func (l *Logic) OwnTeam() (game.Team, bool) {
	if s, ok := l.state.(*inSession); ok {
		return s.ownTeam, true
	}
	return game.NoTeam, false
}

// GameState returns the tracked state, or nil before the first memento.
func (l *Logic) GameState() *game.GameState {
	switch s := l.state.(type) {
	case *awaitingWelcome:
		return s.pending
	case *inSession:
		return s.gameState
	default:
		return nil
	}
}

// Result returns the result announced by the server, if any.
func (l *Logic) Result() (game.Result, bool) {
	var result *game.Result
	switch s := l.state.(type) {
	case *inSession:
		result = s.result
	case *terminated:
		result = s.result
	}
	if result == nil {
		return game.Result{}, false
	}
	return *result, true
}

// MoveMetrics returns the metrics of all moves calculated so far.
func (l *Logic) MoveMetrics() []metrics.MoveMetric {
	return l.moves
}
