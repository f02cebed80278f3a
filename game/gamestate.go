package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"socha/meta"

	"golang.org/x/exp/rand"
)

var ErrNoPiece = errors.New("no piece on the start field")
var ErrIllegalMove = errors.New("illegal move")
var ErrUnreachable = errors.New("piece cannot reach the target field")

type StateHash uint64

// GameState is the local view of a game: the board plus turn, amber and last-move bookkeeping.
type GameState struct {
	StartTeam Team
	Board     *Board
	LastMove  *Move
	Turn      int          // Number of moves performed so far
	Ambers    map[Team]int // Ambers collected per team
}

// NewGameState returns a state at turn 0 with no ambers collected.
func NewGameState(startTeam Team, board *Board) *GameState {
	return &GameState{
		StartTeam: startTeam,
		Board:     board,
		Ambers:    map[Team]int{TeamOne: 0, TeamTwo: 0},
	}
}

// NewStartingState returns a random opening: two pieces of each type per team on its start
// column, TeamTwo's column mirroring TeamOne's.
func NewStartingState(rng *rand.Rand) *GameState {
	column := make([]PieceType, 0, meta.BOARD_SIZE)
	for len(column) < meta.BOARD_SIZE {
		column = append(column, pieceTypes...)
	}
	column = column[:meta.BOARD_SIZE]
	rng.Shuffle(len(column), func(i, j int) {
		column[i], column[j] = column[j], column[i]
	})

	pieces := make([]Piece, 0, 2*meta.BOARD_SIZE)
	for y, pt := range column {
		pieces = append(pieces,
			NewPiece(TeamOne, pt, Coordinates{X: TeamOne.StartColumn(), Y: y}),
			NewPiece(TeamTwo, pt, Coordinates{X: TeamTwo.StartColumn(), Y: meta.BOARD_SIZE - 1 - y}),
		)
	}
	board, err := NewBoard(pieces)
	if err != nil {
		panic(err) // the opening is constructed in bounds and without collisions
	}
	return NewGameState(TeamOne, board)
}

// CurrentTeam is the team to move: the start team on even turns, its opponent on odd turns.
func (gs *GameState) CurrentTeam() Team {
	if gs.Turn%2 == 0 {
		return gs.StartTeam
	}
	return gs.StartTeam.Opponent()
}

func (gs *GameState) Round() int {
	return gs.Turn/2 + 1
}

// CanPerformMove checks the move against the board only. Turn order is the caller's concern.
func (gs *GameState) CanPerformMove(move Move, team Team) bool {
	if !move.From.InBounds() || !move.To.InBounds() {
		return false
	}

	piece, ok := gs.Board.PieceAt(move.From)
	if !ok || piece.Team != team {
		return false
	}

	// Target must be empty or hold an opponent piece
	target, ok := gs.Board.PieceAt(move.To)
	return !ok || target.Team != team
}

// PossibleMoves returns the legal moves of team in board order, then offset order.
func (gs *GameState) PossibleMoves(team Team) []Move {
	var moves []Move
	for _, piece := range gs.Board.Pieces() {
		for _, offset := range piece.Type.Offsets(piece.Team) {
			move := Move{From: piece.Coordinates, To: piece.Coordinates.Add(offset)}
			if gs.CanPerformMove(move, team) {
				moves = append(moves, move)
			}
		}
	}
	return moves
}

// PerformMove applies the move, capturing and scoring ambers as needed. The state is left
// untouched when an error is returned.
func (gs *GameState) PerformMove(move Move) error {
	piece, ok := gs.Board.PieceAt(move.From)
	if !ok {
		return fmt.Errorf("cannot perform move %s: %w", move, ErrNoPiece)
	}
	if !gs.CanPerformMove(move, piece.Team) {
		return fmt.Errorf("cannot perform move %s: %w", move, ErrIllegalMove)
	}
	if !piece.canReach(move.Offset()) {
		return fmt.Errorf("cannot perform move %s with %s: %w", move, piece.Type, ErrUnreachable)
	}

	// Capture: the opponent piece joins the tower
	if target, ok := gs.Board.PieceAt(move.To); ok {
		piece.Count += target.Count
		gs.Board.remove(move.To)
	}

	gs.Board.remove(move.From)
	piece.Coordinates = move.To

	if piece.Count >= meta.AMBER_TOWER_HEIGHT ||
		(piece.Type.IsLight() && move.To.X == piece.Team.TargetColumn()) {
		gs.addAmber(piece.Team)
	} else {
		gs.Board.set(piece)
	}

	lastMove := move
	gs.LastMove = &lastMove
	gs.Turn++
	return nil
}

func (gs *GameState) addAmber(team Team) {
	if gs.Ambers == nil {
		gs.Ambers = make(map[Team]int)
	}
	gs.Ambers[team]++
}

// Result returns the outcome once the game is over; ok is false while it is ongoing. Ambers are
// only counted at the end of a round, so the second team of a round can still draw level.
func (gs *GameState) Result() (result Result, ok bool) {
	one, two := gs.Ambers[TeamOne], gs.Ambers[TeamTwo]

	switch {
	case gs.Turn%2 == 0 && (one >= meta.WINNING_AMBERS || two >= meta.WINNING_AMBERS):
		return Result{Winner: ambersLeader(one, two), Reason: "amber limit reached"}, true
	case gs.Turn >= meta.MAX_TURNS:
		return Result{Winner: ambersLeader(one, two), Reason: "turn limit reached"}, true
	}

	current := gs.CurrentTeam()
	if len(gs.PossibleMoves(current)) == 0 {
		return Result{
			Winner: current.Opponent(),
			Reason: fmt.Sprintf("team %s cannot move", current),
		}, true
	}
	return Result{}, false
}

func ambersLeader(one, two int) Team {
	switch {
	case one > two:
		return TeamOne
	case two > one:
		return TeamTwo
	default:
		return NoTeam
	}
}

func (gs *GameState) Copy() *GameState {
	ambersCopy := make(map[Team]int, len(gs.Ambers))
	for team, n := range gs.Ambers {
		ambersCopy[team] = n
	}

	var lastMoveCopy *Move
	if gs.LastMove != nil {
		m := *gs.LastMove
		lastMoveCopy = &m
	}

	return &GameState{
		StartTeam: gs.StartTeam,
		Board:     gs.Board.Copy(),
		LastMove:  lastMoveCopy,
		Turn:      gs.Turn,
		Ambers:    ambersCopy,
	}
}

func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(gs.Turn))
	binary.Write(hasher, binary.LittleEndian, int64(gs.StartTeam))

	// Hash ambers in fixed team order
	binary.Write(hasher, binary.LittleEndian, int64(gs.Ambers[TeamOne]))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Ambers[TeamTwo]))

	// Hash pieces
	for _, p := range gs.Board.Pieces() {
		binary.Write(hasher, binary.LittleEndian, int64(p.Coordinates.X))
		binary.Write(hasher, binary.LittleEndian, int64(p.Coordinates.Y))
		binary.Write(hasher, binary.LittleEndian, int64(p.Team))
		binary.Write(hasher, binary.LittleEndian, int64(p.Type))
		binary.Write(hasher, binary.LittleEndian, int64(p.Count))
	}

	return StateHash(hasher.Sum64())
}
