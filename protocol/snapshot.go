package protocol

import (
	"errors"
	"fmt"
	"socha/game"
)

// ErrDeserialize is wrapped by every error caused by malformed server data.
var ErrDeserialize = errors.New("deserialize")

// StateXML is the wire form of a game state snapshot.
type StateXML struct {
	Turn      int        `xml:"turn,attr"`
	StartTeam string     `xml:"startTeam"`
	Board     boardXML   `xml:"board"`
	LastMove  *moveXML   `xml:"lastMove"`
	Ambers    []amberXML `xml:"ambers>entry"`
}

// GameState converts the snapshot. No state is returned when any part of it is invalid.
func (s StateXML) GameState() (*game.GameState, error) {
	startTeam, err := game.ParseTeam(s.StartTeam)
	if err != nil {
		return nil, fmt.Errorf("%w: start team: %v", ErrDeserialize, err)
	}
	if s.Turn < 0 {
		return nil, fmt.Errorf("%w: negative turn %d", ErrDeserialize, s.Turn)
	}

	pieces := make([]game.Piece, 0, len(s.Board.Entries))
	for _, entry := range s.Board.Entries {
		piece, err := entry.piece()
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, piece)
	}
	board, err := game.NewBoard(pieces)
	if err != nil {
		return nil, fmt.Errorf("%w: board: %v", ErrDeserialize, err)
	}

	gs := game.NewGameState(startTeam, board)
	gs.Turn = s.Turn

	if s.LastMove != nil {
		gs.LastMove = &game.Move{
			From: s.LastMove.From.coordinates(),
			To:   s.LastMove.To.coordinates(),
		}
	}

	for _, amber := range s.Ambers {
		team, err := game.ParseTeam(amber.Team)
		if err != nil {
			return nil, fmt.Errorf("%w: ambers: %v", ErrDeserialize, err)
		}
		if amber.Value < 0 {
			return nil, fmt.Errorf("%w: ambers: negative count %d for team %s", ErrDeserialize, amber.Value, team)
		}
		gs.Ambers[team] = amber.Value
	}

	return gs, nil
}

func (e entryXML) piece() (game.Piece, error) {
	c := e.Coordinates.coordinates()
	if !c.InBounds() {
		return game.Piece{}, fmt.Errorf("%w: piece at %s out of bounds", ErrDeserialize, c)
	}
	team, err := game.ParseTeam(e.Piece.Team)
	if err != nil {
		return game.Piece{}, fmt.Errorf("%w: piece at %s: %v", ErrDeserialize, c, err)
	}
	pt, err := game.ParsePieceType(e.Piece.Type)
	if err != nil {
		return game.Piece{}, fmt.Errorf("%w: piece at %s: %v", ErrDeserialize, c, err)
	}

	count := e.Piece.Count
	switch {
	case count == 0: // attribute omitted
		count = 1
	case count < 0:
		return game.Piece{}, fmt.Errorf("%w: piece at %s: invalid count %d", ErrDeserialize, c, count)
	}

	return game.Piece{Team: team, Type: pt, Coordinates: c, Count: count}, nil
}
