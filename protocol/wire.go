package protocol

import (
	"encoding/xml"
	"fmt"
	"socha/game"
)

// Wire representation of the Software-Challenge XML protocol.

type coordinatesXML struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

func (c coordinatesXML) coordinates() game.Coordinates {
	return game.Coordinates{X: c.X, Y: c.Y}
}

func toCoordinatesXML(c game.Coordinates) *coordinatesXML {
	return &coordinatesXML{X: c.X, Y: c.Y}
}

type pieceXML struct {
	Type  string `xml:"type,attr"`
	Team  string `xml:"team,attr"`
	Count int    `xml:"count,attr"`
}

type entryXML struct {
	Coordinates coordinatesXML `xml:"coordinates"`
	Piece       pieceXML       `xml:"piece"`
}

type boardXML struct {
	Entries []entryXML `xml:"pieces>entry"`
}

type moveXML struct {
	From coordinatesXML `xml:"from"`
	To   coordinatesXML `xml:"to"`
}

type amberXML struct {
	Team  string `xml:"team"`
	Value int    `xml:"int"`
}

type winnerXML struct {
	Team   string `xml:"team,attr"`
	Reason string `xml:"reason,attr,omitempty"`
}

type dataXML struct {
	Class   string          `xml:"class,attr"`
	Color   string          `xml:"color,attr,omitempty"`
	Message string          `xml:"message,attr,omitempty"`
	State   *StateXML       `xml:"state"`
	Winner  *winnerXML      `xml:"winner"`
	From    *coordinatesXML `xml:"from"`
	To      *coordinatesXML `xml:"to"`
}

type roomXML struct {
	XMLName xml.Name `xml:"room"`
	RoomID  string   `xml:"roomId,attr"`
	Data    dataXML  `xml:"data"`
}

type joinedXML struct {
	RoomID string `xml:"roomId,attr"`
}

type errorXML struct {
	Message string `xml:"message,attr"`
}

type joinXML struct {
	XMLName  xml.Name `xml:"join"`
	GameType string   `xml:"gameType,attr,omitempty"`
}

type joinRoomXML struct {
	XMLName xml.Name `xml:"joinRoom"`
	RoomID  string   `xml:"roomId,attr"`
}

type joinPreparedXML struct {
	XMLName         xml.Name `xml:"joinPrepared"`
	ReservationCode string   `xml:"reservationCode,attr"`
}

// message maps a room envelope to a ServerMessage. ok is false for data classes the client ignores.
func (r roomXML) message() (msg ServerMessage, ok bool, err error) {
	switch r.Data.Class {
	case "welcomeMessage":
		team, err := game.ParseTeam(r.Data.Color)
		if err != nil {
			return nil, false, fmt.Errorf("%w: welcome message: %v", ErrDeserialize, err)
		}
		return WelcomeMessage{RoomID: r.RoomID, Team: team}, true, nil
	case "memento":
		if r.Data.State == nil {
			return nil, false, fmt.Errorf("%w: memento without state", ErrDeserialize)
		}
		gs, err := r.Data.State.GameState()
		if err != nil {
			return nil, false, err
		}
		return Memento{State: gs}, true, nil
	case "moveRequest":
		return MoveRequest{}, true, nil
	case "result":
		result, err := r.Data.result()
		if err != nil {
			return nil, false, err
		}
		return Result{Result: result}, true, nil
	case "error":
		return Error{Message: r.Data.Message}, true, nil
	default:
		return nil, false, nil
	}
}

// result maps the winner element. A missing winner is a draw.
func (d dataXML) result() (game.Result, error) {
	if d.Winner == nil {
		return game.Result{Reason: "no winner"}, nil
	}
	team, err := game.ParseTeam(d.Winner.Team)
	if err != nil {
		return game.Result{}, fmt.Errorf("%w: result winner: %v", ErrDeserialize, err)
	}
	return game.Result{Winner: team, Reason: d.Winner.Reason}, nil
}

func wireValue(msg ClientMessage) (any, error) {
	switch m := msg.(type) {
	case Move:
		return roomXML{
			RoomID: m.RoomID,
			Data: dataXML{
				Class: "move",
				From:  toCoordinatesXML(m.Move.From),
				To:    toCoordinatesXML(m.Move.To),
			},
		}, nil
	case Join:
		return joinXML{GameType: m.GameType}, nil
	case JoinRoom:
		return joinRoomXML{RoomID: m.RoomID}, nil
	case JoinPrepared:
		return joinPreparedXML{ReservationCode: m.ReservationCode}, nil
	default:
		return nil, fmt.Errorf("unsupported client message %T", msg)
	}
}
