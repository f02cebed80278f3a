package protocol

import "socha/game"

// ServerMessage is a message received from the game server.
type ServerMessage interface{ isServerMessage() }

// WelcomeMessage assigns the client its room and team.
type WelcomeMessage struct {
	RoomID string
	Team   game.Team
}

// Memento carries an authoritative snapshot that replaces the local state.
type Memento struct {
	State *game.GameState
}

// MoveRequest asks the client to send its next move.
type MoveRequest struct{}

// Result announces the outcome of the game.
type Result struct {
	Result game.Result
}

// Left is sent when the session ends.
type Left struct{}

// Error is a protocol-level error reported by the server.
type Error struct {
	Message string
}

// Joined acknowledges a join request.
type Joined struct {
	RoomID string
}

func (WelcomeMessage) isServerMessage() {}
func (Memento) isServerMessage()        {}
func (MoveRequest) isServerMessage()    {}
func (Result) isServerMessage()         {}
func (Left) isServerMessage()           {}
func (Error) isServerMessage()          {}
func (Joined) isServerMessage()         {}

// ClientMessage is a message sent to the game server.
type ClientMessage interface{ isClientMessage() }

// Move sends a move for the given room.
type Move struct {
	Move   game.Move
	RoomID string
}

// Join asks for any open game of the given type.
type Join struct {
	GameType string
}

// JoinRoom joins an existing room.
type JoinRoom struct {
	RoomID string
}

// JoinPrepared joins a game prepared by an administrator via its reservation code.
type JoinPrepared struct {
	ReservationCode string
}

func (Move) isClientMessage()         {}
func (Join) isClientMessage()         {}
func (JoinRoom) isClientMessage()     {}
func (JoinPrepared) isClientMessage() {}
