package communication

import (
	"context"
	"socha/protocol"
)

// Communicator abstracts the transport to the game server. Errors returned by Receive and Send
// are transport failures, except Receive errors wrapping protocol.ErrDeserialize, which only
// concern the message at hand.
type Communicator interface {
	Receive(ctx context.Context) (protocol.ServerMessage, error)
	Send(ctx context.Context, msg protocol.ClientMessage) error
	Close() error
}
