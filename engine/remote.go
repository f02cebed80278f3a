package engine

import (
	"context"
	"errors"
	"fmt"
	"socha/communication"
	"socha/logging"
	"socha/logic"
	"socha/meta"
	"socha/protocol"
)

// RemoteEngine plays one session against a game server.
type RemoteEngine struct {
	comm  communication.Communicator
	logic *logic.Logic
	join  protocol.ClientMessage
	sink  logging.Sink
}

type RemoteOption func(e *RemoteEngine)

// WithJoin overrides the join message sent when the session starts.
func WithJoin(join protocol.ClientMessage) RemoteOption {
	return func(e *RemoteEngine) {
		if join != nil {
			e.join = join
		}
	}
}

func WithRemoteSink(sink logging.Sink) RemoteOption {
	return func(e *RemoteEngine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

func NewRemoteEngine(comm communication.Communicator, l *logic.Logic, options ...RemoteOption) *RemoteEngine {
	e := &RemoteEngine{
		comm:  comm,
		logic: l,
		join:  protocol.Join{GameType: meta.GAME_TYPE},
		sink:  logging.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// JoinMessage picks the join request: a reservation code wins over a room id, which wins over
// joining any open game.
func JoinMessage(reservation, room string) protocol.ClientMessage {
	switch {
	case reservation != "":
		return protocol.JoinPrepared{ReservationCode: reservation}
	case room != "":
		return protocol.JoinRoom{RoomID: room}
	default:
		return protocol.Join{GameType: meta.GAME_TYPE}
	}
}

// Run joins and processes inbound messages one at a time until the session terminates. The
// communicator is closed on return.
func (e *RemoteEngine) Run(ctx context.Context) error {
	defer func() {
		if err := e.comm.Close(); err != nil {
			e.sink.Emit(logging.DebugLevel, "failed to close connection", logging.F("error", err))
		}
	}()

	if err := e.comm.Send(ctx, e.join); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}
	e.sink.Emit(logging.InfoLevel, "join requested", logging.F("message", fmt.Sprintf("%T", e.join)))

	var sendErr error
	sender := logic.SenderFunc(func(msg protocol.ClientMessage) error {
		sendErr = e.comm.Send(ctx, msg)
		return sendErr
	})

	for {
		msg, err := e.comm.Receive(ctx)
		if err != nil {
			if errors.Is(err, protocol.ErrDeserialize) {
				e.sink.Emit(logging.WarnLevel, "dropped malformed message", logging.F("error", err))
				continue
			}
			return fmt.Errorf("failed to receive message: %w", err)
		}

		if e.logic.Process(msg, sender) == logic.Continue {
			continue
		}

		if sendErr != nil {
			return fmt.Errorf("failed to send move: %w", sendErr)
		}
		if result, ok := e.logic.Result(); ok {
			e.sink.Emit(logging.InfoLevel, "session terminated", logging.F("result", result))
		} else {
			e.sink.Emit(logging.InfoLevel, "session terminated without result")
		}
		return nil
	}
}
