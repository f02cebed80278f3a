package client

import (
	"context"
	"errors"
	"fmt"
	"socha/protocol"

	"nhooyr.io/websocket"
)

// WebsocketCommunicator exchanges one XML message per text frame.
type WebsocketCommunicator struct {
	conn *websocket.Conn
}

// DialWebsocket connects to a game server (or relay) at url, e.g. ws://localhost:13055/ws.
func DialWebsocket(ctx context.Context, url string) (*WebsocketCommunicator, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &WebsocketCommunicator{conn: conn}, nil
}

func (wc *WebsocketCommunicator) Receive(ctx context.Context) (protocol.ServerMessage, error) {
	for {
		_, data, err := wc.conn.Read(ctx)
		if err != nil {
			// Treat clean close/going-away as the end of the session
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return protocol.Left{}, nil
			}
			return nil, err
		}

		msg, err := protocol.DecodeMessage(data)
		if errors.Is(err, protocol.ErrEmptyFrame) {
			continue
		}
		return msg, err
	}
}

func (wc *WebsocketCommunicator) Send(ctx context.Context, msg protocol.ClientMessage) error {
	data, err := protocol.EncodeMessage(msg)
	if err != nil {
		return err
	}
	return wc.conn.Write(ctx, websocket.MessageText, data)
}

func (wc *WebsocketCommunicator) Close() error {
	return wc.conn.Close(websocket.StatusNormalClosure, "bye")
}
