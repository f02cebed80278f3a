package client

import (
	"context"
	"fmt"
	"net"
	"socha/protocol"
	"time"
)

// TCPCommunicator speaks the XML stream protocol over a TCP connection.
type TCPCommunicator struct {
	conn net.Conn
	dec  *protocol.Decoder
	enc  *protocol.Encoder
}

// DialTCP connects to the game server at addr (host:port).
func DialTCP(ctx context.Context, addr string) (*TCPCommunicator, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	tc, err := NewTCPCommunicator(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return tc, nil
}

// NewTCPCommunicator opens the protocol stream on an established connection.
func NewTCPCommunicator(conn net.Conn) (*TCPCommunicator, error) {
	tc := &TCPCommunicator{
		conn: conn,
		dec:  protocol.NewDecoder(conn),
		enc:  protocol.NewEncoder(conn),
	}
	if err := tc.enc.Open(); err != nil {
		return nil, fmt.Errorf("failed to open protocol stream: %w", err)
	}
	return tc, nil
}

func (tc *TCPCommunicator) Receive(ctx context.Context) (protocol.ServerMessage, error) {
	stop := watchDeadline(ctx, tc.conn.SetReadDeadline)
	defer stop()

	msg, err := tc.dec.Decode()
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return msg, err
}

func (tc *TCPCommunicator) Send(ctx context.Context, msg protocol.ClientMessage) error {
	stop := watchDeadline(ctx, tc.conn.SetWriteDeadline)
	defer stop()

	if err := tc.enc.Encode(msg); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Close ends the protocol stream and closes the connection.
func (tc *TCPCommunicator) Close() error {
	_ = tc.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_ = tc.enc.Close()
	return tc.conn.Close()
}

// watchDeadline applies the context deadline to the connection and unblocks pending I/O once
// the context is done.
func watchDeadline(ctx context.Context, set func(time.Time) error) (stop func()) {
	deadline, _ := ctx.Deadline()
	_ = set(deadline)
	cancel := context.AfterFunc(ctx, func() {
		_ = set(time.Now())
	})
	return func() { cancel() }
}
