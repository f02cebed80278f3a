package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"socha/game"
	"socha/protocol"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func TestWebsocketCommunicator(t *testing.T) {
	frames := []string{
		`<joined roomId="r1"/>`,
		"  ",
		`<room roomId="r1"><data class="welcomeMessage" color="three"/></room>`,
		`<room roomId="r1"><data class="moveRequest"/></room>`,
	}
	received := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := r.Context()
		for _, frame := range frames {
			if err := c.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
				return
			}
		}
		_, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		received <- string(data)
		c.Close(websocket.StatusNormalClosure, "game over")
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wc, err := DialWebsocket(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer wc.Close()

	msg, err := wc.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, protocol.Joined{RoomID: "r1"}, msg)

	// The blank frame is skipped; the malformed one is reported without breaking the connection
	_, err = wc.Receive(ctx)
	require.ErrorIs(t, err, protocol.ErrDeserialize)

	msg, err = wc.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, protocol.MoveRequest{}, msg)

	move := game.Move{From: game.Coordinates{X: 0, Y: 3}, To: game.Coordinates{X: 1, Y: 4}}
	require.NoError(t, wc.Send(ctx, protocol.Move{Move: move, RoomID: "r1"}))

	select {
	case got := <-received:
		require.Equal(t, `<room roomId="r1"><data class="move"><from x="0" y="3"></from><to x="1" y="4"></to></data></room>`, got)
	case <-ctx.Done():
		t.Fatal("server did not receive the move")
	}

	msg, err = wc.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, protocol.Left{}, msg)
}

func TestDialWebsocketFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := DialWebsocket(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.Error(t, err)
}
