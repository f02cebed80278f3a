package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"socha/game"

	"github.com/stretchr/testify/require"
)

const mementoXML = `<room roomId="r1"><data class="memento"><state class="state" turn="3">
  <startTeam>ONE</startTeam>
  <board><pieces>
    <entry><coordinates x="0" y="0"/><piece type="Moewe" team="ONE" count="1"/></entry>
    <entry><coordinates x="7" y="7"/><piece type="Robbe" team="TWO" count="2"/></entry>
  </pieces></board>
  <lastMove><from x="1" y="0"/><to x="0" y="0"/></lastMove>
  <ambers enum-type="team">
    <entry><team>ONE</team><int>1</int></entry>
    <entry><team>TWO</team><int>0</int></entry>
  </ambers>
</state></data></room>`

func TestDecoderStream(t *testing.T) {
	stream := `<protocol>
  <joined roomId="r1"/>
  <room roomId="r1"><data class="welcomeMessage" color="two"/></room>
  ` + mementoXML + `
  <room roomId="r1"><data class="moveRequest"/></room>
  <room roomId="r1"><data class="somethingNew"/></room>
  <unknown><nested/></unknown>
  <room roomId="r1"><data class="result"><winner team="ONE" reason="amber limit reached"/></data></room>
  <left roomId="r1"/>
</protocol>`

	d := NewDecoder(strings.NewReader(stream))

	msg, err := d.Decode()
	require.NoError(t, err)
	require.Equal(t, Joined{RoomID: "r1"}, msg)

	msg, err = d.Decode()
	require.NoError(t, err)
	require.Equal(t, WelcomeMessage{RoomID: "r1", Team: game.TeamTwo}, msg)

	msg, err = d.Decode()
	require.NoError(t, err)
	require.IsType(t, Memento{}, msg)
	gs := msg.(Memento).State
	require.Equal(t, 3, gs.Turn)
	require.Equal(t, game.TeamOne, gs.StartTeam)
	require.Equal(t, 2, gs.Board.Len())
	require.Equal(t, 1, gs.Ambers[game.TeamOne])
	require.Equal(t, &game.Move{From: game.Coordinates{X: 1, Y: 0}, To: game.Coordinates{X: 0, Y: 0}}, gs.LastMove)
	seal, ok := gs.Board.PieceAt(game.Coordinates{X: 7, Y: 7})
	require.True(t, ok)
	require.Equal(t, game.Robbe, seal.Type)
	require.Equal(t, 2, seal.Count)

	msg, err = d.Decode()
	require.NoError(t, err)
	require.Equal(t, MoveRequest{}, msg, "Unknown elements should be skipped")

	msg, err = d.Decode()
	require.NoError(t, err)
	require.Equal(t, Result{Result: game.Result{Winner: game.TeamOne, Reason: "amber limit reached"}}, msg)

	msg, err = d.Decode()
	require.NoError(t, err)
	require.Equal(t, Left{}, msg)

	msg, err = d.Decode()
	require.NoError(t, err)
	require.Equal(t, Left{}, msg, "Closing the protocol element should end the session")

	_, err = d.Decode()
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoderErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		msg, err := DecodeMessage([]byte(`<room roomId="r"><data class="error" message="bad move"/></room>`))
		require.NoError(t, err)
		require.Equal(t, Error{Message: "bad move"}, msg)
	})

	t.Run("invalid welcome team", func(t *testing.T) {
		_, err := DecodeMessage([]byte(`<room roomId="r"><data class="welcomeMessage" color="three"/></room>`))
		require.ErrorIs(t, err, ErrDeserialize)
	})

	t.Run("memento error does not break the stream", func(t *testing.T) {
		stream := `<protocol><room roomId="r"><data class="memento"/></room><room roomId="r"><data class="moveRequest"/></room>`
		d := NewDecoder(strings.NewReader(stream))

		_, err := d.Decode()
		require.ErrorIs(t, err, ErrDeserialize)

		msg, err := d.Decode()
		require.NoError(t, err)
		require.Equal(t, MoveRequest{}, msg)
	})

	t.Run("bad numeric attribute in a frame", func(t *testing.T) {
		_, err := DecodeMessage([]byte(`<room roomId="r"><data class="memento"><state turn="abc"><startTeam>ONE</startTeam></state></data></room>`))
		require.ErrorIs(t, err, ErrDeserialize)
	})

	t.Run("bad numeric attribute does not break the stream", func(t *testing.T) {
		stream := `<protocol>` +
			`<room roomId="r"><data class="memento"><state turn="2"><startTeam>ONE</startTeam><board><pieces>` +
			`<entry><coordinates x="q" y="0"/><piece type="Moewe" team="ONE" count="1"/></entry>` +
			`</pieces></board></state></data></room>` +
			`<room roomId="r"><data class="moveRequest"/></room>`
		d := NewDecoder(strings.NewReader(stream))

		_, err := d.Decode()
		require.ErrorIs(t, err, ErrDeserialize)

		msg, err := d.Decode()
		require.NoError(t, err)
		require.Equal(t, MoveRequest{}, msg)
	})

	t.Run("broken xml is not a deserialize error", func(t *testing.T) {
		d := NewDecoder(strings.NewReader(`<protocol><room roomId="r"><data class="moveRequest"></room>`))
		_, err := d.Decode()
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrDeserialize)
	})

	t.Run("unknown winner team", func(t *testing.T) {
		_, err := DecodeMessage([]byte(`<room roomId="r"><data class="result"><winner team="RED" reason="?"/></data></room>`))
		require.ErrorIs(t, err, ErrDeserialize)
	})

	t.Run("result without winner is a draw", func(t *testing.T) {
		msg, err := DecodeMessage([]byte(`<room roomId="r"><data class="result"/></room>`))
		require.NoError(t, err)
		result, ok := msg.(Result)
		require.True(t, ok)
		require.True(t, result.Result.IsDraw())
	})

	t.Run("empty frame", func(t *testing.T) {
		_, err := DecodeMessage([]byte("   "))
		require.ErrorIs(t, err, ErrEmptyFrame)
		require.ErrorIs(t, err, ErrDeserialize)

		_, err = DecodeMessage([]byte(`<protocol></protocol>`))
		require.NoError(t, err, "A closed stream should decode as the end of the session")
	})
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	require.NoError(t, e.Open())
	require.NoError(t, e.Encode(JoinPrepared{ReservationCode: "abc"}))
	require.NoError(t, e.Encode(Move{
		RoomID: "r1",
		Move:   game.Move{From: game.Coordinates{X: 0, Y: 1}, To: game.Coordinates{X: 1, Y: 2}},
	}))
	require.NoError(t, e.Close())

	require.Equal(t,
		`<protocol><joinPrepared reservationCode="abc"></joinPrepared>`+
			`<room roomId="r1"><data class="move"><from x="0" y="1"></from><to x="1" y="2"></to></data></room>`+
			`</protocol>`,
		buf.String())
}

func TestEncodeMessage(t *testing.T) {
	data, err := EncodeMessage(Join{GameType: "swc_2023_ostseeschach"})
	require.NoError(t, err)
	require.Equal(t, `<join gameType="swc_2023_ostseeschach"></join>`, string(data))

	data, err = EncodeMessage(JoinRoom{RoomID: "r9"})
	require.NoError(t, err)
	require.Equal(t, `<joinRoom roomId="r9"></joinRoom>`, string(data))
}
