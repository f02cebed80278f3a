package protocol

import (
	"testing"

	"socha/game"

	"github.com/stretchr/testify/require"
)

func validState() StateXML {
	return StateXML{
		Turn:      4,
		StartTeam: "TWO",
		Board: boardXML{Entries: []entryXML{
			{Coordinates: coordinatesXML{X: 0, Y: 3}, Piece: pieceXML{Type: "Herzmuschel", Team: "ONE"}},
			{Coordinates: coordinatesXML{X: 7, Y: 4}, Piece: pieceXML{Type: "Seestern", Team: "TWO", Count: 1}},
		}},
		Ambers: []amberXML{{Team: "TWO", Value: 1}},
	}
}

func TestStateConversion(t *testing.T) {
	t.Run("valid snapshot", func(t *testing.T) {
		gs, err := validState().GameState()
		require.NoError(t, err)

		require.Equal(t, game.TeamTwo, gs.StartTeam)
		require.Equal(t, 4, gs.Turn)
		require.Nil(t, gs.LastMove)
		require.Equal(t, 1, gs.Ambers[game.TeamTwo])
		require.Equal(t, 0, gs.Ambers[game.TeamOne])

		cockle, ok := gs.Board.PieceAt(game.Coordinates{X: 0, Y: 3})
		require.True(t, ok)
		require.Equal(t, 1, cockle.Count, "Missing count should default to a single piece")
	})

	cases := []struct {
		name   string
		mutate func(s *StateXML)
	}{
		{"unknown start team", func(s *StateXML) { s.StartTeam = "RED" }},
		{"unknown piece team", func(s *StateXML) { s.Board.Entries[0].Piece.Team = "RED" }},
		{"unknown piece type", func(s *StateXML) { s.Board.Entries[0].Piece.Type = "Hai" }},
		{"out of range coordinates", func(s *StateXML) { s.Board.Entries[1].Coordinates.X = 8 }},
		{"negative count", func(s *StateXML) { s.Board.Entries[1].Piece.Count = -1 }},
		{"collision", func(s *StateXML) { s.Board.Entries[1].Coordinates = s.Board.Entries[0].Coordinates }},
		{"unknown amber team", func(s *StateXML) { s.Ambers[0].Team = "RED" }},
		{"negative turn", func(s *StateXML) { s.Turn = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validState()
			tc.mutate(&s)

			gs, err := s.GameState()

			require.ErrorIs(t, err, ErrDeserialize)
			require.Nil(t, gs, "No partial state should be returned")
		})
	}
}
