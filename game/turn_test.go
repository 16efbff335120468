package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeTurn(t *testing.T) {
	t.Run("plays are sorted by role", func(t *testing.T) {
		turn := MakeTurn(
			Play{Role: "right", Move: "rock"},
			Play{Role: "left", Move: "paper"},
		)

		require.Equal(t, "left:paper|right:rock", turn.Key())
		require.Equal(t, []Role{"left", "right"}, turn.Roles())
	})

	t.Run("repeated role keeps the last move", func(t *testing.T) {
		turn := MakeTurn(
			Play{Role: "left", Move: "rock"},
			Play{Role: "left", Move: "paper"},
		)

		require.Equal(t, 1, turn.Len())
		move, ok := turn.MoveOf("left")
		require.True(t, ok)
		require.Equal(t, Move("paper"), move)
	})

	t.Run("empty turn", func(t *testing.T) {
		turn := MakeTurn()

		require.Equal(t, 0, turn.Len())
		require.Equal(t, "", turn.Key())
	})
}

func TestTurnEqual(t *testing.T) {
	a := MakeTurn(Play{Role: "x", Move: "cell(1,1)"})
	b := MakeTurn(Play{Role: "x", Move: "cell(1,1)"})
	c := MakeTurn(Play{Role: "x", Move: "cell(2,2)"})
	d := MakeTurn(Play{Role: "x", Move: "cell(1,1)"}, Play{Role: "o", Move: "noop"})

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
}

func TestTurnMoveOf(t *testing.T) {
	turn := MakeTurn(Play{Role: "bluffer", Move: "hold"})

	move, ok := turn.MoveOf("bluffer")
	require.True(t, ok)
	require.Equal(t, Move("hold"), move)

	_, ok = turn.MoveOf("caller")
	require.False(t, ok)
}

func TestRecordPins(t *testing.T) {
	record := NewRecord()
	record.States[0] = MakeState("control(x)")
	record.PinView(2, "caller", MakeState("control(caller)", "dealt"))
	record.PinMove(1, "bluffer", "hold")

	require.Equal(t, 0, record.Offset())
	require.Equal(t, 2, record.Horizon())
	require.Equal(t, Move("hold"), record.Moves[1]["bluffer"])
	require.True(t, record.Views[2]["caller"].Has("dealt"))
}

func TestRecordBounds(t *testing.T) {
	t.Run("empty record", func(t *testing.T) {
		record := NewRecord()

		require.Equal(t, 0, record.Offset())
		require.Equal(t, 0, record.Horizon())
	})

	t.Run("offset skips the early plies", func(t *testing.T) {
		record := NewRecord()
		record.States[3] = MakeState("control(x)")
		record.Turns[5] = MakeTurn(Play{Role: "x", Move: "cell(1,1)"})

		require.Equal(t, 3, record.Offset())
		require.Equal(t, 5, record.Horizon())
	})
}

func TestRanks(t *testing.T) {
	t.Run("distinct goals", func(t *testing.T) {
		ranks := Ranks(map[Role]int{"a": 100, "b": 50, "c": 0})

		require.Equal(t, map[Role]int{"a": 0, "b": 1, "c": 2}, ranks)
	})

	t.Run("shared goals share a rank", func(t *testing.T) {
		ranks := Ranks(map[Role]int{"a": 50, "b": 50})

		require.Equal(t, map[Role]int{"a": 0, "b": 0}, ranks)
	})

	t.Run("negative goals rank by value", func(t *testing.T) {
		ranks := Ranks(map[Role]int{"bluffer": -20, "caller": 20})

		require.Equal(t, 1, ranks["bluffer"])
		require.Equal(t, 0, ranks["caller"])
	})
}

func TestRolesInControl(t *testing.T) {
	t.Run("derived from control facts", func(t *testing.T) {
		state := MakeState("control(left)", "control(right)", "at(left,b1)")

		require.Equal(t, []Role{"left", "right"}, RolesInControl(state))
		require.True(t, InControl(state, "left"))
		require.False(t, InControl(state, "random"))
	})

	t.Run("terminal state controls no one", func(t *testing.T) {
		state := MakeState("chose(left,rock)", "chose(right,paper)")

		require.Empty(t, RolesInControl(state))
	})
}
