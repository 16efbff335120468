package games

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ggp/game"
)

func playSequence(t *testing.T, interp game.Interpreter, state game.State, plays ...game.Play) game.State {
	t.Helper()
	for _, play := range plays {
		next, err := interp.NextState(state, game.MakeTurn(play))
		require.NoError(t, err)
		state = next
	}
	return state
}

func TestTicTacToeOpening(t *testing.T) {
	interp := game.NewRulesInterpreter(TicTacToe())
	init := interp.InitState()

	require.True(t, game.InControl(init, RoleX))
	require.False(t, game.InControl(init, RoleO))

	moves, err := interp.LegalMovesByRole(init, RoleX)
	require.NoError(t, err)
	require.Len(t, moves, 9)

	transitions, err := interp.AllNextStates(init)
	require.NoError(t, err)
	require.Len(t, transitions, 9)
	for _, tr := range transitions {
		require.True(t, game.InControl(tr.State, RoleO), "control should alternate")
	}
}

func TestTicTacToeOccupiedCell(t *testing.T) {
	interp := game.NewRulesInterpreter(TicTacToe())
	state := playSequence(t, interp, interp.InitState(),
		game.Play{Role: RoleX, Move: "cell(1,1)"},
	)

	legal, err := interp.IsLegal(state, RoleO, "cell(1,1)")
	require.NoError(t, err)
	require.False(t, legal, "an occupied cell should not be playable")

	moves, err := interp.LegalMovesByRole(state, RoleO)
	require.NoError(t, err)
	require.Len(t, moves, 8)
}

func TestTicTacToeWin(t *testing.T) {
	interp := game.NewRulesInterpreter(TicTacToe())
	state := playSequence(t, interp, interp.InitState(),
		game.Play{Role: RoleX, Move: "cell(1,1)"},
		game.Play{Role: RoleO, Move: "cell(2,1)"},
		game.Play{Role: RoleX, Move: "cell(1,2)"},
		game.Play{Role: RoleO, Move: "cell(2,2)"},
		game.Play{Role: RoleX, Move: "cell(1,3)"},
	)

	require.True(t, interp.IsTerminal(state))

	goals, err := interp.Goals(state)
	require.NoError(t, err)
	require.Equal(t, map[game.Role]int{RoleX: 100, RoleO: 0}, goals)
}

func TestTicTacToeDraw(t *testing.T) {
	interp := game.NewRulesInterpreter(TicTacToe())
	// x x o / o o x / x o x: full board, no line
	state := playSequence(t, interp, interp.InitState(),
		game.Play{Role: RoleX, Move: "cell(1,1)"},
		game.Play{Role: RoleO, Move: "cell(1,3)"},
		game.Play{Role: RoleX, Move: "cell(1,2)"},
		game.Play{Role: RoleO, Move: "cell(2,1)"},
		game.Play{Role: RoleX, Move: "cell(2,3)"},
		game.Play{Role: RoleO, Move: "cell(2,2)"},
		game.Play{Role: RoleX, Move: "cell(3,1)"},
		game.Play{Role: RoleO, Move: "cell(3,2)"},
		game.Play{Role: RoleX, Move: "cell(3,3)"},
	)

	require.True(t, interp.IsTerminal(state))

	goals, err := interp.Goals(state)
	require.NoError(t, err)
	require.Equal(t, map[game.Role]int{RoleX: 50, RoleO: 50}, goals)
}

func TestTicTacToePerfectInformation(t *testing.T) {
	interp := game.NewRulesInterpreter(TicTacToe())
	state := playSequence(t, interp, interp.InitState(),
		game.Play{Role: RoleX, Move: "cell(2,2)"},
	)

	views, err := interp.Sees(state)
	require.NoError(t, err)
	require.True(t, views[RoleX].Equal(state))
	require.True(t, views[RoleO].Equal(state))
}
