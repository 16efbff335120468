package games

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ggp/game"
)

func TestCatalog(t *testing.T) {
	require.Equal(t, []string{"darksplitcorridor", "minipoker", "nim", "rockpaperscissors", "tictactoe"}, Names())

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			interp, err := ByName(name)
			require.NoError(t, err)
			require.NotEmpty(t, interp.Roles())
			require.False(t, interp.IsTerminal(interp.InitState()))
		})
	}

	_, err := ByName("chess")
	require.Error(t, err)
}

func TestNim(t *testing.T) {
	interp := game.NewRulesInterpreter(Nim())

	t.Run("takes are bounded by the pile", func(t *testing.T) {
		moves, err := interp.LegalMovesByRole(interp.InitState(), RoleFirst)
		require.NoError(t, err)
		require.Equal(t, []game.Move{"take(1)", "take(2)", "take(3)"}, moves)

		small := playSequence(t, interp, interp.InitState(),
			game.Play{Role: RoleFirst, Move: "take(3)"},
			game.Play{Role: RoleSecond, Move: "take(2)"},
		)
		moves, err = interp.LegalMovesByRole(small, RoleFirst)
		require.NoError(t, err)
		require.Equal(t, []game.Move{"take(1)", "take(2)"}, moves)
	})

	t.Run("taking the last object wins", func(t *testing.T) {
		state := playSequence(t, interp, interp.InitState(),
			game.Play{Role: RoleFirst, Move: "take(3)"},
			game.Play{Role: RoleSecond, Move: "take(3)"},
			game.Play{Role: RoleFirst, Move: "take(1)"},
		)

		require.True(t, interp.IsTerminal(state))
		goals, err := interp.Goals(state)
		require.NoError(t, err)
		require.Equal(t, map[game.Role]int{RoleFirst: 1, RoleSecond: 0}, goals)
	})
}

func TestRockPaperScissors(t *testing.T) {
	interp := game.NewRulesInterpreter(RockPaperScissors())

	t.Run("both roles move simultaneously", func(t *testing.T) {
		init := interp.InitState()
		require.Len(t, game.RolesInControl(init), 2)

		transitions, err := interp.AllNextStates(init)
		require.NoError(t, err)
		require.Len(t, transitions, 9)
		for _, tr := range transitions {
			require.True(t, interp.IsTerminal(tr.State))
		}
	})

	t.Run("a lone move is rejected", func(t *testing.T) {
		_, err := interp.NextState(interp.InitState(), game.MakeTurn(game.Play{Role: RoleLeft, Move: "rock"}))
		require.ErrorIs(t, err, game.ErrWrongRoles)
	})

	t.Run("outcomes", func(t *testing.T) {
		turn := game.MakeTurn(
			game.Play{Role: RoleLeft, Move: "rock"},
			game.Play{Role: RoleRight, Move: "scissors"},
		)
		state, err := interp.NextState(interp.InitState(), turn)
		require.NoError(t, err)

		goals, err := interp.Goals(state)
		require.NoError(t, err)
		require.Equal(t, map[game.Role]int{RoleLeft: 100, RoleRight: 0}, goals)

		tie, err := interp.NextState(interp.InitState(), game.MakeTurn(
			game.Play{Role: RoleLeft, Move: "paper"},
			game.Play{Role: RoleRight, Move: "paper"},
		))
		require.NoError(t, err)
		goals, err = interp.Goals(tie)
		require.NoError(t, err)
		require.Equal(t, map[game.Role]int{RoleLeft: 50, RoleRight: 50}, goals)
	})
}
