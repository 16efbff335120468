package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"ggp/game"
	"ggp/games"
)

func TestNormalizedUtility(t *testing.T) {
	t.Run("two-role win and loss", func(t *testing.T) {
		goals := map[game.Role]int{"x": 100, "o": 0}

		utility, err := normalizedUtility(goals, "x")
		require.NoError(t, err)
		require.Equal(t, 1.0, utility)

		utility, err = normalizedUtility(goals, "o")
		require.NoError(t, err)
		require.Equal(t, 0.0, utility)
	})

	t.Run("two-role tie", func(t *testing.T) {
		goals := map[game.Role]int{"x": 50, "o": 50}

		for _, role := range []game.Role{"x", "o"} {
			utility, err := normalizedUtility(goals, role)
			require.NoError(t, err)
			require.Equal(t, 0.5, utility)
		}
	})

	t.Run("three distinct places", func(t *testing.T) {
		goals := map[game.Role]int{"a": 100, "b": 50, "c": 0}

		for role, want := range map[game.Role]float64{"a": 1.0, "b": 0.5, "c": 0.0} {
			utility, err := normalizedUtility(goals, role)
			require.NoError(t, err)
			require.Equal(t, want, utility, "role %s", role)
		}
	})

	t.Run("shared first place splits the range", func(t *testing.T) {
		goals := map[game.Role]int{"a": 100, "b": 100, "c": 0}

		utility, err := normalizedUtility(goals, "a")
		require.NoError(t, err)
		require.Equal(t, 0.5, utility)
	})

	t.Run("single place scores a half", func(t *testing.T) {
		utility, err := normalizedUtility(map[game.Role]int{"solo": 100}, "solo")
		require.NoError(t, err)
		require.Equal(t, 0.5, utility)
	})

	t.Run("role without a goal", func(t *testing.T) {
		_, err := normalizedUtility(map[game.Role]int{"x": 100}, "o")
		require.ErrorIs(t, err, game.ErrGoalUndefined)
	})

	t.Run("negative goals normalize the same way", func(t *testing.T) {
		goals := map[game.Role]int{"bluffer": -20, "caller": 20}

		utility, err := normalizedUtility(goals, "caller")
		require.NoError(t, err)
		require.Equal(t, 1.0, utility)

		utility, err = normalizedUtility(goals, "bluffer")
		require.NoError(t, err)
		require.Equal(t, 0.0, utility)
	})
}

func TestFinalGoal(t *testing.T) {
	interp, err := games.ByName("nim")
	require.NoError(t, err)
	terminal := game.MakeState("control(first)", "pile(size(0))")

	utility, err := FinalGoal{}.Evaluate(interp, terminal, "first")
	require.NoError(t, err)
	require.Equal(t, 1.0, utility)

	utility, err = FinalGoal{}.Evaluate(interp, terminal, "second")
	require.NoError(t, err)
	require.Equal(t, 0.0, utility)

	t.Run("non-terminal state is an error", func(t *testing.T) {
		_, err := FinalGoal{}.Evaluate(interp, interp.InitState(), "first")
		require.ErrorIs(t, err, game.ErrGoalUndefined)
	})
}

func TestLightPlayout(t *testing.T) {
	interp, err := games.ByName("nim")
	require.NoError(t, err)

	t.Run("rollout reaches a terminal score", func(t *testing.T) {
		playout := NewLightPlayout(WithPlayoutSeed(7))

		for i := 0; i < 20; i++ {
			utility, err := playout.Evaluate(interp, interp.InitState(), games.RoleFirst)
			require.NoError(t, err)
			require.Contains(t, []float64{0.0, 1.0}, utility, "nim always has a winner")
		}
	})

	t.Run("terminal state scores immediately", func(t *testing.T) {
		playout := NewLightPlayout(WithPlayoutSeed(7))
		terminal := game.MakeState("control(second)", "pile(size(0))")

		utility, err := playout.Evaluate(interp, terminal, games.RoleFirst)
		require.NoError(t, err)
		require.Equal(t, 0.0, utility)
	})

	t.Run("book short-circuits the rollout", func(t *testing.T) {
		book := &Book{role: games.RoleFirst, values: map[string]float64{
			interp.InitState().Key(): 0.25,
		}}
		playout := NewLightPlayout(WithPlayoutSeed(7), WithBook(book))

		utility, err := playout.Evaluate(interp, interp.InitState(), games.RoleFirst)
		require.NoError(t, err)
		require.Equal(t, 0.25, utility)
	})

	t.Run("depth bound stops a runaway rollout", func(t *testing.T) {
		endless := game.NewRulesInterpreter(&game.Rules{
			Name:     "endless",
			Roles:    []game.Role{"solo"},
			Init:     func() game.State { return game.MakeState("control(solo)") },
			Legal:    func(game.State, game.Role) []game.Move { return []game.Move{"noop"} },
			Apply:    func(state game.State, _ game.Turn) game.State { return state },
			Terminal: func(game.State) bool { return false },
			Goals:    func(game.State) map[game.Role]int { return nil },
		})
		playout := NewLightPlayout(WithPlayoutSeed(7), WithMaxPlayoutDepth(16))

		_, err := playout.Evaluate(endless, endless.InitState(), "solo")
		require.Error(t, err)
	})
}

func TestRandomTurn(t *testing.T) {
	t.Run("covers every controlling role", func(t *testing.T) {
		interp, err := games.ByName("rockpaperscissors")
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(1))

		turn, err := RandomTurn(interp, interp.InitState(), rng)
		require.NoError(t, err)
		require.Equal(t, 2, turn.Len())
		require.Equal(t, []game.Role{games.RoleLeft, games.RoleRight}, turn.Roles())
	})

	t.Run("sampled turns are applicable", func(t *testing.T) {
		interp, err := games.ByName("tictactoe")
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(1))
		state := interp.InitState()

		for !interp.IsTerminal(state) {
			turn, err := RandomTurn(interp, state, rng)
			require.NoError(t, err)
			state, err = interp.NextState(state, turn)
			require.NoError(t, err)
		}
	})
}
