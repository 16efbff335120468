package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// coinGuess is a two-ply test game: the random role deals heads or tails,
// then the guesser names a side without seeing the coin.
func coinGuess() *Rules {
	return &Rules{
		Name:  "coinguess",
		Roles: []Role{"guesser", RoleRandom},
		Init: func() State {
			return MakeState(F("control", string(RoleRandom)))
		},
		Legal: func(state State, role Role) []Move {
			if !state.Has(F("control", string(role))) {
				return nil
			}
			if role == RoleRandom {
				return []Move{"deal(heads)", "deal(tails)"}
			}
			return []Move{"guess(heads)", "guess(tails)"}
		},
		Apply: func(state State, turn Turn) State {
			play := turn.Plays()[0]
			if play.Role == RoleRandom {
				side := string(play.Move[len("deal(") : len(play.Move)-1])
				return MakeState(F("coin", side), F("control", "guesser"))
			}
			side := string(play.Move[len("guess(") : len(play.Move)-1])
			result := "lose"
			if state.Has(F("coin", side)) {
				result = "win"
			}
			return state.Without(F("control", "guesser")).With(F("result", result))
		},
		Sees: func(state State, role Role) View {
			if role == RoleRandom {
				return state
			}
			return state.Without(F("coin", "heads"), F("coin", "tails"))
		},
		Terminal: func(state State) bool {
			return state.Has(F("result", "win")) || state.Has(F("result", "lose"))
		},
		Goals: func(state State) map[Role]int {
			if state.Has(F("result", "win")) {
				return map[Role]int{"guesser": 100}
			}
			return map[Role]int{"guesser": 0}
		},
	}
}

func TestRulesInterpreterBasics(t *testing.T) {
	interp := NewRulesInterpreter(coinGuess())

	t.Run("roles are sorted", func(t *testing.T) {
		require.Equal(t, []Role{"guesser", RoleRandom}, interp.Roles())
	})

	t.Run("legal moves are sorted", func(t *testing.T) {
		moves, err := interp.LegalMovesByRole(interp.InitState(), RoleRandom)

		require.NoError(t, err)
		require.Equal(t, []Move{"deal(heads)", "deal(tails)"}, moves)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := interp.LegalMovesByRole(interp.InitState(), "dealer")

		require.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("legal moves of every controlling role", func(t *testing.T) {
		moves, err := interp.LegalMoves(interp.InitState())

		require.NoError(t, err)
		require.Len(t, moves, 1)
		require.Len(t, moves[RoleRandom], 2)
	})
}

func TestRulesInterpreterNextState(t *testing.T) {
	interp := NewRulesInterpreter(coinGuess())

	t.Run("legal turn", func(t *testing.T) {
		next, err := interp.NextState(interp.InitState(), MakeTurn(Play{Role: RoleRandom, Move: "deal(heads)"}))

		require.NoError(t, err)
		require.True(t, next.Has("coin(heads)"))
		require.True(t, InControl(next, "guesser"))
	})

	t.Run("turn for the wrong role", func(t *testing.T) {
		_, err := interp.NextState(interp.InitState(), MakeTurn(Play{Role: "guesser", Move: "guess(heads)"}))

		require.ErrorIs(t, err, ErrWrongRoles)
	})

	t.Run("illegal move", func(t *testing.T) {
		_, err := interp.NextState(interp.InitState(), MakeTurn(Play{Role: RoleRandom, Move: "deal(edge)"}))

		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("turn covering too many roles", func(t *testing.T) {
		_, err := interp.NextState(interp.InitState(), MakeTurn(
			Play{Role: RoleRandom, Move: "deal(heads)"},
			Play{Role: "guesser", Move: "guess(heads)"},
		))

		require.ErrorIs(t, err, ErrWrongRoles)
	})
}

func TestRulesInterpreterAllNextStates(t *testing.T) {
	interp := NewRulesInterpreter(coinGuess())

	t.Run("enumerates in deterministic order", func(t *testing.T) {
		transitions, err := interp.AllNextStates(interp.InitState())

		require.NoError(t, err)
		require.Len(t, transitions, 2)
		require.Equal(t, "random:deal(heads)", transitions[0].Turn.Key())
		require.Equal(t, "random:deal(tails)", transitions[1].Turn.Key())
	})

	t.Run("terminal state has no successors", func(t *testing.T) {
		terminal := MakeState(F("coin", "heads"), F("result", "win"))

		transitions, err := interp.AllNextStates(terminal)

		require.NoError(t, err)
		require.Empty(t, transitions)
	})
}

func TestRulesInterpreterSees(t *testing.T) {
	interp := NewRulesInterpreter(coinGuess())
	dealt := MakeState(F("coin", "heads"), F("control", "guesser"))

	t.Run("partial view", func(t *testing.T) {
		view, err := interp.SeesByRole(dealt, "guesser")

		require.NoError(t, err)
		require.False(t, view.Has("coin(heads)"))
		require.True(t, view.Has("control(guesser)"))
		require.True(t, view.SubsetOf(dealt))
	})

	t.Run("full view for the dealer", func(t *testing.T) {
		view, err := interp.SeesByRole(dealt, RoleRandom)

		require.NoError(t, err)
		require.True(t, view.Equal(dealt))
	})

	t.Run("nil sees means perfect information", func(t *testing.T) {
		perfect := NewRulesInterpreter(&Rules{
			Name:     "open",
			Roles:    []Role{"solo"},
			Init:     func() State { return MakeState("control(solo)", "secret") },
			Legal:    func(State, Role) []Move { return []Move{"noop"} },
			Apply:    func(state State, _ Turn) State { return state },
			Terminal: func(State) bool { return false },
			Goals:    func(State) map[Role]int { return nil },
		})

		view, err := perfect.SeesByRole(perfect.InitState(), "solo")

		require.NoError(t, err)
		require.True(t, view.Equal(perfect.InitState()))
	})
}

func TestRulesInterpreterGoals(t *testing.T) {
	interp := NewRulesInterpreter(coinGuess())

	t.Run("non-terminal state has no goals", func(t *testing.T) {
		_, err := interp.Goals(interp.InitState())

		require.ErrorIs(t, err, ErrGoalUndefined)
	})

	t.Run("terminal goals", func(t *testing.T) {
		terminal := MakeState(F("coin", "heads"), F("result", "win"))

		goal, err := interp.GoalByRole(terminal, "guesser")

		require.NoError(t, err)
		require.Equal(t, 100, goal)
	})

	t.Run("role without a goal value", func(t *testing.T) {
		terminal := MakeState(F("coin", "heads"), F("result", "win"))

		_, err := interp.GoalByRole(terminal, RoleRandom)

		require.ErrorIs(t, err, ErrGoalUndefined)
	})
}

func TestRulesInterpreterDevelopments(t *testing.T) {
	interp := NewRulesInterpreter(coinGuess())

	t.Run("hidden deal yields one development per world", func(t *testing.T) {
		record := NewRecord()
		record.States[0] = interp.InitState()
		record.PinView(1, "guesser", MakeState(F("control", "guesser")))

		developments, err := interp.Developments(record)

		require.NoError(t, err)
		require.Len(t, developments, 2)
		for _, development := range developments {
			require.Len(t, development, 2)
			require.True(t, development[0].State.Equal(interp.InitState()))
			require.Nil(t, development[1].Turn, "the final step should carry no turn")
		}
	})

	t.Run("pinned move narrows to one development", func(t *testing.T) {
		record := NewRecord()
		record.PinMove(0, RoleRandom, "deal(heads)")
		record.PinView(1, "guesser", MakeState(F("control", "guesser")))

		developments, err := interp.Developments(record)

		require.NoError(t, err)
		require.Len(t, developments, 1)
		require.True(t, developments[0][1].State.Has("coin(heads)"))
	})

	t.Run("pinned turn narrows to one development", func(t *testing.T) {
		record := NewRecord()
		record.Turns[0] = MakeTurn(Play{Role: RoleRandom, Move: "deal(tails)"})
		record.States[0] = interp.InitState()
		record.PinView(1, "guesser", MakeState(F("control", "guesser")))

		developments, err := interp.Developments(record)

		require.NoError(t, err)
		require.Len(t, developments, 1)
		require.True(t, developments[0][1].State.Has("coin(tails)"))
	})

	t.Run("unsatisfiable evidence", func(t *testing.T) {
		record := NewRecord()
		record.States[0] = interp.InitState()
		record.States[1] = MakeState(F("coin", "heads")) // no deal leads to a state without control

		_, err := interp.Developments(record)

		require.ErrorIs(t, err, ErrUnsatisfiableRecord)
	})

	t.Run("offset beyond zero needs a pinned state", func(t *testing.T) {
		record := NewRecord()
		record.PinView(2, "guesser", MakeState(F("result", "win")))

		_, err := interp.Developments(record)

		require.ErrorIs(t, err, ErrUnsatisfiableRecord)
	})

	t.Run("record spanning to a terminal ply", func(t *testing.T) {
		record := NewRecord()
		record.PinMove(0, RoleRandom, "deal(heads)")
		record.PinMove(1, "guesser", "guess(heads)")
		record.States[2] = MakeState(F("coin", "heads"), F("result", "win"))

		developments, err := interp.Developments(record)

		require.NoError(t, err)
		require.Len(t, developments, 1)
		require.Len(t, developments[0], 3)
	})
}
