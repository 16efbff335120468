package game

import (
	"sort"
	"strings"
)

// Transition is one joint-move outcome: the turn and the state it leads to.
type Transition struct {
	Turn  Turn
	State State
}

// Interpreter is the contract the search core depends on. Implementations
// must be safe for concurrent read access from independent agents.
type Interpreter interface {
	// Roles returns every role of the game, sorted.
	Roles() []Role

	// InitState returns the initial state.
	InitState() State

	// NextState applies the turn to the state. The turn must cover exactly
	// the roles in control with legal moves.
	NextState(state State, turn Turn) (State, error)

	// AllNextStates enumerates every joint-move outcome of the state in a
	// deterministic order. The result is empty iff the state is terminal.
	AllNextStates(state State) ([]Transition, error)

	// LegalMoves returns the legal moves of every role in control.
	LegalMoves(state State) (map[Role][]Move, error)

	// LegalMovesByRole returns the legal moves of one role. Callers may pass
	// a view in place of a full state; games guarantee legality is derivable
	// from what the role sees.
	LegalMovesByRole(state State, role Role) ([]Move, error)

	// IsLegal reports whether the move is legal for the role.
	IsLegal(state State, role Role, move Move) (bool, error)

	// Sees returns every role's view of the state.
	Sees(state State) (map[Role]View, error)

	// SeesByRole returns one role's view of the state.
	SeesByRole(state State, role Role) (View, error)

	// Goals returns the goal values of every role that has one. Empty while
	// the state is non-terminal.
	Goals(state State) (map[Role]int, error)

	// GoalByRole returns one role's goal value, or ErrGoalUndefined.
	GoalByRole(state State, role Role) (int, error)

	// IsTerminal reports whether the state is terminal.
	IsTerminal(state State) bool

	// Developments enumerates every development consistent with the record,
	// in a deterministic order. Returns ErrUnsatisfiableRecord if there is
	// none.
	Developments(record Record) ([]Development, error)
}

// RolesInControl derives the roles in control from the control/1 facts of
// the state. It is a pure function of the state value, not a solver call.
func RolesInControl(state State) []Role {
	var roles []Role
	for _, fact := range state.Facts() {
		if strings.HasPrefix(fact, "control(") && strings.HasSuffix(fact, ")") {
			roles = append(roles, Role(fact[len("control("):len(fact)-1]))
		}
	}
	return roles
}

// InControl reports whether the role is in control of the state.
func InControl(state State, role Role) bool {
	for _, r := range RolesInControl(state) {
		if r == role {
			return true
		}
	}
	return false
}

// Ranks maps each role in goals to its rank: the number of roles with a
// strictly higher goal value. Roles sharing a goal value share a rank.
func Ranks(goals map[Role]int) map[Role]int {
	values := make([]int, 0, len(goals))
	for _, g := range goals {
		values = append(values, g)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	ranks := make(map[Role]int, len(goals))
	for role, g := range goals {
		rank := 0
		for _, v := range values {
			if v > g {
				rank++
			}
		}
		ranks[role] = rank
	}
	return ranks
}
