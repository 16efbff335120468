package game

import (
	"fmt"
	"sort"
)

// Rules is a scripted game definition: the native counterpart of a compiled
// rules description. Apply assumes the turn has already been validated.
// A nil Sees means perfect information (every role sees the full state).
// A nil InControl derives control from control/1 facts.
type Rules struct {
	Name      string
	Roles     []Role
	Init      func() State
	Legal     func(state State, role Role) []Move
	Apply     func(state State, turn Turn) State
	Sees      func(state State, role Role) View
	Terminal  func(state State) bool
	Goals     func(state State) map[Role]int
	InControl func(state State) []Role
}

// RulesInterpreter implements the Interpreter contract over scripted rules.
type RulesInterpreter struct {
	rules *Rules
	roles []Role
}

// NewRulesInterpreter builds an interpreter for the given rules.
func NewRulesInterpreter(rules *Rules) *RulesInterpreter {
	roles := make([]Role, len(rules.Roles))
	copy(roles, rules.Roles)
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return &RulesInterpreter{rules: rules, roles: roles}
}

// Rules returns the scripted rules backing the interpreter.
func (it *RulesInterpreter) Rules() *Rules {
	return it.rules
}

func (it *RulesInterpreter) Roles() []Role {
	out := make([]Role, len(it.roles))
	copy(out, it.roles)
	return out
}

func (it *RulesInterpreter) InitState() State {
	return it.rules.Init()
}

func (it *RulesInterpreter) rolesInControl(state State) []Role {
	if it.rules.InControl != nil {
		return it.rules.InControl(state)
	}
	return RolesInControl(state)
}

func (it *RulesInterpreter) hasRole(role Role) bool {
	for _, r := range it.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (it *RulesInterpreter) NextState(state State, turn Turn) (State, error) {
	inControl := it.rolesInControl(state)
	if turn.Len() != len(inControl) {
		return State{}, fmt.Errorf("turn %q covers %d roles, %d in control: %w",
			turn.Key(), turn.Len(), len(inControl), ErrWrongRoles)
	}
	for _, role := range inControl {
		move, ok := turn.MoveOf(role)
		if !ok {
			return State{}, fmt.Errorf("turn %q misses role %q: %w", turn.Key(), role, ErrWrongRoles)
		}
		legal, err := it.IsLegal(state, role, move)
		if err != nil {
			return State{}, err
		}
		if !legal {
			return State{}, fmt.Errorf("move %q for role %q: %w", move, role, ErrIllegalMove)
		}
	}
	return it.rules.Apply(state, turn), nil
}

func (it *RulesInterpreter) AllNextStates(state State) ([]Transition, error) {
	if it.rules.Terminal(state) {
		return nil, nil
	}
	inControl := it.rolesInControl(state)
	sort.Slice(inControl, func(i, j int) bool { return inControl[i] < inControl[j] })
	options := make([][]Move, len(inControl))
	for i, role := range inControl {
		moves := it.rules.Legal(state, role)
		sorted := make([]Move, len(moves))
		copy(sorted, moves)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
		options[i] = sorted
	}
	var out []Transition
	plays := make([]Play, len(inControl))
	var walk func(i int)
	walk = func(i int) {
		if i == len(inControl) {
			turn := MakeTurn(plays...)
			out = append(out, Transition{Turn: turn, State: it.rules.Apply(state, turn)})
			return
		}
		for _, move := range options[i] {
			plays[i] = Play{Role: inControl[i], Move: move}
			walk(i + 1)
		}
	}
	walk(0)
	return out, nil
}

func (it *RulesInterpreter) LegalMoves(state State) (map[Role][]Move, error) {
	out := make(map[Role][]Move)
	for _, role := range it.rolesInControl(state) {
		moves, err := it.LegalMovesByRole(state, role)
		if err != nil {
			return nil, err
		}
		out[role] = moves
	}
	return out, nil
}

func (it *RulesInterpreter) LegalMovesByRole(state State, role Role) ([]Move, error) {
	if !it.hasRole(role) {
		return nil, fmt.Errorf("role %q: %w", role, ErrUnknownRole)
	}
	moves := it.rules.Legal(state, role)
	sorted := make([]Move, len(moves))
	copy(sorted, moves)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
	return sorted, nil
}

func (it *RulesInterpreter) IsLegal(state State, role Role, move Move) (bool, error) {
	moves, err := it.LegalMovesByRole(state, role)
	if err != nil {
		return false, err
	}
	for _, m := range moves {
		if m == move {
			return true, nil
		}
	}
	return false, nil
}

func (it *RulesInterpreter) Sees(state State) (map[Role]View, error) {
	out := make(map[Role]View, len(it.roles))
	for _, role := range it.roles {
		view, err := it.SeesByRole(state, role)
		if err != nil {
			return nil, err
		}
		out[role] = view
	}
	return out, nil
}

func (it *RulesInterpreter) SeesByRole(state State, role Role) (View, error) {
	if !it.hasRole(role) {
		return State{}, fmt.Errorf("role %q: %w", role, ErrUnknownRole)
	}
	if it.rules.Sees == nil {
		return state, nil
	}
	return it.rules.Sees(state, role), nil
}

func (it *RulesInterpreter) Goals(state State) (map[Role]int, error) {
	if !it.rules.Terminal(state) {
		return nil, fmt.Errorf("non-terminal state: %w", ErrGoalUndefined)
	}
	return it.rules.Goals(state), nil
}

func (it *RulesInterpreter) GoalByRole(state State, role Role) (int, error) {
	if !it.hasRole(role) {
		return 0, fmt.Errorf("role %q: %w", role, ErrUnknownRole)
	}
	goals, err := it.Goals(state)
	if err != nil {
		return 0, err
	}
	goal, ok := goals[role]
	if !ok {
		return 0, fmt.Errorf("role %q: %w", role, ErrGoalUndefined)
	}
	return goal, nil
}

func (it *RulesInterpreter) IsTerminal(state State) bool {
	return it.rules.Terminal(state)
}

// Developments enumerates every playthrough from the record's offset to its
// horizon consistent with all pinned states, views, turns and moves, by
// forward search over AllNextStates.
func (it *RulesInterpreter) Developments(record Record) ([]Development, error) {
	offset := record.Offset()
	horizon := record.Horizon()

	var starts []State
	if pinned, ok := record.States[offset]; ok {
		starts = []State{pinned}
	} else if offset == 0 {
		starts = []State{it.InitState()}
	} else {
		return nil, fmt.Errorf("record offset %d has no pinned state: %w", offset, ErrUnsatisfiableRecord)
	}

	var out []Development
	var walk func(ply int, state State, prefix Development) error
	walk = func(ply int, state State, prefix Development) error {
		ok, err := it.stateConsistent(record, ply, state)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if ply == horizon {
			development := make(Development, len(prefix), len(prefix)+1)
			copy(development, prefix)
			out = append(out, append(development, DevelopmentStep{State: state}))
			return nil
		}
		if it.rules.Terminal(state) {
			return nil
		}
		transitions, err := it.AllNextStates(state)
		if err != nil {
			return err
		}
		for _, tr := range transitions {
			if !turnConsistent(record, ply, tr.Turn) {
				continue
			}
			turn := tr.Turn
			if err := walk(ply+1, tr.State, append(prefix, DevelopmentStep{State: state, Turn: &turn})); err != nil {
				return err
			}
		}
		return nil
	}

	for _, start := range starts {
		if err := walk(offset, start, nil); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, ErrUnsatisfiableRecord
	}
	return out, nil
}

func (it *RulesInterpreter) stateConsistent(record Record, ply int, state State) (bool, error) {
	if pinned, ok := record.States[ply]; ok && !pinned.Equal(state) {
		return false, nil
	}
	for role, view := range record.Views[ply] {
		seen, err := it.SeesByRole(state, role)
		if err != nil {
			return false, err
		}
		if !seen.Equal(view) {
			return false, nil
		}
	}
	return true, nil
}

func turnConsistent(record Record, ply int, turn Turn) bool {
	if pinned, ok := record.Turns[ply]; ok && !pinned.Equal(turn) {
		return false
	}
	for role, move := range record.Moves[ply] {
		got, ok := turn.MoveOf(role)
		if !ok || got != move {
			return false
		}
	}
	return true
}
