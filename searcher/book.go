package searcher

import (
	"context"

	"ggp/game"
)

// Book is a precomputed table of exact normalized utilities for one role
// over the states of a (typically small) game.
type Book struct {
	role   game.Role
	values map[string]float64
}

// Lookup returns the exact utility of the state, if known. A book only
// answers for the role it was built for.
func (b *Book) Lookup(state game.State, role game.Role) (float64, bool) {
	if role != b.role {
		return 0, false
	}
	utility, ok := b.values[state.Key()]
	return utility, ok
}

// Role returns the role whose utilities the book holds.
func (b *Book) Role() game.Role { return b.role }

// Len returns the number of states with known values.
func (b *Book) Len() int { return len(b.values) }

const (
	bookMinValue = 0.0
	bookMaxValue = 1.0
)

type bookItem struct {
	state  game.State
	search bool // false: seed (explore), true: back up children's values
	alpha  float64
	beta   float64
}

// BookBuilder computes exact state values for one role by depth-first
// minimax with alpha-beta cutoffs over the game graph: seed items explore a
// state's successors, search items carry the (alpha, beta) window and back
// up once enough successors are resolved to decide the value or cut off.
// States the random role controls average over the outcomes; states any
// other role controls minimize the role's value.
type BookBuilder struct {
	interp game.Interpreter
	role   game.Role
	stack  []bookItem
	values map[string]float64
}

func NewBookBuilder(interp game.Interpreter, role game.Role) *BookBuilder {
	return &BookBuilder{
		interp: interp,
		role:   role,
		stack:  []bookItem{{state: interp.InitState(), alpha: bookMinValue, beta: bookMaxValue}},
		values: make(map[string]float64),
	}
}

// Done reports whether the initial state's value is resolved.
func (b *BookBuilder) Done() bool {
	if len(b.stack) == 0 {
		return true
	}
	_, ok := b.values[b.interp.InitState().Key()]
	return ok
}

// Step pops and processes one work item.
func (b *BookBuilder) Step() error {
	if len(b.stack) == 0 {
		return nil
	}
	item := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if _, ok := b.values[item.state.Key()]; ok {
		return nil
	}
	if !item.search {
		return b.seed(item)
	}
	return b.search(item)
}

func (b *BookBuilder) seed(item bookItem) error {
	if b.interp.IsTerminal(item.state) {
		goals, err := b.interp.Goals(item.state)
		if err != nil {
			return err
		}
		utility, err := normalizedUtility(goals, b.role)
		if err != nil {
			return err
		}
		b.values[item.state.Key()] = utility
		return nil
	}
	transitions, err := b.interp.AllNextStates(item.state)
	if err != nil {
		return err
	}
	b.stack = append(b.stack, bookItem{state: item.state, search: true, alpha: item.alpha, beta: item.beta})
	for _, tr := range transitions {
		if _, ok := b.values[tr.State.Key()]; !ok {
			b.stack = append(b.stack, bookItem{state: tr.State, alpha: item.alpha, beta: item.beta})
		}
	}
	return nil
}

func (b *BookBuilder) search(item bookItem) error {
	transitions, err := b.interp.AllNextStates(item.state)
	if err != nil {
		return err
	}
	controllers := game.RolesInControl(item.state)
	if len(controllers) == 1 && controllers[0] == game.RoleRandom {
		return b.searchRandom(item, transitions)
	}
	maximizing := true
	for _, controller := range controllers {
		if controller != b.role {
			maximizing = false
		}
	}
	if maximizing {
		return b.searchMax(item, transitions)
	}
	return b.searchMin(item, transitions)
}

// searchRandom averages over all outcomes; a chance step has no window to
// cut on, the bounds only pass through to the children.
func (b *BookBuilder) searchRandom(item bookItem, transitions []game.Transition) error {
	sum := 0.0
	var pending []game.State
	for _, tr := range transitions {
		value, ok := b.values[tr.State.Key()]
		if !ok {
			pending = append(pending, tr.State)
			continue
		}
		sum += value
	}
	if len(pending) > 0 {
		b.requeue(item, pending)
		return nil
	}
	b.values[item.state.Key()] = sum / float64(len(transitions))
	return nil
}

func (b *BookBuilder) searchMax(item bookItem, transitions []game.Transition) error {
	value := bookMinValue
	var pending []game.State
	for _, tr := range transitions {
		next, ok := b.values[tr.State.Key()]
		if !ok {
			pending = append(pending, tr.State)
			continue
		}
		if next > value {
			value = next
		}
		if value > item.alpha {
			item.alpha = value
		}
		if value >= item.beta {
			b.values[item.state.Key()] = value
			return nil
		}
	}
	if len(pending) > 0 {
		b.requeue(item, pending)
		return nil
	}
	b.values[item.state.Key()] = value
	return nil
}

func (b *BookBuilder) searchMin(item bookItem, transitions []game.Transition) error {
	value := bookMaxValue
	var pending []game.State
	for _, tr := range transitions {
		next, ok := b.values[tr.State.Key()]
		if !ok {
			pending = append(pending, tr.State)
			continue
		}
		if next < value {
			value = next
		}
		if value < item.beta {
			item.beta = value
		}
		if value <= item.alpha {
			b.values[item.state.Key()] = value
			return nil
		}
	}
	if len(pending) > 0 {
		b.requeue(item, pending)
		return nil
	}
	b.values[item.state.Key()] = value
	return nil
}

// requeue puts the search item back under its unresolved children so the
// children resolve first, passing the narrowed window down.
func (b *BookBuilder) requeue(item bookItem, pending []game.State) {
	b.stack = append(b.stack, item)
	for _, state := range pending {
		b.stack = append(b.stack, bookItem{state: state, alpha: item.alpha, beta: item.beta})
	}
}

// Build steps until the initial state's value is resolved or the context is
// cancelled, then returns the book built so far.
func (b *BookBuilder) Build(ctx context.Context) (*Book, error) {
	for !b.Done() {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := b.Step(); err != nil {
			return nil, err
		}
	}
	return &Book{role: b.role, values: b.values}, nil
}
