package searcher

import (
	"fmt"

	"golang.org/x/exp/rand"

	"ggp/game"
)

// Evaluator estimates a normalized utility in [0, 1] for a role at a state:
// 0 is the worst outcome for the role, 1 the best.
type Evaluator interface {
	Evaluate(interp game.Interpreter, state game.State, role game.Role) (float64, error)
}

// FinalGoal evaluates a terminal state by ranking the roles' goal values.
type FinalGoal struct{}

func (FinalGoal) Evaluate(interp game.Interpreter, state game.State, role game.Role) (float64, error) {
	goals, err := interp.Goals(state)
	if err != nil {
		return 0, err
	}
	return normalizedUtility(goals, role)
}

// normalizedUtility maps a role's rank among the final goal values into
// [0, 1]: a unique first rank scores 1, a unique last rank 0, and roles
// sharing a rank split the rank's range evenly.
func normalizedUtility(goals map[game.Role]int, role game.Role) (float64, error) {
	goal, ok := goals[role]
	if !ok {
		return 0, fmt.Errorf("role %q: %w", role, game.ErrGoalUndefined)
	}
	places := len(goals)
	if places == 1 {
		return 0.5, nil
	}
	rank := game.Ranks(goals)[role]
	rankCount := 0
	for _, g := range goals {
		if g == goal {
			rankCount++
		}
	}
	utility := float64(places-rank-1) / (float64(rankCount) * float64(places-1))
	if utility < 0 {
		utility = 0
	}
	if utility > 1 {
		utility = 1
	}
	return utility, nil
}

// PlayoutOption configures a LightPlayout.
type PlayoutOption func(p *LightPlayout)

// WithMaxPlayoutDepth bounds how many plies a single rollout may run before
// it is reported as an error instead of looping forever on a malformed game.
func WithMaxPlayoutDepth(depth int) PlayoutOption {
	return func(p *LightPlayout) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithPlayoutSeed seeds the rollout policy for reproducible searches.
func WithPlayoutSeed(seed uint64) PlayoutOption {
	return func(p *LightPlayout) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

// WithBook short-circuits rollouts at states whose exact value is already
// known from a precomputed opening book.
func WithBook(book *Book) PlayoutOption {
	return func(p *LightPlayout) {
		p.book = book
	}
}

const defaultMaxPlayoutDepth = 1 << 12

// LightPlayout is the rollout evaluator: it plays uniformly random legal
// joint moves until a terminal state, then scores it with FinalGoal. Not
// safe for concurrent use; each agent owns its own instance.
type LightPlayout struct {
	final    Evaluator
	maxDepth int
	rng      *rand.Rand
	book     *Book
}

func NewLightPlayout(options ...PlayoutOption) *LightPlayout {
	p := &LightPlayout{
		final:    FinalGoal{},
		maxDepth: defaultMaxPlayoutDepth,
		rng:      rand.New(rand.NewSource(rand.Uint64())),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *LightPlayout) Evaluate(interp game.Interpreter, state game.State, role game.Role) (float64, error) {
	for depth := 0; depth < p.maxDepth; depth++ {
		if p.book != nil {
			if utility, ok := p.book.Lookup(state, role); ok {
				return utility, nil
			}
		}
		if interp.IsTerminal(state) {
			return p.final.Evaluate(interp, state, role)
		}
		turn, err := RandomTurn(interp, state, p.rng)
		if err != nil {
			return 0, err
		}
		state, err = interp.NextState(state, turn)
		if err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("playout exceeded %d plies without reaching a terminal state", p.maxDepth)
}

// RandomTurn samples a uniformly random legal move for every role in
// control of the state.
func RandomTurn(interp game.Interpreter, state game.State, rng *rand.Rand) (game.Turn, error) {
	var plays []game.Play
	for _, role := range game.RolesInControl(state) {
		moves, err := interp.LegalMovesByRole(state, role)
		if err != nil {
			return game.Turn{}, err
		}
		if len(moves) == 0 {
			return game.Turn{}, fmt.Errorf("role %q has no legal move: %w", role, game.ErrIllegalMove)
		}
		plays = append(plays, game.Play{Role: role, Move: moves[rng.Intn(len(moves))]})
	}
	return game.MakeTurn(plays...), nil
}
