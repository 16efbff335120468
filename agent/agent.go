// Package agent implements the move-choosing agents: trivial baselines
// (Arbitrary, Random) and the tree searchers (MCTS, SOISMCTS,
// MultiObserver). An agent is driven through the match lifecycle by an
// engine: PrepareMatch, CalculateMove once per ply the agent's role is in
// control, then ConcludeMatch or AbortMatch.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"ggp/game"
	"ggp/gameclock"
)

var (
	// ErrNoMatch reports a lifecycle call without a match in progress.
	ErrNoMatch = errors.New("agent has no match in progress")
	// ErrMatchInProgress reports PrepareMatch on an already-prepared agent.
	ErrMatchInProgress = errors.New("agent already has a match in progress")
)

type Agent interface {
	// SetUp and TearDown bracket the agent's whole lifetime.
	SetUp(name string)
	TearDown()

	PrepareMatch(role game.Role, interp game.Interpreter, startclock, playclock gameclock.Configuration) error
	CalculateMove(ctx context.Context, ply int, totalTime time.Duration, view game.View) (game.Move, error)
	ConcludeMatch(view game.View) error
	AbortMatch() error
}

// InterpreterAgent carries the per-match fields every agent shares and
// implements the lifecycle bookkeeping.
type InterpreterAgent struct {
	name       string
	role       game.Role
	interp     game.Interpreter
	startclock gameclock.Configuration
	playclock  gameclock.Configuration
	prepared   bool
}

func (a *InterpreterAgent) SetUp(name string) { a.name = name }

func (a *InterpreterAgent) TearDown() {}

func (a *InterpreterAgent) Name() string { return a.name }

func (a *InterpreterAgent) Role() game.Role { return a.role }

func (a *InterpreterAgent) Interpreter() game.Interpreter { return a.interp }

func (a *InterpreterAgent) PrepareMatch(role game.Role, interp game.Interpreter, startclock, playclock gameclock.Configuration) error {
	if a.prepared {
		return ErrMatchInProgress
	}
	a.role = role
	a.interp = interp
	a.startclock = startclock
	a.playclock = playclock
	a.prepared = true
	return nil
}

func (a *InterpreterAgent) ConcludeMatch(view game.View) error {
	return a.endMatch()
}

func (a *InterpreterAgent) AbortMatch() error {
	return a.endMatch()
}

func (a *InterpreterAgent) endMatch() error {
	if !a.prepared {
		return ErrNoMatch
	}
	a.role = ""
	a.interp = nil
	a.prepared = false
	return nil
}

func (a *InterpreterAgent) requireMatch() error {
	if !a.prepared {
		return ErrNoMatch
	}
	return nil
}

// Arbitrary plays the first legal move. Useful as a floor baseline and for
// smoke tests.
type Arbitrary struct {
	InterpreterAgent
}

func NewArbitrary() *Arbitrary {
	return &Arbitrary{}
}

func (a *Arbitrary) CalculateMove(ctx context.Context, ply int, totalTime time.Duration, view game.View) (game.Move, error) {
	if err := a.requireMatch(); err != nil {
		return "", err
	}
	moves, err := a.interp.LegalMovesByRole(game.State(view), a.role)
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", fmt.Errorf("no legal move for role %q at ply %d: %w", a.role, ply, game.ErrIllegalMove)
	}
	return moves[0], nil
}

// Random plays a uniformly random legal move.
type Random struct {
	InterpreterAgent
	rng *rand.Rand
}

func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(rand.Uint64()))}
}

// NewSeededRandom fixes the agent's move sampling for reproducible matches.
func NewSeededRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (a *Random) CalculateMove(ctx context.Context, ply int, totalTime time.Duration, view game.View) (game.Move, error) {
	if err := a.requireMatch(); err != nil {
		return "", err
	}
	moves, err := a.interp.LegalMovesByRole(game.State(view), a.role)
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", fmt.Errorf("no legal move for role %q at ply %d: %w", a.role, ply, game.ErrIllegalMove)
	}
	return moves[a.rng.Intn(len(moves))], nil
}
