// Package engine drives local matches: it holds the interpreter, walks the
// agents through the match lifecycle under their clocks, applies the joint
// turns and records the playthrough.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"ggp/agent"
	"ggp/game"
	"ggp/gameclock"
)

// MatchRecord is the full trace of one match: the state, the views sent and
// the turn applied at every ply, plus the final goals.
type MatchRecord struct {
	ID     string
	States []game.State
	Views  []map[game.Role]game.View
	Turns  []game.Turn
	Goals  map[game.Role]int
}

// Plies returns the number of turns played.
func (r *MatchRecord) Plies() int { return len(r.Turns) }

// Option configures a match.
type Option func(m *Match)

// WithStartclock sets the preparation budget.
func WithStartclock(config gameclock.Configuration) Option {
	return func(m *Match) { m.startclock = config }
}

// WithPlayclock sets the per-role move clock.
func WithPlayclock(config gameclock.Configuration) Option {
	return func(m *Match) { m.playclock = config }
}

// WithMatchSeed fixes the engine's chance moves for reproducible matches.
func WithMatchSeed(seed uint64) Option {
	return func(m *Match) { m.rng = rand.New(rand.NewSource(seed)) }
}

// Match runs one game between the given agents. The engine itself plays the
// random role (uniformly) unless an agent is registered for it.
type Match struct {
	id         string
	interp     game.Interpreter
	agents     map[game.Role]agent.Agent
	startclock gameclock.Configuration
	playclock  gameclock.Configuration
	rng        *rand.Rand
}

func NewMatch(interp game.Interpreter, agents map[game.Role]agent.Agent, options ...Option) (*Match, error) {
	m := &Match{
		id:         uuid.NewString(),
		interp:     interp,
		agents:     agents,
		startclock: gameclock.DefaultStartclock(),
		playclock:  gameclock.DefaultPlayclock(),
		rng:        rand.New(rand.NewSource(rand.Uint64())),
	}
	for _, option := range options {
		option(m)
	}
	for _, role := range interp.Roles() {
		if _, ok := agents[role]; !ok && role != game.RoleRandom {
			return nil, fmt.Errorf("role %q: %w", role, agent.ErrNoMatch)
		}
	}
	return m, nil
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Run plays the match to the end and returns its record. Agent errors and
// clock overruns abort the match for everyone.
func (m *Match) Run(ctx context.Context) (*MatchRecord, error) {
	log.Info().Msgf("match %s starting with %d agents", m.id, len(m.agents))
	record := &MatchRecord{ID: m.id}

	if err := m.prepare(ctx); err != nil {
		m.abort()
		return record, err
	}
	clocks := make(map[game.Role]*gameclock.GameClock, len(m.agents))
	for role := range m.agents {
		clocks[role] = gameclock.NewGameClock(m.playclock)
	}

	state := m.interp.InitState()
	for ply := 0; !m.interp.IsTerminal(state); ply++ {
		views, err := m.interp.Sees(state)
		if err != nil {
			m.abort()
			return record, err
		}
		record.States = append(record.States, state)
		record.Views = append(record.Views, views)

		turn, err := m.collectTurn(ctx, ply, state, views, clocks)
		if err != nil {
			m.abort()
			return record, err
		}
		next, err := m.interp.NextState(state, turn)
		if err != nil {
			m.abort()
			return record, fmt.Errorf("ply %d turn %q: %w", ply, turn.Key(), err)
		}
		record.Turns = append(record.Turns, turn)
		state = next
	}
	record.States = append(record.States, state)

	goals, err := m.interp.Goals(state)
	if err != nil {
		m.abort()
		return record, err
	}
	record.Goals = goals
	if err := m.conclude(state); err != nil {
		return record, err
	}
	log.Info().Msgf("match %s finished after %d plies with goals %v", m.id, record.Plies(), goals)
	return record, nil
}

// prepare runs every agent's match preparation concurrently under the
// startclock.
func (m *Match) prepare(ctx context.Context) error {
	if !m.startclock.IsInfinite() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.startclock.TotalTime+m.startclock.Delay)
		defer cancel()
	}
	g, _ := errgroup.WithContext(ctx)
	for role, ag := range m.agents {
		role, ag := role, ag
		g.Go(func() error {
			ag.SetUp(fmt.Sprintf("%s/%s", m.id, role))
			if err := ag.PrepareMatch(role, m.interp, m.startclock, m.playclock); err != nil {
				return fmt.Errorf("prepare %q: %w", role, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// collectTurn gathers each controlling role's move, concurrently for roles
// with agents, and samples for the engine-played random role.
func (m *Match) collectTurn(ctx context.Context, ply int, state game.State, views map[game.Role]game.View, clocks map[game.Role]*gameclock.GameClock) (game.Turn, error) {
	var mu sync.Mutex
	var plays []game.Play
	g, ctx := errgroup.WithContext(ctx)

	for _, role := range game.RolesInControl(state) {
		ag, ok := m.agents[role]
		if !ok {
			moves, err := m.interp.LegalMovesByRole(state, role)
			if err != nil {
				return game.Turn{}, err
			}
			if len(moves) == 0 {
				return game.Turn{}, fmt.Errorf("role %q has no legal move: %w", role, game.ErrIllegalMove)
			}
			plays = append(plays, game.Play{Role: role, Move: moves[m.rng.Intn(len(moves))]})
			continue
		}

		role := role
		clock := clocks[role]
		view := views[role]
		g.Go(func() error {
			var move game.Move
			var err error
			elapsed := clock.Measure(func() {
				move, err = ag.CalculateMove(ctx, ply, clock.Remaining(), view)
			})
			if err != nil {
				return fmt.Errorf("role %q at ply %d: %w", role, ply, err)
			}
			if clock.Expired() {
				return fmt.Errorf("role %q did not respond within its clock (%v used at ply %d)", role, elapsed, ply)
			}
			mu.Lock()
			plays = append(plays, game.Play{Role: role, Move: move})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return game.Turn{}, err
	}
	return game.MakeTurn(plays...), nil
}

// conclude sends every agent its final view.
func (m *Match) conclude(terminal game.State) error {
	views, err := m.interp.Sees(terminal)
	if err != nil {
		return err
	}
	g := new(errgroup.Group)
	for role, ag := range m.agents {
		role, ag := role, ag
		g.Go(func() error {
			defer ag.TearDown()
			if err := ag.ConcludeMatch(views[role]); err != nil {
				return fmt.Errorf("conclude %q: %w", role, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (m *Match) abort() {
	for role, ag := range m.agents {
		if err := ag.AbortMatch(); err != nil {
			log.Warn().Msgf("match %s: abort for role %q: %v", m.id, role, err)
		}
		ag.TearDown()
	}
}
