package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ggp/game"
	"ggp/gameclock"
	"ggp/searcher"
)

// MultiObserver is multi-observer information-set MCTS: it co-evolves one
// belief tree per role and keeps the determinization shared across all of
// them within each iteration. The world is sampled from the agent's own
// belief set; every other role's tree is re-aligned onto the branch
// compatible with that world before the trees descend in lockstep. Keeping
// the trees on the same sampled world is what makes the opponent statistics
// coherent instead of each tree searching a private fiction.
type MultiObserver struct {
	treeAgent
	current map[game.Role]searcher.InfoNode
	ply     int
}

func NewMultiObserver(options ...Option) *MultiObserver {
	return &MultiObserver{treeAgent: newTreeAgent(options...)}
}

func (a *MultiObserver) PrepareMatch(role game.Role, interp game.Interpreter, startclock, playclock gameclock.Configuration) error {
	if err := a.InterpreterAgent.PrepareMatch(role, interp, startclock, playclock); err != nil {
		return err
	}
	init := interp.InitState()
	a.current = make(map[game.Role]searcher.InfoNode)
	for _, r := range interp.Roles() {
		if r == game.RoleRandom {
			continue
		}
		a.current[r] = newBeliefRoot(r, init)
	}
	a.ply = 0
	return nil
}

func (a *MultiObserver) CalculateMove(ctx context.Context, ply int, totalTime time.Duration, view game.View) (game.Move, error) {
	if err := a.requireMatch(); err != nil {
		return "", err
	}
	a.metrics.Start()
	start := time.Now()

	own, err := a.current[a.role].Develop(a.interp, ply, view)
	if err != nil {
		return "", err
	}
	if own.Valuation() != nil {
		a.metrics.ReusedTree()
	}
	a.current[a.role] = own
	a.ply = ply
	a.metrics.SetDevelopDuration(time.Since(start))

	budget := searchBudget(totalTime, a.playclock, time.Since(start))
	iterations, elapsed, err := searcher.NewRepeater(a.step).Run(ctx, budget)
	if err != nil {
		return "", err
	}
	log.Info().Msgf("agent %s searched %d iterations over %d worlds in %v at ply %d",
		a.name, iterations, own.PossibleStates().Len(), elapsed, ply)

	root, ok := own.(*searcher.VisibleNode)
	if !ok {
		return "", fmt.Errorf("asked to move while not in control at ply %d: %w", ply, game.ErrWrongRoles)
	}
	key, ok := a.chooser.Select(root.AggregateMoveCandidates(), true)
	if !ok {
		return "", fmt.Errorf("no move to choose at ply %d: %w", ply, game.ErrIllegalMove)
	}
	move := game.Move(key)
	legal, err := a.interp.IsLegal(game.State(view), a.role, move)
	if err != nil {
		return "", err
	}
	if !legal {
		return "", fmt.Errorf("chosen move %q for role %q: %w", move, a.role, game.ErrIllegalMove)
	}
	root.CommitMove(move)
	root.Trim()
	return move, nil
}

// step runs one shared-determinization iteration: sample a world from the
// agent's own beliefs, align every tree onto it, descend all trees in
// lockstep inside that world, then expand, evaluate and backpropagate each
// tree's frontier node.
func (a *MultiObserver) step() error {
	world := a.current[a.role].PossibleStates().Random(a.rng)

	nodes := make(map[game.Role]searcher.InfoNode, len(a.current))
	for role, node := range a.current {
		aligned, err := searcher.Align(a.interp, node, a.ply, world)
		if errors.Is(err, game.ErrUnsatisfiableRecord) {
			// This tree's evidence contradicts the sampled world; its
			// statistics sit this iteration out.
			continue
		}
		if err != nil {
			return err
		}
		a.current[role] = aligned
		nodes[role] = aligned
	}

	for !a.interp.IsTerminal(world) && allExpanded(nodes) {
		turn, err := a.jointTurn(nodes, world)
		if err != nil {
			return err
		}
		next := make(map[game.Role]searcher.InfoNode, len(nodes))
		stuck := false
		for role, node := range nodes {
			if node.IsTerminal() {
				stuck = true
				break
			}
			child, ok := searcher.StepNode(node, world, turn)
			if !ok {
				stuck = true
				break
			}
			next[role] = child
		}
		if stuck {
			break
		}
		world, err = a.interp.NextState(world, turn)
		if err != nil {
			return err
		}
		nodes = next
	}

	for _, node := range nodes {
		if err := node.Expand(a.interp); err != nil {
			return err
		}
		utility, err := node.Evaluate(a.interp, a.evaluator, world)
		if err != nil {
			return err
		}
		for p := node.Parent(); p != nil; p = p.Parent() {
			p.Propagate(utility)
		}
	}
	a.metrics.AddFullPlayout()
	a.metrics.AddIteration()
	return nil
}

func allExpanded(nodes map[game.Role]searcher.InfoNode) bool {
	for _, node := range nodes {
		if !node.IsExpanded() {
			return false
		}
	}
	return true
}

// jointTurn builds the joint turn for the determinized world: each
// controlling role with a tree picks through its own selector at its own
// visible node; roles without a tree (chance) move uniformly at random.
func (a *MultiObserver) jointTurn(nodes map[game.Role]searcher.InfoNode, world game.State) (game.Turn, error) {
	var plays []game.Play
	for _, role := range game.RolesInControl(world) {
		move, err := a.moveFor(nodes, role, world)
		if err != nil {
			return game.Turn{}, err
		}
		plays = append(plays, game.Play{Role: role, Move: move})
	}
	return game.MakeTurn(plays...), nil
}

func (a *MultiObserver) moveFor(nodes map[game.Role]searcher.InfoNode, role game.Role, world game.State) (game.Move, error) {
	if visible, ok := nodes[role].(*searcher.VisibleNode); ok {
		if key, ok := a.selector.Select(visible.MoveCandidates(world), true); ok {
			return game.Move(key), nil
		}
	}
	moves, err := a.interp.LegalMovesByRole(world, role)
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", fmt.Errorf("role %q has no legal move: %w", role, game.ErrIllegalMove)
	}
	return moves[a.rng.Intn(len(moves))], nil
}
