package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ggp/game"
	"ggp/gameclock"
	"ggp/searcher"
)

// SOISMCTS is single-observer information-set MCTS: one tree tracking the
// agent's own belief set, with every other role's move folded into chance.
// Each iteration samples one determinized world from the belief set and
// searches that world through the tree.
type SOISMCTS struct {
	treeAgent
	tree searcher.InfoNode
}

func NewSOISMCTS(options ...Option) *SOISMCTS {
	return &SOISMCTS{treeAgent: newTreeAgent(options...)}
}

func (a *SOISMCTS) PrepareMatch(role game.Role, interp game.Interpreter, startclock, playclock gameclock.Configuration) error {
	if err := a.InterpreterAgent.PrepareMatch(role, interp, startclock, playclock); err != nil {
		return err
	}
	a.tree = newBeliefRoot(role, interp.InitState())
	return nil
}

// newBeliefRoot builds a root over the known initial state, visible or
// hidden depending on who controls it.
func newBeliefRoot(role game.Role, init game.State) searcher.InfoNode {
	if game.InControl(init, role) {
		return searcher.NewVisibleNode(role, init)
	}
	return searcher.NewHiddenNode(role, init)
}

func (a *SOISMCTS) CalculateMove(ctx context.Context, ply int, totalTime time.Duration, view game.View) (game.Move, error) {
	if err := a.requireMatch(); err != nil {
		return "", err
	}
	a.metrics.Start()
	start := time.Now()

	node, err := a.tree.Develop(a.interp, ply, view)
	if err != nil {
		return "", err
	}
	if node.Valuation() != nil {
		a.metrics.ReusedTree()
	}
	a.tree = node
	a.metrics.SetDevelopDuration(time.Since(start))

	budget := searchBudget(totalTime, a.playclock, time.Since(start))
	iterations, elapsed, err := searcher.NewRepeater(a.step).Run(ctx, budget)
	if err != nil {
		return "", err
	}
	log.Info().Msgf("agent %s searched %d iterations over %d worlds in %v at ply %d",
		a.name, iterations, a.tree.PossibleStates().Len(), elapsed, ply)

	root, ok := a.tree.(*searcher.VisibleNode)
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

// step runs one determinized iteration: sample a world from the belief set,
// descend the tree inside that world, expand and evaluate the frontier,
// backpropagate.
func (a *SOISMCTS) step() error {
	node := a.tree
	world := node.PossibleStates().Random(a.rng)

	for node.IsExpanded() && !node.IsTerminal() && !a.interp.IsTerminal(world) {
		turn, err := a.jointTurn(node, world)
		if err != nil {
			return err
		}
		next, ok := searcher.StepNode(node, world, turn)
		if !ok {
			break
		}
		world, err = a.interp.NextState(world, turn)
		if err != nil {
			return err
		}
		node = next
	}

	if err := node.Expand(a.interp); err != nil {
		return err
	}
	utility, err := node.Evaluate(a.interp, a.evaluator, world)
	if err != nil {
		return err
	}
	a.metrics.AddFullPlayout()
	for p := node.Parent(); p != nil; p = p.Parent() {
		p.Propagate(utility)
	}
	a.metrics.AddIteration()
	return nil
}

// jointTurn builds the joint turn to play in the determinized world: the
// agent's move comes from its selector, every other controlling role moves
// uniformly at random.
func (a *SOISMCTS) jointTurn(node searcher.InfoNode, world game.State) (game.Turn, error) {
	var plays []game.Play
	for _, role := range game.RolesInControl(world) {
		if role == a.role {
			continue
		}
		moves, err := a.interp.LegalMovesByRole(world, role)
		if err != nil {
			return game.Turn{}, err
		}
		if len(moves) == 0 {
			return game.Turn{}, fmt.Errorf("role %q has no legal move: %w", role, game.ErrIllegalMove)
		}
		plays = append(plays, game.Play{Role: role, Move: moves[a.rng.Intn(len(moves))]})
	}

	if game.InControl(world, a.role) {
		visible, ok := node.(*searcher.VisibleNode)
		if !ok {
			return game.Turn{}, fmt.Errorf("world gives control to %q at a hidden node: %w", a.role, game.ErrWrongRoles)
		}
		candidates := visible.MoveCandidates(world)
		if key, ok := a.selector.Select(candidates, true); ok {
			plays = append(plays, game.Play{Role: a.role, Move: game.Move(key)})
		} else {
			moves, err := a.interp.LegalMovesByRole(world, a.role)
			if err != nil {
				return game.Turn{}, err
			}
			if len(moves) == 0 {
				return game.Turn{}, fmt.Errorf("role %q has no legal move: %w", a.role, game.ErrIllegalMove)
			}
			plays = append(plays, game.Play{Role: a.role, Move: moves[a.rng.Intn(len(moves))]})
		}
	}
	return game.MakeTurn(plays...), nil
}
