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

// MCTS is the perfect-information Monte Carlo tree searcher: one tree of
// exact states, UCT selection, random playouts. Utilities are stored from
// the agent's own perspective; the selector inverts them at plies an
// opponent controls.
type MCTS struct {
	treeAgent
	tree *searcher.PerfectNode
}

func NewMCTS(options ...Option) *MCTS {
	return &MCTS{treeAgent: newTreeAgent(options...)}
}

func (a *MCTS) PrepareMatch(role game.Role, interp game.Interpreter, startclock, playclock gameclock.Configuration) error {
	if err := a.InterpreterAgent.PrepareMatch(role, interp, startclock, playclock); err != nil {
		return err
	}
	a.tree = searcher.NewPerfectNode(interp.InitState())
	return nil
}

func (a *MCTS) CalculateMove(ctx context.Context, ply int, totalTime time.Duration, view game.View) (game.Move, error) {
	if err := a.requireMatch(); err != nil {
		return "", err
	}
	a.metrics.Start()
	start := time.Now()

	node, err := a.tree.Develop(a.interp, ply, view)
	if err != nil {
		return "", err
	}
	if node == a.tree || node.Valuation() != nil {
		a.metrics.ReusedTree()
	}
	a.tree = node
	a.metrics.SetDevelopDuration(time.Since(start))

	budget := searchBudget(totalTime, a.playclock, time.Since(start))
	iterations, elapsed, err := searcher.NewRepeater(a.step).Run(ctx, budget)
	if err != nil {
		return "", err
	}
	log.Info().Msgf("agent %s searched %d iterations in %v at ply %d", a.name, iterations, elapsed, ply)

	key, ok := a.chooser.Select(a.tree.Candidates(), true)
	if !ok {
		return "", fmt.Errorf("no move to choose at ply %d: %w", ply, game.ErrIllegalMove)
	}
	turn, _ := a.tree.ChildTurn(key)
	move, ok := turn.MoveOf(a.role)
	if !ok {
		return "", fmt.Errorf("chosen turn %q has no move for role %q: %w", key, a.role, game.ErrIllegalMove)
	}
	legal, err := a.interp.IsLegal(game.State(view), a.role, move)
	if err != nil {
		return "", err
	}
	if !legal {
		return "", fmt.Errorf("chosen move %q for role %q: %w", move, a.role, game.ErrIllegalMove)
	}
	a.tree.CommitMove(a.role, move)
	a.tree.Trim()
	return move, nil
}

// step runs one select-expand-evaluate-backpropagate iteration.
func (a *MCTS) step() error {
	node := a.tree
	for node.IsExpanded() && !node.IsTerminal() {
		key, ok := a.selector.Select(node.Candidates(), game.InControl(node.State(), a.role))
		if !ok {
			break
		}
		child, ok := node.Child(key)
		if !ok {
			break
		}
		node = child
	}

	if err := node.Expand(a.interp); err != nil {
		return err
	}
	utility, err := node.Evaluate(a.interp, a.evaluator, a.role)
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
