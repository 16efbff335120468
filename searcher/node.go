package searcher

import (
	"fmt"
	"sort"

	"ggp/game"
)

// PerfectNode is a game-tree node holding one exact state. Children are
// keyed by the canonical form of the joint turn leading to them. The parent
// owns the subtree through children; the parent pointer is a non-owning back
// reference used for backpropagation and depth only.
type PerfectNode struct {
	parent    *PerfectNode
	turn      *game.Turn // turn leading here, nil at the root
	state     game.State
	children  map[string]*perfectEdge // nil until expanded
	valuation *Valuation

	// real-move commitment, used by Trim
	committedRole game.Role
	move          game.Move
	hasMove       bool
}

type perfectEdge struct {
	Turn  game.Turn
	Child *PerfectNode
}

func NewPerfectNode(state game.State) *PerfectNode {
	return &PerfectNode{state: state}
}

func (n *PerfectNode) State() game.State     { return n.state }
func (n *PerfectNode) Parent() *PerfectNode  { return n.parent }
func (n *PerfectNode) Valuation() *Valuation { return n.valuation }
func (n *PerfectNode) IsRoot() bool          { return n.parent == nil }
func (n *PerfectNode) IsExpanded() bool      { return n.children != nil }

// IsTerminal reports whether the node is expanded with no successors.
func (n *PerfectNode) IsTerminal() bool {
	return n.children != nil && len(n.children) == 0
}

// Turn returns the joint turn that led to this node, nil at the root.
func (n *PerfectNode) Turn() *game.Turn { return n.turn }

// Depth is the number of ancestors up to the root.
func (n *PerfectNode) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Height is the longest path down to an expanded childless descendant.
func (n *PerfectNode) Height() int {
	height := 0
	for _, edge := range n.children {
		if h := edge.Child.Height() + 1; h > height {
			height = h
		}
	}
	return height
}

// ChildKeys returns the children's turn keys in sorted order.
func (n *PerfectNode) ChildKeys() []string {
	keys := make([]string, 0, len(n.children))
	for key := range n.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Child returns the child reached by the turn with the given key.
func (n *PerfectNode) Child(key string) (*PerfectNode, bool) {
	edge, ok := n.children[key]
	if !ok {
		return nil, false
	}
	return edge.Child, true
}

// ChildTurn returns the turn behind the given child key.
func (n *PerfectNode) ChildTurn(key string) (game.Turn, bool) {
	edge, ok := n.children[key]
	if !ok {
		return game.Turn{}, false
	}
	return edge.Turn, true
}

// Candidates lists the children as selector candidates in sorted key order.
func (n *PerfectNode) Candidates() []Candidate {
	keys := n.ChildKeys()
	candidates := make([]Candidate, len(keys))
	for i, key := range keys {
		candidates[i] = Candidate{Key: key, Valuation: n.children[key].Child.valuation}
	}
	return candidates
}

// Expand populates the children with every joint-move successor. Idempotent;
// a terminal state yields an empty, non-nil children mapping.
func (n *PerfectNode) Expand(interp game.Interpreter) error {
	if n.children != nil {
		return nil
	}
	transitions, err := interp.AllNextStates(n.state)
	if err != nil {
		return err
	}
	children := make(map[string]*perfectEdge, len(transitions))
	for _, tr := range transitions {
		turn := tr.Turn
		children[turn.Key()] = &perfectEdge{
			Turn:  turn,
			Child: &PerfectNode{parent: n, turn: &turn, state: tr.State},
		}
	}
	n.children = children
	return nil
}

// Evaluate scores the node's state for the role, records the result in the
// node's own valuation and returns it for backpropagation.
func (n *PerfectNode) Evaluate(interp game.Interpreter, evaluator Evaluator, role game.Role) (float64, error) {
	utility, err := evaluator.Evaluate(interp, n.state, role)
	if err != nil {
		return 0, err
	}
	n.Propagate(utility)
	return utility, nil
}

// Propagate merges a playout utility into the node's valuation.
func (n *PerfectNode) Propagate(utility float64) {
	if n.valuation == nil {
		n.valuation = &Valuation{}
	}
	n.valuation.Propagate(utility)
}

// CommitMove records the role's real move for this ply; Trim uses it to
// discard branches the move rules out.
func (n *PerfectNode) CommitMove(role game.Role, move game.Move) {
	n.move = move
	n.hasMove = true
	n.committedRole = role
}

// Trim discards every child branch inconsistent with the committed move.
// Safe to call repeatedly; a no-op without a commitment.
func (n *PerfectNode) Trim() {
	if !n.hasMove || n.children == nil {
		return
	}
	for key, edge := range n.children {
		if move, ok := edge.Turn.MoveOf(n.committedRole); !ok || move != n.move {
			delete(n.children, key)
		}
	}
}

// Develop advances the node to the given ply and observed state. Perfect
// information means the view equals the full state. Cached subtrees are
// reused; missing path nodes are synthesized from a consistent development
// rather than by blind expansion. Sibling branches along the path are pruned
// as a side effect. Callers must use the returned node.
func (n *PerfectNode) Develop(interp game.Interpreter, ply int, view game.View) (*PerfectNode, error) {
	depth := n.Depth()
	state := game.State(view)
	if ply < depth {
		panic(fmt.Sprintf("develop to ply %d behind node depth %d", ply, depth))
	}
	if ply == depth {
		if !n.state.Equal(state) {
			return nil, fmt.Errorf("observed state differs at ply %d: %w", ply, game.ErrUnsatisfiableRecord)
		}
		return n, nil
	}

	record := game.NewRecord()
	record.States[depth] = n.state
	record.States[ply] = state
	developments, err := interp.Developments(record)
	if err != nil {
		return nil, err
	}

	cur := n
	steps := developments[0]
	for _, step := range steps[:len(steps)-1] {
		turn := *step.Turn
		key := turn.Key()
		edge, ok := cur.children[key]
		if !ok {
			next, err := interp.NextState(step.State, turn)
			if err != nil {
				return nil, err
			}
			edge = &perfectEdge{Turn: turn, Child: &PerfectNode{parent: cur, turn: &turn, state: next}}
			if cur.children == nil {
				cur.children = make(map[string]*perfectEdge)
			}
			cur.children[key] = edge
		}
		cur.children = map[string]*perfectEdge{key: edge}
		cur = edge.Child
	}
	if !cur.state.Equal(state) {
		return nil, fmt.Errorf("development diverged from observed state: %w", game.ErrUnsatisfiableRecord)
	}
	return cur, nil
}
