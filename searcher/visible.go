package searcher

import (
	"sort"

	"ggp/game"
)

type visibleKey struct {
	State string
	Move  string
}

type visibleEdge struct {
	State game.State
	Move  game.Move
	Child InfoNode
}

// viewKey buckets kept-control successors. The move is part of the key: the
// role always knows its own move, so worlds reached by different moves stay
// distinguishable even when they project to the same view.
type viewKey struct {
	Move string
	View string
}

// VisibleNode is an information-set node where the role is in control: it
// received an exact view of the current ply, and every world in the belief
// set projects to that view. Children are keyed by (origin world, own move);
// successors where the role keeps control are bucketed per (own move, next
// view), while successors where control passes are merged per own move into
// one hidden child, since the role will not see which world the others
// acted in.
type VisibleNode struct {
	infoNode
	view     game.View
	hasView  bool
	expanded bool

	edges        map[visibleKey]*visibleEdge
	viewChildren map[viewKey]*VisibleNode
	moveChildren map[string]*HiddenNode
}

// NewVisibleNode builds a root-level visible node over the given worlds,
// which are taken to be the complete belief set.
func NewVisibleNode(role game.Role, states ...game.State) *VisibleNode {
	return &VisibleNode{infoNode: newInfoNode(role, nil, game.NewStateSet(states...), true)}
}

// View returns the exact observation received at this node.
func (n *VisibleNode) View() (game.View, bool) { return n.view, n.hasView }

// SetView records the observation received at this node.
func (n *VisibleNode) SetView(view game.View) {
	n.view = view
	n.hasView = true
}

func (n *VisibleNode) IsExpanded() bool { return n.expanded }

func (n *VisibleNode) IsTerminal() bool { return n.expanded && len(n.edges) == 0 }

// Arity returns the number of distinct children.
func (n *VisibleNode) Arity() int { return len(n.viewChildren) + len(n.moveChildren) }

// DescendantCount returns the number of distinct nodes below this one.
func (n *VisibleNode) DescendantCount() int {
	count := 0
	for _, child := range n.viewChildren {
		count += 1 + child.DescendantCount()
	}
	for _, child := range n.moveChildren {
		count += 1 + child.DescendantCount()
	}
	return count
}

// Edge returns the successor reached from the origin world by the own move.
func (n *VisibleNode) Edge(state game.State, move game.Move) (InfoNode, bool) {
	edge, ok := n.edges[visibleKey{State: state.Key(), Move: string(move)}]
	if !ok {
		return nil, false
	}
	return edge.Child, true
}

// EdgeKeys returns the (state, move) edge keys in sorted order.
func (n *VisibleNode) EdgeKeys() []visibleKey {
	keys := make([]visibleKey, 0, len(n.edges))
	for key := range n.edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].State != keys[j].State {
			return keys[i].State < keys[j].State
		}
		return keys[i].Move < keys[j].Move
	})
	return keys
}

// MoveCandidates lists the own moves available in the determinized world as
// selector candidates, in sorted move order.
func (n *VisibleNode) MoveCandidates(world game.State) []Candidate {
	stateKey := world.Key()
	var candidates []Candidate
	for _, key := range n.EdgeKeys() {
		if key.State != stateKey {
			continue
		}
		candidates = append(candidates, Candidate{
			Key:       key.Move,
			Valuation: n.edges[key].Child.Valuation(),
		})
	}
	return candidates
}

// AggregateMoveCandidates lists the own moves as selector candidates with
// statistics summed across every world's branch for that move, in sorted
// move order. Used to pick the real move across the whole belief set.
func (n *VisibleNode) AggregateMoveCandidates() []Candidate {
	byMove := make(map[string]*Valuation)
	counted := make(map[string]map[InfoNode]bool)
	var order []string
	for _, key := range n.EdgeKeys() {
		child := n.edges[visibleKey{State: key.State, Move: key.Move}].Child
		if byMove[key.Move] == nil {
			byMove[key.Move] = &Valuation{}
			counted[key.Move] = make(map[InfoNode]bool)
			order = append(order, key.Move)
		}
		// shared children alias under several edges; count each child once
		if counted[key.Move][child] {
			continue
		}
		counted[key.Move][child] = true
		if v := child.Valuation(); v != nil {
			byMove[key.Move].Utility += v.Utility
			byMove[key.Move].Playouts += v.Playouts
		}
	}
	sort.Strings(order)
	candidates := make([]Candidate, len(order))
	for i, move := range order {
		valuation := byMove[move]
		if valuation.Playouts == 0 {
			valuation = nil
		}
		candidates[i] = Candidate{Key: move, Valuation: valuation}
	}
	return candidates
}

// Expand enumerates the role's own moves across every possible world and
// buckets the successors. Idempotent; a node whose every world is terminal
// ends up with no edges.
func (n *VisibleNode) Expand(interp game.Interpreter) error {
	if n.expanded {
		return nil
	}
	type bucketRef struct {
		visible bool
		view    viewKey
		move    string
	}
	viewStates := make(map[viewKey][]game.State)
	viewOf := make(map[viewKey]game.View)
	moveStates := make(map[string][]game.State)
	edges := make(map[visibleKey]*visibleEdge)
	refs := make(map[visibleKey]bucketRef)

	for _, s := range n.possible.States() {
		transitions, err := interp.AllNextStates(s)
		if err != nil {
			return err
		}
		for _, tr := range transitions {
			move, ok := tr.Turn.MoveOf(n.role)
			if !ok {
				panic("visible node over a world the role is not in control of")
			}
			key := visibleKey{State: s.Key(), Move: string(move)}
			edges[key] = &visibleEdge{State: s, Move: move}
			if game.InControl(tr.State, n.role) {
				seen, err := interp.SeesByRole(tr.State, n.role)
				if err != nil {
					return err
				}
				vk := viewKey{Move: string(move), View: seen.Key()}
				viewStates[vk] = append(viewStates[vk], tr.State)
				viewOf[vk] = seen
				refs[key] = bucketRef{visible: true, view: vk}
			} else {
				moveStates[string(move)] = append(moveStates[string(move)], tr.State)
				refs[key] = bucketRef{move: string(move)}
			}
		}
	}

	n.viewChildren = make(map[viewKey]*VisibleNode, len(viewStates))
	for vk, states := range viewStates {
		child := &VisibleNode{infoNode: newInfoNode(n.role, n, game.NewStateSet(states...), n.fullyEnumerated)}
		child.SetView(viewOf[vk])
		n.viewChildren[vk] = child
	}
	n.moveChildren = make(map[string]*HiddenNode, len(moveStates))
	for moveKey, states := range moveStates {
		n.moveChildren[moveKey] = &HiddenNode{
			infoNode: newInfoNode(n.role, n, game.NewStateSet(states...), n.fullyEnumerated),
		}
	}
	for key, edge := range edges {
		ref := refs[key]
		if ref.visible {
			edge.Child = n.viewChildren[ref.view]
		} else {
			edge.Child = n.moveChildren[ref.move]
		}
	}
	n.edges = edges
	n.expanded = true
	return nil
}

// Trim drops edges whose origin world has been ruled out and, once the real
// move has been committed, every edge for a different move.
func (n *VisibleNode) Trim() {
	if !n.expanded {
		return
	}
	for key, edge := range n.edges {
		if !n.possible.Has(edge.State) {
			delete(n.edges, key)
			continue
		}
		if n.hasMove && string(n.move) != key.Move {
			delete(n.edges, key)
		}
	}
}

func (n *VisibleNode) recordEvidence(record game.Record, depth int) {
	n.infoNode.recordEvidence(record, depth)
	if n.hasView {
		record.PinView(depth, n.role, n.view)
	}
}

// childForMove returns the successor for the committed move, bucketed by the
// next view when the role keeps control, creating the child when expansion
// (or later trimming) left none.
func (n *VisibleNode) childForMove(move game.Move, states *game.StateSet, visible bool, view *game.View) InfoNode {
	if visible {
		vk := viewKey{Move: string(move)}
		if view != nil {
			vk.View = view.Key()
		}
		child, ok := n.viewChildren[vk]
		if !ok {
			child = &VisibleNode{infoNode: newInfoNode(n.role, n, states.Clone(), true)}
			if view != nil {
				child.SetView(*view)
			}
			if n.viewChildren == nil {
				n.viewChildren = make(map[viewKey]*VisibleNode)
			}
			n.viewChildren[vk] = child
		}
		return child
	}
	child, ok := n.moveChildren[string(move)]
	if !ok {
		child = &HiddenNode{infoNode: newInfoNode(n.role, n, states.Clone(), true)}
		if n.moveChildren == nil {
			n.moveChildren = make(map[string]*HiddenNode)
		}
		n.moveChildren[string(move)] = child
	}
	return child
}

func (n *VisibleNode) Develop(interp game.Interpreter, ply int, view game.View) (InfoNode, error) {
	return developInfo(n, interp, ply, view)
}

// Evaluate scores the given determinized world for the role, records the
// result in the node's valuation and returns it for backpropagation.
func (n *VisibleNode) Evaluate(interp game.Interpreter, evaluator Evaluator, world game.State) (float64, error) {
	utility, err := evaluator.Evaluate(interp, world, n.role)
	if err != nil {
		return 0, err
	}
	n.Propagate(utility)
	return utility, nil
}

// Fill expands the node and every immediate child.
func (n *VisibleNode) Fill(interp game.Interpreter) error {
	if err := n.Expand(interp); err != nil {
		return err
	}
	for _, child := range n.viewChildren {
		if err := child.Expand(interp); err != nil {
			return err
		}
	}
	for _, child := range n.moveChildren {
		if err := child.Expand(interp); err != nil {
			return err
		}
	}
	return nil
}
