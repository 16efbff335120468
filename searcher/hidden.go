package searcher

import (
	"sort"

	"ggp/game"
)

type hiddenKey struct {
	State string
	Turn  string
}

type hiddenEdge struct {
	State game.State
	Turn  game.Turn
	Child InfoNode
}

// HiddenNode is an information-set node where the role is not on move: it
// only knows the set of worlds consistent with its observations so far.
// Expansion merges every successor of the same kind into one shared child,
// aliased under each (origin state, joint turn) edge, because the role
// cannot distinguish which world the others acted in.
type HiddenNode struct {
	infoNode
	expanded      bool
	possibleTurns map[string]game.Turn
	edges         map[hiddenKey]*hiddenEdge
	visibleChild  *VisibleNode
	hiddenChild   *HiddenNode
}

// NewHiddenNode builds a root-level hidden node over the given worlds, which
// are taken to be the complete belief set.
func NewHiddenNode(role game.Role, states ...game.State) *HiddenNode {
	return &HiddenNode{infoNode: newInfoNode(role, nil, game.NewStateSet(states...), true)}
}

func (n *HiddenNode) IsExpanded() bool { return n.expanded }

func (n *HiddenNode) IsTerminal() bool { return n.expanded && len(n.edges) == 0 }

// PossibleTurns returns the joint turns not yet ruled out, keyed by their
// canonical form. Nil until expanded.
func (n *HiddenNode) PossibleTurns() map[string]game.Turn { return n.possibleTurns }

// VisibleChild returns the shared successor where the role gains control.
func (n *HiddenNode) VisibleChild() *VisibleNode { return n.visibleChild }

// HiddenChild returns the shared successor where the role stays off move.
func (n *HiddenNode) HiddenChild() *HiddenNode { return n.hiddenChild }

// Arity returns the number of distinct children.
func (n *HiddenNode) Arity() int {
	arity := 0
	if n.visibleChild != nil {
		arity++
	}
	if n.hiddenChild != nil {
		arity++
	}
	return arity
}

// DescendantCount returns the number of distinct nodes below this one.
func (n *HiddenNode) DescendantCount() int {
	count := 0
	if n.visibleChild != nil {
		count += 1 + n.visibleChild.DescendantCount()
	}
	if n.hiddenChild != nil {
		count += 1 + n.hiddenChild.DescendantCount()
	}
	return count
}

// Edge returns the successor reached from the origin state by the turn.
func (n *HiddenNode) Edge(state game.State, turn game.Turn) (InfoNode, bool) {
	edge, ok := n.edges[hiddenKey{State: state.Key(), Turn: turn.Key()}]
	if !ok {
		return nil, false
	}
	return edge.Child, true
}

// EdgeKeys returns the (state, turn) edge keys in sorted order.
func (n *HiddenNode) EdgeKeys() []hiddenKey {
	keys := make([]hiddenKey, 0, len(n.edges))
	for key := range n.edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].State != keys[j].State {
			return keys[i].State < keys[j].State
		}
		return keys[i].Turn < keys[j].Turn
	})
	return keys
}

// Expand enumerates every joint-move successor of every possible world and
// merges them into at most two shared children: one visible (role gains
// control) and one hidden. Worlds that are already terminal contribute no
// edges; a node whose every world is terminal becomes terminal itself.
func (n *HiddenNode) Expand(interp game.Interpreter) error {
	if n.expanded {
		return nil
	}
	var visibleStates, hiddenStates []game.State
	edges := make(map[hiddenKey]*hiddenEdge)
	visibleEdges := make(map[hiddenKey]bool)
	possibleTurns := make(map[string]game.Turn)

	for _, s := range n.possible.States() {
		transitions, err := interp.AllNextStates(s)
		if err != nil {
			return err
		}
		for _, tr := range transitions {
			key := hiddenKey{State: s.Key(), Turn: tr.Turn.Key()}
			possibleTurns[tr.Turn.Key()] = tr.Turn
			edges[key] = &hiddenEdge{State: s, Turn: tr.Turn}
			if game.InControl(tr.State, n.role) {
				visibleEdges[key] = true
				visibleStates = append(visibleStates, tr.State)
			} else {
				hiddenStates = append(hiddenStates, tr.State)
			}
		}
	}

	if len(visibleStates) > 0 {
		n.visibleChild = &VisibleNode{
			infoNode: newInfoNode(n.role, n, game.NewStateSet(visibleStates...), n.fullyEnumerated),
		}
	}
	if len(hiddenStates) > 0 {
		n.hiddenChild = &HiddenNode{
			infoNode: newInfoNode(n.role, n, game.NewStateSet(hiddenStates...), n.fullyEnumerated),
		}
	}
	for key, edge := range edges {
		if visibleEdges[key] {
			edge.Child = n.visibleChild
		} else {
			edge.Child = n.hiddenChild
		}
	}
	n.edges = edges
	n.possibleTurns = possibleTurns
	n.expanded = true
	return nil
}

// Trim drops edges whose origin world has been ruled out, then edges whose
// turn has been ruled out. Idempotent; a no-op while unexpanded.
func (n *HiddenNode) Trim() {
	if !n.expanded {
		return
	}
	for key, edge := range n.edges {
		if !n.possible.Has(edge.State) {
			delete(n.edges, key)
			continue
		}
		if _, ok := n.possibleTurns[edge.Turn.Key()]; !ok {
			delete(n.edges, key)
		}
	}
}

func (n *HiddenNode) narrow(states *game.StateSet, turns map[string]bool) {
	n.infoNode.narrow(states, turns)
	// An empty turn set is absence of evidence, not evidence: a record's
	// horizon ply says nothing about the turn played from it.
	if n.possibleTurns == nil || len(turns) == 0 {
		return
	}
	for key := range n.possibleTurns {
		if !turns[key] {
			delete(n.possibleTurns, key)
		}
	}
}

func (n *HiddenNode) recordEvidence(record game.Record, depth int) {
	n.infoNode.recordEvidence(record, depth)
	if len(n.possibleTurns) == 1 {
		for _, turn := range n.possibleTurns {
			record.Turns[depth] = turn
		}
	}
}

// childOfKind returns the shared successor of the requested kind, creating
// and attaching it when expansion (or later trimming) left none.
func (n *HiddenNode) childOfKind(states *game.StateSet, visible bool, view *game.View) InfoNode {
	if visible {
		if n.visibleChild == nil {
			n.visibleChild = &VisibleNode{infoNode: newInfoNode(n.role, n, states.Clone(), true)}
			if view != nil {
				n.visibleChild.SetView(*view)
			}
		}
		return n.visibleChild
	}
	if n.hiddenChild == nil {
		n.hiddenChild = &HiddenNode{infoNode: newInfoNode(n.role, n, states.Clone(), true)}
	}
	return n.hiddenChild
}

func (n *HiddenNode) Develop(interp game.Interpreter, ply int, view game.View) (InfoNode, error) {
	return developInfo(n, interp, ply, view)
}

// Evaluate scores the given determinized world for the role, records the
// result in the node's valuation and returns it for backpropagation.
func (n *HiddenNode) Evaluate(interp game.Interpreter, evaluator Evaluator, world game.State) (float64, error) {
	utility, err := evaluator.Evaluate(interp, world, n.role)
	if err != nil {
		return 0, err
	}
	n.Propagate(utility)
	return utility, nil
}

// Fill expands the node and every immediate child.
func (n *HiddenNode) Fill(interp game.Interpreter) error {
	if err := n.Expand(interp); err != nil {
		return err
	}
	if n.visibleChild != nil {
		if err := n.visibleChild.Expand(interp); err != nil {
			return err
		}
	}
	if n.hiddenChild != nil {
		if err := n.hiddenChild.Expand(interp); err != nil {
			return err
		}
	}
	return nil
}
