package searcher

import (
	"fmt"

	"ggp/game"
)

// InfoNode is an information-set tree node: it tracks the set of worlds a
// role cannot distinguish given everything it has observed. VisibleNode
// means the role is in control and knows its exact view; HiddenNode means
// another role is on move and only the belief set is known.
type InfoNode interface {
	Role() game.Role
	Parent() InfoNode
	Depth() int
	IsExpanded() bool
	IsTerminal() bool
	PossibleStates() *game.StateSet
	FullyEnumerated() bool
	Valuation() *Valuation
	Propagate(utility float64)

	// Arity and DescendantCount are tree-size diagnostics over the
	// distinct children (aliased edges count once).
	Arity() int
	DescendantCount() int

	// Expand enumerates the node's distinguishable next steps. Idempotent.
	Expand(interp game.Interpreter) error
	// Evaluate scores a determinized world for the role, records the result
	// in the node's valuation and returns it for backpropagation.
	Evaluate(interp game.Interpreter, evaluator Evaluator, world game.State) (float64, error)
	// Develop advances the node to the given ply after the role received
	// view, narrowing beliefs along the way. Callers must use the returned
	// node; it may differ from the receiver.
	Develop(interp game.Interpreter, ply int, view game.View) (InfoNode, error)
	// Trim drops child branches ruled out by the current beliefs and any
	// committed move. Idempotent.
	Trim()
	// Fill eagerly expands the node and its entire immediate subtree.
	Fill(interp game.Interpreter) error

	narrow(states *game.StateSet, turns map[string]bool)
	replacePossible(states *game.StateSet)
	addPossible(state game.State)
	recordEvidence(record game.Record, depth int)
	setParent(parent InfoNode)
}

// infoNode carries the state shared by both node kinds.
type infoNode struct {
	role            game.Role
	parent          InfoNode
	possible        *game.StateSet
	fullyEnumerated bool
	valuation       *Valuation

	move    game.Move // own move committed for this ply, if any
	hasMove bool
}

func newInfoNode(role game.Role, parent InfoNode, possible *game.StateSet, fullyEnumerated bool) infoNode {
	if possible == nil || possible.Len() == 0 {
		panic("information-set node with empty possible states")
	}
	return infoNode{role: role, parent: parent, possible: possible, fullyEnumerated: fullyEnumerated}
}

func (n *infoNode) Role() game.Role                { return n.role }
func (n *infoNode) Parent() InfoNode               { return n.parent }
func (n *infoNode) PossibleStates() *game.StateSet { return n.possible }
func (n *infoNode) FullyEnumerated() bool          { return n.fullyEnumerated }
func (n *infoNode) Valuation() *Valuation          { return n.valuation }

func (n *infoNode) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

func (n *infoNode) Propagate(utility float64) {
	if n.valuation == nil {
		n.valuation = &Valuation{}
	}
	n.valuation.Propagate(utility)
}

// CommitMove records the role's real move for this ply.
func (n *infoNode) CommitMove(move game.Move) {
	n.move = move
	n.hasMove = true
}

// CommittedMove returns the role's committed move for this ply, if any.
func (n *infoNode) CommittedMove() (game.Move, bool) {
	return n.move, n.hasMove
}

func (n *infoNode) narrow(states *game.StateSet, turns map[string]bool) {
	n.possible.Intersect(states)
	if n.possible.Len() == 0 {
		panic("belief narrowed to the empty set")
	}
}

func (n *infoNode) replacePossible(states *game.StateSet) {
	if states == nil || states.Len() == 0 {
		panic("information-set node with empty possible states")
	}
	n.possible = states
	n.fullyEnumerated = true
}

func (n *infoNode) addPossible(state game.State) {
	n.possible.Add(state)
}

func (n *infoNode) setParent(parent InfoNode) { n.parent = parent }

func (n *infoNode) recordEvidence(record game.Record, depth int) {
	if n.possible.Len() == 1 {
		record.States[depth] = n.possible.States()[0]
	}
	if n.hasMove {
		record.PinMove(depth, n.role, n.move)
	}
}

// chainTo collects the nodes from the tree root down to n, inclusive.
func chainTo(n InfoNode) []InfoNode {
	var reversed []InfoNode
	for cur := n; cur != nil; cur = cur.Parent() {
		reversed = append(reversed, cur)
	}
	chain := make([]InfoNode, len(reversed))
	for i, node := range reversed {
		chain[len(reversed)-1-i] = node
	}
	return chain
}

// developInfo is the shared reconciliation algorithm behind Develop: pin
// everything known along the ancestor chain plus the fresh view into a
// record, enumerate the consistent developments, narrow every node on the
// chain, then walk (creating nodes as needed) to the node at depth ply.
func developInfo(n InfoNode, interp game.Interpreter, ply int, view game.View) (InfoNode, error) {
	depth := n.Depth()
	if ply < depth {
		panic(fmt.Sprintf("develop to ply %d behind node depth %d", ply, depth))
	}
	role := n.Role()

	if vn, ok := n.(*VisibleNode); ok && depth == ply && vn.hasView && vn.view.Equal(view) {
		return n, nil
	}

	chain := chainTo(n)
	record := game.NewRecord()
	for _, node := range chain {
		node.recordEvidence(record, node.Depth())
	}
	record.PinView(ply, role, view)

	developments, err := interp.Developments(record)
	if err != nil {
		return nil, err
	}
	offset := record.Offset()

	devStates := make(map[int]*game.StateSet)
	devTurns := make(map[int]map[string]bool)
	for _, development := range developments {
		for i, step := range development {
			d := offset + i
			if devStates[d] == nil {
				devStates[d] = game.NewStateSet()
				devTurns[d] = make(map[string]bool)
			}
			devStates[d].Add(step.State)
			if step.Turn != nil {
				devTurns[d][step.Turn.Key()] = true
			}
		}
	}

	for _, node := range chain {
		d := node.Depth()
		if devStates[d] == nil {
			continue
		}
		node.narrow(devStates[d], devTurns[d])
		node.Trim()
	}

	// Kind mismatch at the destination ply itself: the role has gained (or
	// lost) control since the node was built. Replace the node wholesale.
	if depth == ply {
		inControl := rolesControlAny(devStates[ply], role)
		switch node := n.(type) {
		case *HiddenNode:
			if inControl {
				replacement := NewVisibleNode(role, devStates[ply].States()...)
				replacement.setParent(node.Parent())
				replacement.SetView(view)
				replacement.fullyEnumerated = true
				return replacement, nil
			}
			node.replacePossible(devStates[ply])
			node.Trim()
			return node, nil
		case *VisibleNode:
			node.replacePossible(devStates[ply])
			node.SetView(view)
			node.Trim()
			return node, nil
		}
	}

	cur := n
	for d := depth; d < ply; d++ {
		nextStates := devStates[d+1]
		if nextStates == nil || nextStates.Len() == 0 {
			return nil, fmt.Errorf("no consistent world at ply %d: %w", d+1, game.ErrUnsatisfiableRecord)
		}
		inControlNext := rolesControlAny(nextStates, role)
		var nextView *game.View
		if inControlNext {
			if d+1 == ply {
				nextView = &view
			} else if seen, err := interp.SeesByRole(nextStates.States()[0], role); err == nil {
				nextView = &seen
			}
		}

		next, err := descendInfo(cur, interp, nextStates, inControlNext, nextView)
		if err != nil {
			return nil, err
		}
		cur = next
	}

	cur.replacePossible(devStates[ply])
	if vn, ok := cur.(*VisibleNode); ok {
		vn.SetView(view)
	}
	cur.Trim()
	return cur, nil
}

// descendInfo resolves (creating if necessary) the successor of cur that
// holds the given belief set, respecting the node kind the control decides.
func descendInfo(cur InfoNode, interp game.Interpreter, states *game.StateSet, visible bool, view *game.View) (InfoNode, error) {
	if err := cur.Expand(interp); err != nil {
		return nil, err
	}
	switch node := cur.(type) {
	case *HiddenNode:
		return node.childOfKind(states, visible, view), nil
	case *VisibleNode:
		move, ok := node.CommittedMove()
		if !ok {
			panic("developing past a visible node without a committed move")
		}
		return node.childForMove(move, states, visible, view), nil
	default:
		panic("unknown information-set node kind")
	}
}

// StepNode advances an expanded node along one determinized ply: world is
// the origin world, turn the joint turn played in it. Returns false when the
// node has no matching edge (an unexplored branch); callers then stop their
// descent and evaluate where they are.
func StepNode(n InfoNode, world game.State, turn game.Turn) (InfoNode, bool) {
	switch node := n.(type) {
	case *HiddenNode:
		return node.Edge(world, turn)
	case *VisibleNode:
		move, ok := turn.MoveOf(node.Role())
		if !ok {
			return nil, false
		}
		return node.Edge(world, move)
	default:
		panic("unknown information-set node kind")
	}
}

// rolesControlAny reports whether the role is in control of the members of
// the set. Worlds in one information set must agree on who is on move.
func rolesControlAny(states *game.StateSet, role game.Role) bool {
	members := states.States()
	inControl := game.InControl(members[0], role)
	for _, member := range members[1:] {
		if game.InControl(member, role) != inControl {
			panic("possible worlds disagree on control")
		}
	}
	return inControl
}

// Align walks a tree from its root to the node at the given ply compatible
// with the determinized world, expanding nodes and widening beliefs along
// the way as needed. It never narrows beliefs: the world was sampled from
// another role's belief set and this tree merely has to accommodate it.
// Returns ErrUnsatisfiableRecord (wrapped) when no playthrough from the
// root's beliefs reaches the world at that ply.
func Align(interp game.Interpreter, node InfoNode, ply int, world game.State) (InfoNode, error) {
	if node.Depth() == ply && node.PossibleStates().Has(world) {
		return node, nil
	}
	root := node
	for root.Parent() != nil {
		root = root.Parent()
	}

	record := game.NewRecord()
	if root.PossibleStates().Len() == 1 {
		record.States[0] = root.PossibleStates().States()[0]
	}
	record.States[ply] = world
	developments, err := interp.Developments(record)
	if err != nil {
		return nil, err
	}
	development := developments[0]

	cur := root
	for i := 0; i < ply; i++ {
		state := development[i].State
		turn := *development[i].Turn
		if !cur.PossibleStates().Has(state) {
			cur.addPossible(state)
		}
		if err := cur.Expand(interp); err != nil {
			return nil, err
		}
		next, ok := StepNode(cur, state, turn)
		if !ok {
			next, err = attachEdge(cur, interp, state, turn)
			if err != nil {
				return nil, err
			}
		}
		cur = next
	}
	if !cur.PossibleStates().Has(world) {
		cur.addPossible(world)
	}
	return cur, nil
}

// attachEdge creates the missing (state, turn) edge on an already-expanded
// node whose beliefs were widened after expansion, reusing the shared
// children and widening them with the destination world.
func attachEdge(n InfoNode, interp game.Interpreter, state game.State, turn game.Turn) (InfoNode, error) {
	dest, err := interp.NextState(state, turn)
	if err != nil {
		return nil, err
	}
	destVisible := game.InControl(dest, n.Role())
	destSet := game.NewStateSet(dest)

	switch node := n.(type) {
	case *HiddenNode:
		node.possibleTurns[turn.Key()] = turn
		child := node.childOfKind(destSet, destVisible, nil)
		child.addPossible(dest)
		node.edges[hiddenKey{State: state.Key(), Turn: turn.Key()}] = &hiddenEdge{State: state, Turn: turn, Child: child}
		return child, nil
	case *VisibleNode:
		move, ok := turn.MoveOf(node.Role())
		if !ok {
			return nil, fmt.Errorf("turn %q has no move for role %q: %w", turn.Key(), node.Role(), game.ErrWrongRoles)
		}
		var view *game.View
		if destVisible {
			seen, err := interp.SeesByRole(dest, node.Role())
			if err != nil {
				return nil, err
			}
			view = &seen
		}
		child := node.childForMove(move, destSet, destVisible, view)
		child.addPossible(dest)
		node.edges[visibleKey{State: state.Key(), Move: string(move)}] = &visibleEdge{State: state, Move: move, Child: child}
		return child, nil
	default:
		panic("unknown information-set node kind")
	}
}
