// Package searcher holds the search core: valuations, selectors, evaluators,
// the node hierarchy with belief-state management, the search repeater, and
// the opening book builder.
package searcher

// Valuation accumulates playout statistics for one node: the summed utility
// of every playout that passed through it and the playout count. Utilities
// are normalized to [0, 1] from the owning role's perspective.
type Valuation struct {
	Utility  float64
	Playouts int
}

// Propagate merges one playout's utility into the valuation.
func (v *Valuation) Propagate(utility float64) {
	v.Utility += utility
	v.Playouts++
}

// AverageUtility returns the mean utility per playout, 0 if unvisited.
func (v *Valuation) AverageUtility() float64 {
	if v == nil || v.Playouts == 0 {
		return 0
	}
	return v.Utility / float64(v.Playouts)
}

// Visits returns the playout count, 0 for a nil valuation.
func (v *Valuation) Visits() int {
	if v == nil {
		return 0
	}
	return v.Playouts
}

// CompareValuations orders valuations by average utility, then by playout
// count. A nil valuation sorts below every non-nil one.
func CompareValuations(a, b *Valuation) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	ar, br := a.AverageUtility(), b.AverageUtility()
	switch {
	case ar < br:
		return -1
	case ar > br:
		return 1
	case a.Playouts < b.Playouts:
		return -1
	case a.Playouts > b.Playouts:
		return 1
	default:
		return 0
	}
}
