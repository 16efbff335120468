package searcher

import (
	"math"
)

// Candidate is one child edge offered to a selector. Callers list candidates
// in sorted key order; selectors break ties towards the earliest candidate,
// so selection is deterministic given equal inputs.
type Candidate struct {
	Key       string
	Valuation *Valuation
}

// Selector picks one candidate key. inControl reports whether the selecting
// role is in control of the node the candidates hang off: a selector may
// invert utilities for nodes where an opponent picks. Returns false iff
// there are no candidates.
type Selector interface {
	Select(candidates []Candidate, inControl bool) (string, bool)
}

// UCT is the upper-confidence-bound selector: it maximizes the exploitation
// ratio plus C·sqrt(ln N / n). Unvisited candidates always win over visited
// ones. When the role is not in control the ratio is inverted, so the
// opponent branch that is worst for the role is explored hardest.
type UCT struct {
	c float64
}

// NewUCT returns a UCT selector with the standard exploration constant √2.
func NewUCT() *UCT {
	return &UCT{c: math.Sqrt2}
}

// NewUCTWithExploration returns a UCT selector with a custom exploration
// constant.
func NewUCTWithExploration(c float64) *UCT {
	return &UCT{c: c}
}

func (u *UCT) Select(candidates []Candidate, inControl bool) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	total := 0
	for _, c := range candidates {
		total += c.Valuation.Visits()
	}

	bestKey := ""
	bestPriority := math.Inf(-1)
	for _, c := range candidates {
		priority := math.Inf(1) // unvisited candidates go first
		if n := c.Valuation.Visits(); n > 0 {
			ratio := c.Valuation.AverageUtility()
			if !inControl {
				ratio = 1 - ratio
			}
			priority = ratio + u.c*math.Sqrt(math.Log(float64(total))/float64(n))
		}
		if priority > bestPriority {
			bestPriority = priority
			bestKey = c.Key
		}
	}
	return bestKey, true
}

// Best picks the candidate with the highest valuation under
// CompareValuations. Used to choose the real move by estimated value.
type Best struct{}

func (Best) Select(candidates []Candidate, inControl bool) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if CompareValuations(c.Valuation, best.Valuation) > 0 {
			best = c
		}
	}
	return best.Key, true
}

// Most picks the candidate with the highest playout count. Robustness over
// raw estimated value is the standard choice for the real move.
type Most struct{}

func (Most) Select(candidates []Candidate, inControl bool) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Valuation.Visits() > best.Valuation.Visits() {
			best = c
		}
	}
	return best.Key, true
}
