package game

import (
	"sort"
	"strings"

	"golang.org/x/exp/rand"
)

// State is an immutable, unordered set of ground facts. Two constructions of
// the same world compare equal and produce the same Key, so states can be
// used as map keys throughout the search core.
type State struct {
	facts []string // sorted, deduplicated
}

// View is a state-shaped partial projection: the subset of facts a role can
// observe. A view is consistent with a state s iff view ⊆ s.
type View = State

// MakeState builds a state from the given facts. Duplicates are dropped.
func MakeState(facts ...string) State {
	sorted := make([]string, len(facts))
	copy(sorted, facts)
	sort.Strings(sorted)
	deduped := sorted[:0]
	for i, f := range sorted {
		if i == 0 || f != sorted[i-1] {
			deduped = append(deduped, f)
		}
	}
	return State{facts: deduped}
}

// Key returns the canonical text form of the state. Equal states have equal
// keys.
func (s State) Key() string {
	return strings.Join(s.facts, " ")
}

// Facts returns the facts in sorted order. The returned slice must not be
// modified.
func (s State) Facts() []string {
	return s.facts
}

// Len returns the number of facts.
func (s State) Len() int {
	return len(s.facts)
}

// Has reports whether the fact is part of the state.
func (s State) Has(fact string) bool {
	i := sort.SearchStrings(s.facts, fact)
	return i < len(s.facts) && s.facts[i] == fact
}

// Equal reports set equality.
func (s State) Equal(other State) bool {
	if len(s.facts) != len(other.facts) {
		return false
	}
	for i, f := range s.facts {
		if other.facts[i] != f {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every fact of s is contained in other.
func (s State) SubsetOf(other State) bool {
	for _, f := range s.facts {
		if !other.Has(f) {
			return false
		}
	}
	return true
}

// With returns a new state with the given facts added.
func (s State) With(facts ...string) State {
	return MakeState(append(append([]string{}, s.facts...), facts...)...)
}

// Without returns a new state with the given facts removed.
func (s State) Without(facts ...string) State {
	drop := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		drop[f] = struct{}{}
	}
	kept := make([]string, 0, len(s.facts))
	for _, f := range s.facts {
		if _, ok := drop[f]; !ok {
			kept = append(kept, f)
		}
	}
	return State{facts: kept}
}

// StateSet is a set of states keyed by their canonical form. Iteration order
// is deterministic (sorted by key).
type StateSet struct {
	byKey map[string]State
}

// NewStateSet builds a set from the given states.
func NewStateSet(states ...State) *StateSet {
	set := &StateSet{byKey: make(map[string]State, len(states))}
	for _, s := range states {
		set.byKey[s.Key()] = s
	}
	return set
}

// Add inserts the state and reports whether it was not yet present.
func (set *StateSet) Add(s State) bool {
	key := s.Key()
	if _, ok := set.byKey[key]; ok {
		return false
	}
	set.byKey[key] = s
	return true
}

// Has reports membership.
func (set *StateSet) Has(s State) bool {
	_, ok := set.byKey[s.Key()]
	return ok
}

// Len returns the number of states.
func (set *StateSet) Len() int {
	return len(set.byKey)
}

// States returns the members sorted by key.
func (set *StateSet) States() []State {
	keys := make([]string, 0, len(set.byKey))
	for k := range set.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]State, len(keys))
	for i, k := range keys {
		out[i] = set.byKey[k]
	}
	return out
}

// Random returns a uniformly random member.
func (set *StateSet) Random(rng *rand.Rand) State {
	states := set.States()
	return states[rng.Intn(len(states))]
}

// Clone returns an independent copy.
func (set *StateSet) Clone() *StateSet {
	out := &StateSet{byKey: make(map[string]State, len(set.byKey))}
	for k, s := range set.byKey {
		out.byKey[k] = s
	}
	return out
}

// Intersect drops every member not contained in other and reports whether
// anything was removed.
func (set *StateSet) Intersect(other *StateSet) bool {
	removed := false
	for k, s := range set.byKey {
		if !other.Has(s) {
			delete(set.byKey, k)
			removed = true
		}
	}
	return removed
}
