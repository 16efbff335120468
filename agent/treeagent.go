package agent

import (
	"time"

	"golang.org/x/exp/rand"

	"ggp/gameclock"
	"ggp/searcher"
)

// Option configures a tree-search agent.
type Option func(a *treeAgent)

// WithSelector sets the in-tree selection policy.
func WithSelector(selector searcher.Selector) Option {
	return func(a *treeAgent) {
		if selector != nil {
			a.selector = selector
		}
	}
}

// WithChooser sets the policy for picking the real move at decision time.
func WithChooser(chooser searcher.Selector) Option {
	return func(a *treeAgent) {
		if chooser != nil {
			a.chooser = chooser
		}
	}
}

// WithEvaluator sets the leaf evaluator.
func WithEvaluator(evaluator searcher.Evaluator) Option {
	return func(a *treeAgent) {
		if evaluator != nil {
			a.evaluator = evaluator
		}
	}
}

// WithMetrics turns on per-move search metrics collection.
func WithMetrics() Option {
	return func(a *treeAgent) {
		a.metrics = searcher.NewMetricsCollector()
	}
}

// WithSeed fixes the determinization and rollout sampling for reproducible
// searches.
func WithSeed(seed uint64) Option {
	return func(a *treeAgent) {
		a.rng = rand.New(rand.NewSource(seed))
	}
}

// treeAgent carries what the tree searchers share on top of the lifecycle:
// the injected policies and the per-ply budget derivation.
type treeAgent struct {
	InterpreterAgent
	selector  searcher.Selector
	chooser   searcher.Selector
	evaluator searcher.Evaluator
	metrics   searcher.MetricsCollector
	rng       *rand.Rand
}

func newTreeAgent(options ...Option) treeAgent {
	a := treeAgent{
		selector:  searcher.NewUCT(),
		chooser:   searcher.Most{},
		evaluator: searcher.NewLightPlayout(),
		metrics:   searcher.NewNoMetricsCollector(),
		rng:       rand.New(rand.NewSource(rand.Uint64())),
	}
	for _, option := range options {
		option(&a)
	}
	return a
}

// Metrics returns the metrics of the last move search.
func (a *treeAgent) Metrics() searcher.MoveMetrics {
	return a.metrics.Complete()
}

const (
	// Budget derivation constants. The scale shaves a safety margin off
	// every estimate; the buffers keep the agent from timing itself out on
	// process overhead.
	budgetScale         = 0.975
	maxTimeBuffer       = time.Second
	minTimeBuffer       = 5 * time.Second
	remainingMovesGuess = 128
)

func scale(d time.Duration) time.Duration {
	return time.Duration(float64(d) * budgetScale)
}

// searchBudget derives this ply's search time from the remaining clock. The
// agent can always afford the net-zero time (increment plus delay, less the
// time already spent this ply); beyond that it spreads the remaining total
// over a guessed number of remaining moves, clamped so it can neither
// overdraw the clock nor starve the search below the net-zero floor.
func searchBudget(total time.Duration, clock gameclock.Configuration, used time.Duration) time.Duration {
	netZero := clock.Increment + clock.Delay - used
	zero := total + clock.Delay - used

	remaining := time.Duration(remainingMovesGuess)
	if total <= 0 {
		remaining = 1
	}
	using := total / remaining
	if using < 0 {
		using = 0
	}

	maxTime := scale(zero) - maxTimeBuffer
	minTime := scale(netZero) - minTimeBuffer

	// The cap is applied after the floor: when the clock cannot cover even
	// the net-zero floor, the cap wins.
	budget := max(scale(netZero+using), minTime, 0)
	budget = min(budget, maxTime)
	if budget < 0 {
		budget = 0
	}
	return budget
}
