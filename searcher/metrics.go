package searcher

import (
	"sync/atomic"
	"time"
)

// MoveMetrics summarizes one move search.
type MoveMetrics struct {
	StartTime       time.Time
	Duration        time.Duration
	DevelopDuration time.Duration
	Iterations      int64
	FullPlayouts    int64
	TreeReused      bool
}

type MetricsCollector interface {
	Start()
	AddIteration()
	AddFullPlayout()
	ReusedTree()
	SetDevelopDuration(d time.Duration)
	Complete() MoveMetrics
}

type metricsCollector struct {
	startTime    time.Time
	develop      time.Duration
	iterations   atomic.Int64
	fullPlayouts atomic.Int64
	treeReused   atomic.Bool
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
}

func (m *metricsCollector) AddIteration() {
	m.iterations.Add(1)
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *metricsCollector) ReusedTree() {
	m.treeReused.Store(true)
}

func (m *metricsCollector) SetDevelopDuration(d time.Duration) {
	m.develop = d
}

func (m *metricsCollector) Complete() MoveMetrics {
	return MoveMetrics{
		StartTime:       m.startTime,
		Duration:        time.Since(m.startTime),
		DevelopDuration: m.develop,
		Iterations:      m.iterations.Load(),
		FullPlayouts:    m.fullPlayouts.Load(),
		TreeReused:      m.treeReused.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                             {}
func (m *noMetricsCollector) AddIteration()                      {}
func (m *noMetricsCollector) AddFullPlayout()                    {}
func (m *noMetricsCollector) ReusedTree()                        {}
func (m *noMetricsCollector) SetDevelopDuration(d time.Duration) {}
func (m *noMetricsCollector) Complete() MoveMetrics              { return MoveMetrics{} }
