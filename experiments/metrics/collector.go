package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one move search. MCTS fills Episodes and
// FullPlayouts, minimax fills Nodes and Depth.
type SearchMetric struct {
	Algorithm    string
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	Cutoff       int
	Nodes        int
	Depth        int
	Fallback     bool // Budget ran out before any unit of work completed
}

type MoveMetric struct {
	Step int
	Side string
	Move string
	SearchMetric
}

type GameMetric struct {
	White      string
	Black      string
	Status     string
	Winner     string // Empty on a draw
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(algorithm string, cutoff int)
	AddFullPlayout()
	AddEpisode()
	AddNodes(n int)
	SetDepth(depth int)
	SetFallback()
	Complete() SearchMetric
}

type collector struct {
	algorithm    string
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	nodes        atomic.Int64
	depth        atomic.Int32
	fallback     atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (m *collector) Start(algorithm string, cutoff int) {
	m.startTime = time.Now()
	m.algorithm = algorithm
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
	m.depth.Store(0)
	m.fallback.Store(false)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) SetDepth(depth int) {
	m.depth.Store(int32(depth))
}

func (m *collector) SetFallback() {
	m.fallback.Store(true)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm:    m.algorithm,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Cutoff:       m.cutoff,
		Nodes:        int(m.nodes.Load()),
		Depth:        int(m.depth.Load()),
		Fallback:     m.fallback.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string, cutoff int) {}
func (m *dummyCollector) AddFullPlayout()                    {}
func (m *dummyCollector) AddEpisode()                        {}
func (m *dummyCollector) AddNodes(n int)                     {}
func (m *dummyCollector) SetDepth(depth int)                 {}
func (m *dummyCollector) SetFallback()                       {}
func (m *dummyCollector) Complete() SearchMetric             { return SearchMetric{} }
