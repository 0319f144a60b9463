package searcher

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"chessagent/experiments/metrics"
	"chessagent/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Variant selects the child selection score.
type Variant int8

const (
	UCT Variant = iota
	ProgressiveHistory
	RAVE
)

var variantNames = [...]string{"uct", "progressive_history", "rave"}

func (v Variant) String() string {
	return variantNames[v]
}

// ParseVariant accepts the variant names plus "standard" for UCT.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "uct", "standard", "":
		return UCT, nil
	case "progressive_history", "history":
		return ProgressiveHistory, nil
	case "rave":
		return RAVE, nil
	}
	return UCT, fmt.Errorf("unknown mcts variant %q", s)
}

type Option func(mcts *MCTS)

type MCTS struct {
	variant       Variant
	duration      time.Duration
	episodes      int
	cutoff        int
	evaluate      game.Estimate
	exploration   float64
	raveK         float64
	historyWeight float64
	rng           *rand.Rand
	metrics       metrics.Collector
	tree          *tree
	played        []game.Move // Rollout moves of the current simulation
}

// Result is the outcome of one search.
type Result struct {
	Move   game.Move
	Policy map[game.Move]float64 // Root visit counts
	Metric metrics.SearchMetric
}

func WithDuration(duration time.Duration) Option {
	return func(u *MCTS) {
		if duration > 0 {
			u.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(u *MCTS) {
		if episodes > 0 {
			u.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(u *MCTS) {
		if depth > 0 {
			u.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Estimate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

func WithRaveConstant(k float64) Option {
	return func(m *MCTS) {
		if k > 0 {
			m.raveK = k
		}
	}
}

func WithHistoryWeight(w float64) Option {
	return func(m *MCTS) {
		if w >= 0 {
			m.historyWeight = w
		}
	}
}

// WithRand makes expansion order and rollouts reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func New(variant Variant, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		variant:       variant,
		cutoff:        MaxCutoff,
		evaluate:      game.MaterialBalance,
		exploration:   Exploration,
		raveK:         RaveConstant,
		historyWeight: HistoryWeight,
		metrics:       metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

func (m *MCTS) Variant() Variant {
	return m.variant
}

// Search runs simulations on b until the episode count or duration is used
// up, or ctx is done, then returns the robust child. b is restored before
// Search returns.
func (m *MCTS) Search(ctx context.Context, b *game.Board) (Result, error) {
	m.tree = newTree(b, m.rng)
	root := &m.tree.nodes[0]
	if len(root.untried) == 0 {
		return Result{}, fmt.Errorf("%w: %s", game.ErrNoLegalMoves, b.FEN())
	}
	root.terminal = false

	m.metrics.Start(m.variant.String(), m.cutoff)
	start := time.Now()
	episodes := 0
	for ; m.episodes <= 0 || episodes < m.episodes; episodes++ {
		if m.duration > 0 && time.Since(start) >= m.duration {
			break
		}
		if ctx.Err() != nil {
			break
		}
		m.simulate(b)
		m.metrics.AddEpisode()
	}

	var move game.Move
	if best := m.tree.robustChild(); best >= 0 {
		move = m.tree.nodes[best].move
	} else {
		moves := b.LegalMoves()
		move = moves[m.rng.Intn(len(moves))]
		m.metrics.SetFallback()
		log.Warn().Msgf("mcts %s ran no simulations, playing random move %s", m.variant, move)
	}
	metric := m.metrics.Complete()
	log.Debug().Msgf("mcts %s chose %s after %d episodes in %s",
		m.variant, move, episodes, time.Since(start))

	return Result{Move: move, Policy: m.tree.Policy(), Metric: metric}, nil
}

// Policy returns the root visit counts of the most recent search.
func (m *MCTS) Policy() map[game.Move]float64 {
	if m.tree == nil {
		return nil
	}
	return m.tree.Policy()
}

func (m *MCTS) simulate(b *game.Board) {
	t := m.tree
	id, plies := 0, 0

	// Selection
	for !t.nodes[id].terminal && t.nodes[id].isFullyExpanded() {
		id = m.selectChild(id)
		b.MakeMove(t.nodes[id].move)
		plies++
	}

	// Expansion
	if n := &t.nodes[id]; !n.terminal {
		move := n.untried[len(n.untried)-1]
		n.untried = n.untried[:len(n.untried)-1]
		mover := b.SideToMove()
		b.MakeMove(move)
		plies++
		id = t.add(id, move, mover, b, m.rng)
	}

	m.played = m.played[:0]
	side, score := m.rollout(b)
	for range m.played {
		b.Undo()
	}
	m.backup(id, plies, side, score)
	for ; plies > 0; plies-- {
		b.Undo()
	}
}

func (m *MCTS) selectChild(parent int) int {
	t := m.tree
	p := &t.nodes[parent]
	policy := newUCT(m.exploration*m.exploration, p.visits)

	best, bestScore := -1, math.Inf(-1)
	for _, c := range p.children {
		child := &t.nodes[c]
		var score float64
		switch m.variant {
		case UCT:
			score = policy.evaluate(child.rewards, child.visits)
		case ProgressiveHistory:
			h := t.historyStat(child.mover, child.move.Key()).mean()
			score = policy.evaluate(child.rewards, child.visits) + historyBonus(m.historyWeight, child.visits, h)
		case RAVE:
			amaf := p.amafStat(child.move.Key()).mean()
			score = policy.rave(child.rewards, child.visits, amaf, m.raveK)
		}
		if best < 0 || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// rollout plays random moves until the game ends or the cutoff is reached.
// The score is from the perspective of the returned side.
func (m *MCTS) rollout(b *game.Board) (game.Side, float64) {
	for depth := 0; ; depth++ {
		moves := b.LegalMoves()
		if len(moves) == 0 { // Game over before cutoff
			m.metrics.AddFullPlayout()
			if b.IsInCheck(b.SideToMove()) {
				return b.SideToMove(), LOSS
			}
			return b.SideToMove(), DRAW
		}
		if b.IsDraw() {
			m.metrics.AddFullPlayout()
			return b.SideToMove(), DRAW
		}
		if depth >= m.cutoff {
			// At cutoff state, return an evaluation score from current player's perspective
			return b.SideToMove(), m.evaluate(b)
		}
		move := moves[m.rng.Intn(len(moves))] // Random rollout policy
		b.MakeMove(move)
		m.played = append(m.played, move)
	}
}

// backup walks from the leaf at the given depth to the root. Each node's
// reward is taken from the perspective of the side that moved into it.
func (m *MCTS) backup(leaf, depth int, side game.Side, score float64) {
	t := m.tree
	reward := func(s game.Side) float64 {
		if s == side {
			return score
		}
		return -score
	}

	var seq []game.Move
	var seen map[game.MoveKey]bool
	if m.variant == RAVE {
		seq = make([]game.Move, 0, depth+len(m.played))
		for id := leaf; id > 0; id = t.nodes[id].parent {
			seq = append(seq, t.nodes[id].move)
		}
		slices.Reverse(seq)
		seq = append(seq, m.played...)
		seen = make(map[game.MoveKey]bool)
	}

	for id := leaf; id >= 0; id = t.nodes[id].parent {
		n := &t.nodes[id]
		n.visits++
		n.rewards += reward(n.mover)

		switch m.variant {
		case ProgressiveHistory:
			if id > 0 {
				key := historyKey{mover: n.mover, move: n.move.Key()}
				h, ok := t.history[key]
				if !ok {
					h = &stat{}
					t.history[key] = h
				}
				h.visits++
				h.rewards += reward(n.mover)
			}
		case RAVE:
			// Moves by the side to move here, anywhere later in the simulation
			clear(seen)
			r := reward(n.mover.Opponent())
			for i := depth; i < len(seq); i += 2 {
				key := seq[i].Key()
				if seen[key] {
					continue
				}
				seen[key] = true
				if n.amaf == nil {
					n.amaf = make(map[game.MoveKey]*stat)
				}
				s, ok := n.amaf[key]
				if !ok {
					s = &stat{}
					n.amaf[key] = s
				}
				s.visits++
				s.rewards += r
			}
		}
		depth--
	}
}
