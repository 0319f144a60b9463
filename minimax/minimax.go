// Package minimax selects moves with depth-bounded negamax search under
// alpha-beta pruning, in full-width, beam and iterative-deepening variants.
package minimax

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"chessagent/experiments/metrics"
	"chessagent/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Variant selects how candidate moves are explored.
type Variant int8

const (
	Standard Variant = iota
	Beam
	IterativeDeepening
)

var variantNames = [...]string{"standard", "beam", "iterative_deepening"}

func (v Variant) String() string {
	return variantNames[v]
}

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "standard", "":
		return Standard, nil
	case "beam", "beam_search":
		return Beam, nil
	case "iterative_deepening", "iterative":
		return IterativeDeepening, nil
	}
	return Standard, fmt.Errorf("unknown minimax variant %q", s)
}

const (
	DefaultDepth     = 3
	DefaultBeamWidth = 5

	valueMate     = 100000
	valueInfinity = valueMate + 1
)

type Option func(m *Minimax)

type Minimax struct {
	variant   Variant
	depth     int
	beamWidth int
	duration  time.Duration
	nodeLimit int
	evaluate  game.Evaluate
	rng       *rand.Rand
	metrics   metrics.Collector

	// Per search
	ctx      context.Context
	deadline time.Time
	nodes    int
}

// Result of one search. Score is from the perspective of the side to move.
type Result struct {
	Move   game.Move
	Score  int
	Depth  int // Deepest completed depth
	Nodes  int
	Metric metrics.SearchMetric
}

func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

func WithBeamWidth(width int) Option {
	return func(m *Minimax) {
		if width > 0 {
			m.beamWidth = width
		}
	}
}

// WithDuration bounds iterative deepening by wall-clock time.
func WithDuration(duration time.Duration) Option {
	return func(m *Minimax) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithNodeLimit bounds iterative deepening by visited nodes.
func WithNodeLimit(nodes int) Option {
	return func(m *Minimax) {
		if nodes > 0 {
			m.nodeLimit = nodes
		}
	}
}

func WithEvaluator(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithRand seeds the random fallback move.
func WithRand(rng *rand.Rand) Option {
	return func(m *Minimax) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *Minimax) {
		m.metrics = metrics.NewCollector()
	}
}

func New(variant Variant, options ...Option) *Minimax {
	m := &Minimax{
		variant:   variant,
		depth:     DefaultDepth,
		beamWidth: DefaultBeamWidth,
		evaluate:  game.Material,
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

func (m *Minimax) Variant() Variant {
	return m.variant
}

// Search returns the best move for the side to move. b is explored in place
// and restored before Search returns.
func (m *Minimax) Search(ctx context.Context, b *game.Board) (Result, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return Result{}, fmt.Errorf("%w: %s", game.ErrNoLegalMoves, b.FEN())
	}

	m.ctx = ctx
	m.nodes = 0
	m.deadline = time.Time{}
	if m.duration > 0 {
		m.deadline = time.Now().Add(m.duration)
	}
	m.metrics.Start(m.variant.String(), m.depth)

	var res Result
	if m.variant == IterativeDeepening {
		res = m.deepen(b, moves)
	} else {
		res.Move, res.Score, _ = m.root(b, m.order(b, moves), m.depth, false)
		res.Depth = m.depth
	}
	res.Nodes = m.nodes

	m.metrics.AddNodes(m.nodes)
	m.metrics.SetDepth(res.Depth)
	res.Metric = m.metrics.Complete()
	log.Debug().Msgf("minimax %s chose %s score %d at depth %d after %d nodes",
		m.variant, res.Move, res.Score, res.Depth, res.Nodes)
	return res, nil
}

// deepen runs depth 1, 2, ... and keeps the result of the deepest iteration
// that finished within budget.
func (m *Minimax) deepen(b *game.Board, moves []game.Move) Result {
	var res Result
	for depth := 1; depth <= m.depth; depth++ {
		if depth > 1 && m.exhausted() {
			break
		}
		if res.Move != game.NoMove {
			// Previous best first
			i := slices.Index(moves, res.Move)
			copy(moves[1:i+1], moves[:i])
			moves[0] = res.Move
		}

		move, score, complete := m.root(b, moves, depth, true)
		if complete {
			res = Result{Move: move, Score: score, Depth: depth}
			continue
		}
		if depth == 1 {
			if move == game.NoMove {
				move = moves[m.rng.Intn(len(moves))]
			}
			m.metrics.SetFallback()
			log.Warn().Msgf("minimax budget exhausted before depth 1 completed, playing %s", move)
			res = Result{Move: move, Score: score}
		}
		break
	}
	return res
}

// exhausted reports whether the deadline, node limit or context has run out.
func (m *Minimax) exhausted() bool {
	if m.ctx.Err() != nil {
		return true
	}
	if !m.deadline.IsZero() && !time.Now().Before(m.deadline) {
		return true
	}
	return m.nodeLimit > 0 && m.nodes >= m.nodeLimit
}

// root searches every root move to depth. With budgeted set, the budget is
// checked before each root move and complete is false when it ran out. The
// first move to reach the best score wins ties.
func (m *Minimax) root(b *game.Board, moves []game.Move, depth int, budgeted bool) (best game.Move, bestScore int, complete bool) {
	m.nodes++
	alpha := -valueInfinity
	bestScore = -valueInfinity
	for _, move := range moves {
		if budgeted && m.exhausted() {
			return best, bestScore, false
		}
		b.MakeMove(move)
		score := -m.negamax(b, depth-1, 1, -valueInfinity, -alpha)
		b.Undo()
		if score > bestScore {
			best, bestScore = move, score
			alpha = max(alpha, score)
		}
	}
	return best, bestScore, true
}

func (m *Minimax) negamax(b *game.Board, depth, ply, alpha, beta int) int {
	m.nodes++
	moves := b.LegalMoves()
	if len(moves) == 0 {
		if b.IsInCheck(b.SideToMove()) {
			return -valueMate + ply // Prefer faster mates
		}
		return 0
	}
	if b.IsDraw() {
		return 0
	}
	if depth == 0 {
		return m.evaluate(b)
	}

	best := -valueInfinity
	for _, move := range m.order(b, moves) {
		b.MakeMove(move)
		score := -m.negamax(b, depth-1, ply+1, -beta, -alpha)
		b.Undo()
		if score > best {
			best = score
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
	}
	return best
}

// order keeps generation order except under beam search, where moves are
// ranked by a one-ply evaluation and only the top beamWidth survive.
func (m *Minimax) order(b *game.Board, moves []game.Move) []game.Move {
	if m.variant != Beam || len(moves) <= 1 {
		return moves
	}
	type scored struct {
		move  game.Move
		score int
	}
	ranked := make([]scored, len(moves))
	for i, move := range moves {
		b.MakeMove(move)
		ranked[i] = scored{move: move, score: -m.evaluate(b)}
		b.Undo()
	}
	slices.SortStableFunc(ranked, func(x, y scored) int {
		return cmp.Compare(y.score, x.score)
	})
	if len(ranked) > m.beamWidth {
		ranked = ranked[:m.beamWidth]
	}
	kept := make([]game.Move, len(ranked))
	for i, r := range ranked {
		kept[i] = r.move
	}
	return kept
}
