package agent

import (
	"cmp"
	"context"
	"math"
	"slices"

	"chessagent/experiments/metrics"
	"chessagent/game"
	"chessagent/searcher"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

type mctsAgent struct {
	name        string
	variant     searcher.Variant
	options     []searcher.Option
	temperature float64 // 0 plays the robust child
	rng         *rand.Rand
}

// NewMCTSAgent returns an agent that plays the robust child of a fresh tree
// per move. Budget.MaxSimulations and Budget.MaxDuration override the
// episode and duration options.
func NewMCTSAgent(name string, variant searcher.Variant, options ...searcher.Option) Agent {
	return mctsAgent{name: name, variant: variant, options: options}
}

// NewSamplingMCTSAgent samples its move from the root visit counts raised to
// 1/temperature instead of playing the robust child.
func NewSamplingMCTSAgent(name string, variant searcher.Variant, temperature float64, rng *rand.Rand, options ...searcher.Option) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return mctsAgent{name: name, variant: variant, options: options, temperature: temperature, rng: rng}
}

func (a mctsAgent) Name() string {
	return a.name
}

func (a mctsAgent) SelectMove(ctx context.Context, b *game.Board, budget Budget) (game.Move, metrics.SearchMetric, error) {
	options := slices.Clone(a.options)
	if budget.MaxSimulations > 0 {
		options = append(options, searcher.WithEpisodes(budget.MaxSimulations))
	}
	if budget.MaxDuration > 0 {
		options = append(options, searcher.WithDuration(budget.MaxDuration))
	}

	res, err := searcher.New(a.variant, options...).Search(ctx, b)
	if err != nil {
		return game.NoMove, metrics.SearchMetric{}, err
	}
	if a.temperature == 0 || len(res.Policy) == 0 {
		return res.Move, res.Metric, nil
	}
	return sample(adjustTemperature(res.Policy, a.temperature), a.rng), res.Metric, nil
}

type weighted struct {
	move game.Move
	prob float64
}

// adjustTemperature returns move probabilities proportional to
// visits^(1/temperature), ordered by UCI string so sampling is reproducible.
func adjustTemperature(policy map[game.Move]float64, temperature float64) []weighted {
	exponent := 1.0 / temperature
	adjusted := make([]weighted, 0, len(policy))
	probs := make([]float64, 0, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		adjusted = append(adjusted, weighted{move: move, prob: prob})
		probs = append(probs, prob)
	}
	sum := floats.Sum(probs)
	for i := range adjusted {
		adjusted[i].prob /= sum
	}
	slices.SortFunc(adjusted, func(x, y weighted) int {
		return cmp.Compare(x.move.String(), y.move.String())
	})
	return adjusted
}

func sample(policy []weighted, rng *rand.Rand) game.Move {
	sampled := rng.Float64()
	cumulative := 0.0
	var lastMove game.Move
	for _, w := range policy {
		lastMove = w.move
		cumulative += w.prob
		if sampled < cumulative {
			return w.move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
