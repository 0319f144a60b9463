package agent

import (
	"context"
	"slices"

	"chessagent/experiments/metrics"
	"chessagent/game"
	"chessagent/minimax"
)

type minimaxAgent struct {
	name    string
	variant minimax.Variant
	options []minimax.Option
}

// NewMinimaxAgent returns an agent running a fresh minimax search per move.
// Budget.MaxDepth overrides the depth, Budget.MaxDuration the
// iterative-deepening deadline.
func NewMinimaxAgent(name string, variant minimax.Variant, options ...minimax.Option) Agent {
	return minimaxAgent{name: name, variant: variant, options: options}
}

func (a minimaxAgent) Name() string {
	return a.name
}

func (a minimaxAgent) SelectMove(ctx context.Context, b *game.Board, budget Budget) (game.Move, metrics.SearchMetric, error) {
	options := slices.Clone(a.options)
	if budget.MaxDepth > 0 {
		options = append(options, minimax.WithDepth(budget.MaxDepth))
	}
	if budget.MaxDuration > 0 {
		options = append(options, minimax.WithDuration(budget.MaxDuration))
	}

	res, err := minimax.New(a.variant, options...).Search(ctx, b)
	if err != nil {
		return game.NoMove, metrics.SearchMetric{}, err
	}
	return res.Move, res.Metric, nil
}
