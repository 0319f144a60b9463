// Package agent wraps the searchers behind a single move-selection interface.
package agent

import (
	"context"
	"time"

	"chessagent/experiments/metrics"
	"chessagent/game"
)

// Budget limits one move selection. Zero fields leave the agent's own
// configuration in place; each agent honors the fields that apply to it.
type Budget struct {
	MaxDepth       int
	MaxSimulations int
	MaxDuration    time.Duration
}

type Agent interface {
	// SelectMove returns a move from b.LegalMoves() and the metrics of the
	// search that found it. b is unchanged when SelectMove returns. It fails
	// with game.ErrNoLegalMoves on a terminal position.
	SelectMove(ctx context.Context, b *game.Board, budget Budget) (game.Move, metrics.SearchMetric, error)
	Name() string
}
