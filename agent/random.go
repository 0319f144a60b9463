package agent

import (
	"context"
	"fmt"

	"chessagent/experiments/metrics"
	"chessagent/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	name string
	rng  *rand.Rand
}

// NewRandomAgent returns a baseline that plays a uniformly random legal move.
func NewRandomAgent(name string, rng *rand.Rand) Agent {
	if rng == nil {
		panic("random agent needs a source of randomness")
	}
	return randomAgent{name: name, rng: rng}
}

func (a randomAgent) Name() string {
	return a.name
}

func (a randomAgent) SelectMove(_ context.Context, b *game.Board, _ Budget) (game.Move, metrics.SearchMetric, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return game.NoMove, metrics.SearchMetric{}, fmt.Errorf("%w: %s", game.ErrNoLegalMoves, b.FEN())
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{Algorithm: "random"}, nil
}
