package engine

import (
	"context"
	"fmt"
	"time"

	"chessagent/agent"
	"chessagent/experiments/metrics"
	"chessagent/game"

	"github.com/rs/zerolog/log"
)

type Engine struct {
	Board    *game.Board
	Agents   [2]agent.Agent // Indexed by game.Side
	Budget   agent.Budget
	MaxMoves int
}

// LocalEngine sets up a game from the standard starting position.
func LocalEngine(white, black agent.Agent, maxMoves int) *Engine {
	if white == nil || black == nil {
		panic("need an agent for each side")
	}
	if maxMoves <= 0 {
		maxMoves = MaxMoves
	}
	return &Engine{
		Board:    game.NewBoard(),
		Agents:   [2]agent.Agent{white, black},
		MaxMoves: maxMoves,
	}
}

// Run plays until the position is terminal or MaxMoves plies have been
// played. A checkmate or draw reached on the last allowed ply is reported as
// such rather than as a move-cap draw.
func (e *Engine) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		White:     e.Agents[game.White].Name(),
		Black:     e.Agents[game.Black].Name(),
		StartTime: time.Now(),
	}
	log.Info().Msgf("%s (white) vs %s (black) is starting", gameMetric.White, gameMetric.Black)

	var moveMetrics []metrics.MoveMetric
	for ply := 0; ; ply++ {
		if status := e.Board.Status(); status != game.Ongoing {
			gameMetric.Status = status.String()
			if winner, ok := e.Board.Winner(); ok {
				gameMetric.Winner = winner.String()
			}
			break
		}
		if ply >= e.MaxMoves {
			gameMetric.Status = DrawByMoves
			break
		}
		if err := ctx.Err(); err != nil {
			return gameMetric, moveMetrics, err
		}

		side := e.Board.SideToMove()
		a := e.Agents[side]
		start := time.Now()
		move, searchMetric, err := a.SelectMove(ctx, e.Board, e.Budget)
		if err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("%s failed to select a move: %w", a.Name(), err)
		}
		searchMetric.Duration = time.Since(start)

		if err := e.Board.Apply(move); err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("%s: %w", a.Name(), err)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         ply + 1,
			Side:         side.String(),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("ply %d: %s (%s) plays %s in %s", ply+1, a.Name(), side, move, searchMetric.Duration)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	log.Info().Msgf("game over after %d plies: %s %s", gameMetric.TotalMoves, gameMetric.Status, gameMetric.Winner)
	return gameMetric, moveMetrics, nil
}
