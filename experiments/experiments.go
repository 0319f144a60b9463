// Package experiments runs round-robin tournaments between configured
// agents and records the results.
package experiments

import (
	"context"
	"fmt"

	"chessagent/agent"
	"chessagent/config"
	"chessagent/engine"
	"chessagent/experiments/metrics"
	"chessagent/minimax"
	"chessagent/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Results struct {
	Configs []metrics.AgentConfig
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
}

type matchUp struct {
	white, black config.Agent
}

// pairings returns every unordered pair once, the earlier agent playing white.
func pairings(agents []config.Agent) []matchUp {
	var matchUps []matchUp
	for i := range agents {
		for j := i + 1; j < len(agents); j++ {
			matchUps = append(matchUps, matchUp{white: agents[i], black: agents[j]})
		}
	}
	return matchUps
}

type gameResult struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

// Run plays cfg.Games games per pairing, cfg.Parallel at a time. Each game
// owns its board and agents.
func Run(ctx context.Context, cfg config.Tournament) (Results, error) {
	matchUps := pairings(cfg.Agents)
	total := len(matchUps) * cfg.Games
	results := make([]gameResult, total)

	log.Info().Msgf("starting tournament of %d agents, %d games...", len(cfg.Agents), total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for mi, m := range matchUps {
		m := m
		for i := 0; i < cfg.Games; i++ {
			id := mi*cfg.Games + i + 1
			g.Go(func() error {
				r, err := runGame(ctx, id, m, cfg)
				if err != nil {
					return fmt.Errorf("game %d %s vs %s: %w", id, m.white.Name, m.black.Name, err)
				}
				results[id-1] = r
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}
	log.Info().Msgf("completed tournament")

	out := Results{Configs: agentConfigs(cfg.Agents)}
	for _, r := range results {
		out.Games = append(out.Games, r.game)
		out.Moves = append(out.Moves, r.moves...)
	}
	return out, nil
}

func runGame(ctx context.Context, id int, m matchUp, cfg config.Tournament) (gameResult, error) {
	log.Info().Msgf("starting game %d: %s (white) vs %s (black)...", id, m.white.Name, m.black.Name)

	// Distinct, reproducible streams per game and side
	seed := cfg.Seed + uint64(id)*2
	white, err := createAgent(m.white, rand.New(rand.NewSource(seed)))
	if err != nil {
		return gameResult{}, err
	}
	black, err := createAgent(m.black, rand.New(rand.NewSource(seed+1)))
	if err != nil {
		return gameResult{}, err
	}

	e := engine.LocalEngine(white, black, cfg.MaxMoves)
	gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return gameResult{}, err
	}

	r := gameResult{game: metrics.GameRecord{
		ID:         id,
		Agent1:     m.white.ID,
		Agent2:     m.black.ID,
		GameMetric: gameMetric,
	}}
	for _, mm := range moveMetrics {
		r.moves = append(r.moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
	}
	log.Info().Msgf("completed game %d: %s %s", id, gameMetric.Status, gameMetric.Winner)
	return r, nil
}

func createAgent(cfg config.Agent, rng *rand.Rand) (agent.Agent, error) {
	switch cfg.Kind {
	case config.KindMinimax:
		variant, err := minimax.ParseVariant(cfg.Variant)
		if err != nil {
			return nil, err
		}
		options := []minimax.Option{
			minimax.WithDepth(cfg.Depth),
			minimax.WithBeamWidth(cfg.BeamWidth),
			minimax.WithDuration(cfg.Duration),
			minimax.WithRand(rng),
			minimax.WithMetrics(),
		}
		return agent.NewMinimaxAgent(cfg.Name, variant, options...), nil

	case config.KindMCTS:
		variant, err := searcher.ParseVariant(cfg.Variant)
		if err != nil {
			return nil, err
		}
		options := []searcher.Option{
			searcher.WithEpisodes(cfg.Episodes),
			searcher.WithDuration(cfg.Duration),
			searcher.WithCutoff(cfg.Cutoff),
			searcher.WithRand(rng),
			searcher.WithMetrics(),
		}
		if cfg.Exploration > 0 {
			options = append(options, searcher.WithExploration(cfg.Exploration))
		}
		if cfg.Temperature > 0 {
			return agent.NewSamplingMCTSAgent(cfg.Name, variant, cfg.Temperature, rng, options...), nil
		}
		return agent.NewMCTSAgent(cfg.Name, variant, options...), nil

	case config.KindRandom:
		return agent.NewRandomAgent(cfg.Name, rng), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", cfg.Kind)
}

func agentConfigs(agents []config.Agent) []metrics.AgentConfig {
	configs := make([]metrics.AgentConfig, len(agents))
	for i, a := range agents {
		configs[i] = metrics.AgentConfig{
			ID:          a.ID,
			Name:        a.Name,
			Kind:        a.Kind,
			Variant:     a.Variant,
			Depth:       a.Depth,
			BeamWidth:   a.BeamWidth,
			Episodes:    a.Episodes,
			Duration:    a.Duration,
			Cutoff:      a.Cutoff,
			Exploration: a.Exploration,
			Temperature: a.Temperature,
		}
	}
	return configs
}

// Store writes the agent configs, game records and move records as CSV.
func Store(dir string, r Results) (string, error) {
	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(r.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(r.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(r.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
