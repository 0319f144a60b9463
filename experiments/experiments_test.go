package experiments

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"chessagent/agent"
	"chessagent/config"
	"chessagent/engine"
	"chessagent/experiments/metrics"
	"chessagent/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func smallTournament() config.Tournament {
	return config.Tournament{
		MaxMoves: 4,
		Games:    2,
		Seed:     7,
		Parallel: 2,
		Agents: []config.Agent{
			{ID: 1, Name: "quick minimax", Kind: config.KindMinimax, Variant: "standard", Depth: 1},
			{ID: 2, Name: "quick rave", Kind: config.KindMCTS, Variant: "rave", Episodes: 20, Cutoff: 5},
			{ID: 3, Name: "random", Kind: config.KindRandom},
		},
	}
}

func TestPairings(t *testing.T) {
	matchUps := pairings(config.Default().Agents)
	require.Len(t, matchUps, 15)
	for _, m := range matchUps {
		require.Less(t, m.white.ID, m.black.ID)
	}
}

func TestCreateAgent(t *testing.T) {
	for _, a := range config.Default().Agents {
		t.Run(a.Name, func(t *testing.T) {
			created, err := createAgent(a, rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			require.Equal(t, a.Name, created.Name())
		})
	}

	t.Run("sampling mcts", func(t *testing.T) {
		cfg := config.Agent{Name: "sampler", Kind: config.KindMCTS, Variant: "uct", Episodes: 30, Temperature: 1}
		created, err := createAgent(cfg, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		b := game.NewBoard()
		move, metric, err := created.SelectMove(context.Background(), b, agent.Budget{})
		require.NoError(t, err)
		require.Contains(t, b.LegalMoves(), move)
		require.Equal(t, 30, metric.Episodes)
		require.Equal(t, game.StartFEN, b.FEN())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := createAgent(config.Agent{Name: "x", Kind: "chess960"}, nil)
		require.Error(t, err)
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := createAgent(config.Agent{Name: "x", Kind: config.KindMinimax, Variant: "alphazero"}, nil)
		require.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	cfg := smallTournament()
	r, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, r.Configs, 3)
	require.Len(t, r.Games, 6)
	for i, g := range r.Games {
		require.Equal(t, i+1, g.ID)
		require.Less(t, g.Agent1, g.Agent2)
		require.LessOrEqual(t, g.TotalMoves, cfg.MaxMoves)
		require.NotEmpty(t, g.Status)
	}

	perGame := map[int]int{}
	for _, m := range r.Moves {
		perGame[m.Game]++
		require.NotEmpty(t, m.Move)
	}
	for _, g := range r.Games {
		require.Equal(t, g.TotalMoves, perGame[g.ID])
	}

	t.Run("summary", func(t *testing.T) {
		stats := Summarize(r)
		require.Len(t, stats, 3)
		for _, s := range stats {
			require.Equal(t, 4, s.Games)
			require.Equal(t, s.Games, s.Wins+s.Losses+s.Draws)
			require.Positive(t, s.AvgGameLength)
		}

		var out bytes.Buffer
		Print(&out, stats)
		for _, a := range cfg.Agents {
			require.Contains(t, out.String(), a.Name)
		}
	})

	t.Run("store", func(t *testing.T) {
		dir, err := Store(t.TempDir(), r)
		require.NoError(t, err)
		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(dir, name))
			require.NoError(t, err, name)
		}
	})
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, smallTournament())
	require.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	r := Results{
		Configs: []metrics.AgentConfig{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		Games: []metrics.GameRecord{
			{ID: 1, Agent1: 1, Agent2: 2, GameMetric: metrics.GameMetric{Status: game.Checkmate.String(), Winner: game.White.String(), TotalMoves: 3}},
			{ID: 2, Agent1: 1, Agent2: 2, GameMetric: metrics.GameMetric{Status: engine.DrawByMoves, TotalMoves: 5}},
			{ID: 3, Agent1: 2, Agent2: 1, GameMetric: metrics.GameMetric{Status: game.DrawRepetition.String(), TotalMoves: 10}},
		},
		Moves: []metrics.MoveRecord{
			{Game: 1, MoveMetric: metrics.MoveMetric{Side: "white", SearchMetric: metrics.SearchMetric{Duration: 2e9, Nodes: 100}}},
			{Game: 1, MoveMetric: metrics.MoveMetric{Side: "black", SearchMetric: metrics.SearchMetric{Duration: 1e9, Episodes: 30}}},
			{Game: 3, MoveMetric: metrics.MoveMetric{Side: "white", SearchMetric: metrics.SearchMetric{Duration: 1e9, Episodes: 10}}},
		},
	}

	stats := Summarize(r)
	a, b := stats[0], stats[1]
	require.Equal(t, 3, a.Games)
	require.Equal(t, 1, a.Wins)
	require.Equal(t, 1, b.Losses)
	require.Equal(t, 2, a.Draws)
	require.Equal(t, 1, a.DrawsByMoves)
	require.Equal(t, 1, b.DrawsByRepetition)
	require.InDelta(t, 6.0, a.AvgGameLength, 1e-9)
	require.InDelta(t, 50.0, a.Throughput, 1e-9)
	require.InDelta(t, 20.0, b.Throughput, 1e-9)
	require.Equal(t, int64(1e9), int64(b.AvgMoveTime))
}

func TestWorkRate(t *testing.T) {
	_, ok := workRate(metrics.SearchMetric{})
	require.False(t, ok)
	rate, ok := workRate(metrics.SearchMetric{Duration: 5e8, Episodes: 10})
	require.True(t, ok)
	require.InDelta(t, 20.0, rate, 1e-9)
}
