package experiments

import (
	"fmt"
	"io"
	"time"

	"chessagent/engine"
	"chessagent/experiments/metrics"
	"chessagent/game"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/stat"
)

// Stats aggregates one agent's games across the tournament.
type Stats struct {
	Agent             metrics.AgentConfig
	Games             int
	Wins              int
	Losses            int
	Draws             int
	DrawsByRepetition int
	DrawsByMoves      int
	Stalemates        int
	AvgMoveTime       time.Duration
	AvgGameLength     float64 // Plies
	Throughput        float64 // Mean episodes or nodes per second
}

// Summarize returns per-agent statistics in config order.
func Summarize(r Results) []Stats {
	index := make(map[int]int, len(r.Configs))
	stats := make([]Stats, len(r.Configs))
	for i, c := range r.Configs {
		index[c.ID] = i
		stats[i].Agent = c
	}

	lengths := make([][]float64, len(stats))
	sides := make(map[int][2]int, len(r.Games)) // Game ID -> stats index of white, black
	for _, g := range r.Games {
		w, b := index[g.Agent1], index[g.Agent2]
		sides[g.ID] = [2]int{w, b}
		for _, i := range [2]int{w, b} {
			stats[i].Games++
			lengths[i] = append(lengths[i], float64(g.TotalMoves))
		}

		switch g.Winner {
		case game.White.String():
			stats[w].Wins++
			stats[b].Losses++
		case game.Black.String():
			stats[b].Wins++
			stats[w].Losses++
		default:
			for _, i := range [2]int{w, b} {
				stats[i].Draws++
				switch g.Status {
				case game.DrawRepetition.String():
					stats[i].DrawsByRepetition++
				case engine.DrawByMoves:
					stats[i].DrawsByMoves++
				case game.Stalemate.String():
					stats[i].Stalemates++
				}
			}
		}
	}

	times := make([][]float64, len(stats))
	rates := make([][]float64, len(stats))
	for _, m := range r.Moves {
		s, ok := sides[m.Game]
		if !ok {
			continue
		}
		i := s[0]
		if m.Side == game.Black.String() {
			i = s[1]
		}
		times[i] = append(times[i], float64(m.Duration))
		if rate, ok := workRate(m.SearchMetric); ok {
			rates[i] = append(rates[i], rate)
		}
	}

	for i := range stats {
		if len(times[i]) > 0 {
			stats[i].AvgMoveTime = time.Duration(stat.Mean(times[i], nil))
		}
		if len(lengths[i]) > 0 {
			stats[i].AvgGameLength = stat.Mean(lengths[i], nil)
		}
		if len(rates[i]) > 0 {
			stats[i].Throughput = stat.Mean(rates[i], nil)
		}
	}
	return stats
}

// Print writes a colored results table to w.
func Print(w io.Writer, stats []Stats) {
	header := color.New(color.Bold, color.FgCyan)
	win := color.New(color.FgGreen)
	loss := color.New(color.FgRed)

	header.Fprintf(w, "\n=== Strategy Comparison Results ===\n\n")
	header.Fprintf(w, "%-24s %5s %5s %5s %5s %5s %5s %5s %12s %8s %10s\n",
		"Agent", "Games", "Wins", "Loss", "Draws", "Rep", "Cap", "Stale", "Avg move", "Avg len", "Work/s")
	for _, s := range stats {
		fmt.Fprintf(w, "%-24s %5d ", s.Agent.Name, s.Games)
		win.Fprintf(w, "%5d ", s.Wins)
		loss.Fprintf(w, "%5d ", s.Losses)
		fmt.Fprintf(w, "%5d %5d %5d %5d %12s %8.1f %10.0f\n",
			s.Draws, s.DrawsByRepetition, s.DrawsByMoves, s.Stalemates,
			s.AvgMoveTime.Round(time.Millisecond), s.AvgGameLength, s.Throughput)
	}
}
