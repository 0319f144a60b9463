package experiments

import "chessagent/experiments/metrics"

// workRate is the search work per second of one move: episodes for MCTS,
// nodes for minimax. Moves without recorded work report false.
func workRate(m metrics.SearchMetric) (float64, bool) {
	if m.Duration <= 0 {
		return 0, false
	}
	work := m.Episodes
	if m.Nodes > 0 {
		work = m.Nodes
	}
	if work == 0 {
		return 0, false
	}
	return float64(work) / m.Duration.Seconds(), true
}
