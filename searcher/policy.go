package searcher

import "math"

// Hyperparameters for MCTS

const Exploration = 1.41 // UCT exploration constant C
const RaveConstant = 300.0
const HistoryWeight = 1.0
const MaxCutoff = 100 // Rollout plies before falling back to evaluation

const WIN = 1.0   // Reward for winning outcome
const LOSS = -WIN // Reward for loss outcome (negate from opponent perspective)
const DRAW = 0.0

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

// explore is the bonus sqrt(c^2*ln(N)/n); unvisited children come first.
func (u uct) explore(n float64) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(u.numerator / n)
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + u.explore(n)
}

// historyBonus decays the shared history average h as the child's own
// visit count n grows.
func historyBonus(weight, n, h float64) float64 {
	return weight / (n + 1) * h
}

// raveBeta is sqrt(k/(3n+k)): 1 for an unvisited child, tending to 0.
func raveBeta(k, n float64) float64 {
	return math.Sqrt(k / (3*n + k))
}

func (u uct) rave(q, n, amaf, k float64) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	beta := raveBeta(k, n)
	return (1-beta)*q/n + beta*amaf + u.explore(n)
}
