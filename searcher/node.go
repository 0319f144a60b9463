package searcher

import (
	"chessagent/game"

	"golang.org/x/exp/rand"
)

// stat accumulates visits and rewards from the perspective of the side that
// played a move.
type stat struct {
	visits  float64
	rewards float64
}

func (s stat) mean() float64 {
	if s.visits == 0 {
		return 0
	}
	return s.rewards / s.visits
}

type node struct {
	move     game.Move // Move that produced this node, NoMove at the root
	mover    game.Side // Side that played move
	parent   int       // Index into the arena, -1 at the root
	children []int
	untried  []game.Move
	terminal bool
	visits   float64
	rewards  float64
	amaf     map[game.MoveKey]*stat // Later moves by the side to move here
}

// tree is an arena of nodes. Index 0 is the root; dropping the slice
// discards the whole tree.
type tree struct {
	nodes   []node
	history map[historyKey]*stat // Tree-wide progressive history table
}

// historyKey separates the two sides' moves between the same squares.
type historyKey struct {
	mover game.Side
	move  game.MoveKey
}

func newTree(b *game.Board, rng *rand.Rand) *tree {
	t := &tree{
		nodes:   make([]node, 0, 1024),
		history: make(map[historyKey]*stat),
	}
	t.add(-1, game.NoMove, b.SideToMove().Opponent(), b, rng)
	return t
}

// add appends a node for the position currently on b.
func (t *tree) add(parent int, move game.Move, mover game.Side, b *game.Board, rng *rand.Rand) int {
	untried := b.LegalMoves()
	rng.Shuffle(len(untried), func(i, j int) {
		untried[i], untried[j] = untried[j], untried[i]
	})
	t.nodes = append(t.nodes, node{
		move:     move,
		mover:    mover,
		parent:   parent,
		untried:  untried,
		terminal: len(untried) == 0 || b.IsDraw(),
	})
	id := len(t.nodes) - 1
	if parent >= 0 {
		t.nodes[parent].children = append(t.nodes[parent].children, id)
	}
	return id
}

func (n *node) isFullyExpanded() bool {
	return len(n.untried) == 0
}

func (n *node) amafStat(key game.MoveKey) stat {
	if s, ok := n.amaf[key]; ok {
		return *s
	}
	return stat{}
}

func (t *tree) historyStat(mover game.Side, move game.MoveKey) stat {
	if s, ok := t.history[historyKey{mover: mover, move: move}]; ok {
		return *s
	}
	return stat{}
}

// Policy returns the visit count of every expanded root move.
func (t *tree) Policy() map[game.Move]float64 {
	root := &t.nodes[0]
	policy := make(map[game.Move]float64, len(root.children))
	for _, c := range root.children {
		policy[t.nodes[c].move] = t.nodes[c].visits
	}
	return policy
}

// robustChild returns the most visited root child, ties broken by the
// higher average reward, or -1 when the root has no children.
func (t *tree) robustChild() int {
	best := -1
	for _, c := range t.nodes[0].children {
		if best < 0 {
			best = c
			continue
		}
		cn, bn := &t.nodes[c], &t.nodes[best]
		if cn.visits > bn.visits || (cn.visits == bn.visits && cn.rewards/cn.visits > bn.rewards/bn.visits) {
			best = c
		}
	}
	return best
}
