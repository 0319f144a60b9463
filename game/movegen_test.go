package game

import (
	"sort"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

var testPositions = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
}

func uciMoves(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func oracleMoves(t *testing.T, fen string) []string {
	opt, err := chess.FEN(fen)
	require.NoError(t, err)
	g := chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))
	pos := g.Position()
	var out []string
	for _, m := range g.ValidMoves() {
		out = append(out, chess.UCINotation{}.Encode(pos, m))
	}
	sort.Strings(out)
	return out
}

func perft(b *Board, depth int) int {
	moves := b.LegalMoves()
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		b.MakeMove(m)
		nodes += perft(b, depth-1)
		b.Undo()
	}
	return nodes
}

func TestLegalMoves(t *testing.T) {
	t.Run("starting position has 20 moves", func(t *testing.T) {
		require.Len(t, NewBoard().LegalMoves(), 20)
	})

	t.Run("matches an independent move generator", func(t *testing.T) {
		for _, fen := range testPositions {
			b, err := FromFEN(fen)
			require.NoError(t, err)
			require.Equal(t, oracleMoves(t, fen), uciMoves(b.LegalMoves()), fen)
		}
	})

	t.Run("children match the oracle one ply deeper", func(t *testing.T) {
		b, err := FromFEN(testPositions[1])
		require.NoError(t, err)
		for _, m := range b.LegalMoves() {
			b.MakeMove(m)
			fen := b.FEN()
			require.Equal(t, oracleMoves(t, fen), uciMoves(b.LegalMoves()), "after %s", m)
			b.Undo()
		}
	})

	t.Run("no move leaves the own king attacked", func(t *testing.T) {
		for _, fen := range testPositions {
			b, err := FromFEN(fen)
			require.NoError(t, err)
			us := b.SideToMove()
			for _, m := range b.LegalMoves() {
				b.MakeMove(m)
				require.False(t, b.IsInCheck(us), "%s in %s", m, fen)
				b.Undo()
			}
		}
	})

	t.Run("gives check flag", func(t *testing.T) {
		b, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
		require.NoError(t, err)
		for _, m := range b.LegalMoves() {
			b.MakeMove(m)
			require.Equal(t, b.IsInCheck(Black), m.GivesCheck(), m.String())
			b.Undo()
		}
	})

	t.Run("promotion yields four roles", func(t *testing.T) {
		b, err := FromFEN("8/P7/8/8/8/8/8/k6K w - - 0 1")
		require.NoError(t, err)
		var promos []Role
		for _, m := range b.LegalMoves() {
			if m.From == NewSquare(0, 6) {
				promos = append(promos, m.Promotion)
			}
		}
		require.ElementsMatch(t, []Role{Queen, Rook, Bishop, Knight}, promos)
	})

	t.Run("castling blocked through attacked square", func(t *testing.T) {
		b, err := FromFEN("4k3/8/8/8/8/8/5r2/4K2R w K - 0 1")
		require.NoError(t, err)
		for _, m := range b.LegalMoves() {
			require.False(t, m.IsCastle(), m.String())
		}
	})
}

func TestPerft(t *testing.T) {
	tests := []struct {
		fen   string
		depth int
		nodes int
	}{
		{StartFEN, 3, 8902},
		{testPositions[1], 2, 2039},
		{testPositions[2], 3, 2812},
		{testPositions[3], 2, 264},
		{testPositions[4], 2, 1486},
		{testPositions[5], 2, 2079},
	}
	for _, tt := range tests {
		b, err := FromFEN(tt.fen)
		require.NoError(t, err)
		require.Equal(t, tt.nodes, perft(b, tt.depth), tt.fen)
	}
}

func TestIsAttacked(t *testing.T) {
	b, err := FromFEN("4k3/8/8/3n4/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	require.True(t, b.IsAttacked(NewSquare(0, 7), White), "rook covers the a-file")
	require.False(t, b.IsAttacked(NewSquare(1, 1), White))
	require.True(t, b.IsAttacked(NewSquare(4, 2), Black), "knight on d5 reaches e3")
	require.True(t, b.IsAttacked(NewSquare(3, 1), White), "king covers d2")
}
