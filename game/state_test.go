package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeMoveUndo(t *testing.T) {
	t.Run("undo restores every field", func(t *testing.T) {
		for _, fen := range testPositions {
			b, err := FromFEN(fen)
			require.NoError(t, err)
			for _, m := range b.LegalMoves() {
				before := b.Clone()
				b.MakeMove(m)
				require.Equal(t, b.computeKey(), b.Signature(), "incremental key after %s", m)
				b.Undo()
				require.Equal(t, before, b, "%s in %s", m, fen)
			}
		}
	})

	t.Run("castling moves the rook", func(t *testing.T) {
		b, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		require.NoError(t, err)
		m, err := b.ParseMove("e1g1")
		require.NoError(t, err)
		require.True(t, m.IsCastle())

		b.MakeMove(m)
		require.Equal(t, Piece{White, Rook}, b.PieceAt(NewSquare(5, 0)))
		require.True(t, b.PieceAt(H1).IsEmpty())
		require.Equal(t, BlackKingside|BlackQueenside, b.CastleRights())
	})

	t.Run("en passant removes the passed pawn", func(t *testing.T) {
		b, err := FromFEN(testPositions[6])
		require.NoError(t, err)
		require.NoError(t, b.Apply(Move{From: NewSquare(4, 4), To: NewSquare(5, 5)}))
		require.True(t, b.PieceAt(NewSquare(5, 4)).IsEmpty())
		require.Equal(t, Piece{White, Pawn}, b.PieceAt(NewSquare(5, 5)))
		require.Equal(t, 0, b.HalfmoveClock())
	})

	t.Run("double push sets a capturable en passant square", func(t *testing.T) {
		b := NewBoard()
		play(t, b, "e2e4", "d7d5", "e4e5", "f7f5")
		require.Equal(t, NewSquare(5, 5), b.EnPassantSquare())
		require.Equal(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", b.FEN())
	})

	t.Run("double push without an adjacent pawn leaves no target", func(t *testing.T) {
		b := NewBoard()
		require.NoError(t, b.Apply(Move{From: NewSquare(4, 1), To: NewSquare(4, 3)}))
		require.Equal(t, SquareNone, b.EnPassantSquare())
		require.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", b.FEN())
	})

	t.Run("apply rejects illegal moves", func(t *testing.T) {
		b := NewBoard()
		err := b.Apply(Move{From: NewSquare(4, 1), To: NewSquare(4, 4)})
		require.True(t, errors.Is(err, ErrIllegalMove))
		require.Equal(t, StartFEN, b.FEN())
	})

	t.Run("undo on fresh board panics", func(t *testing.T) {
		require.Panics(t, func() {
			NewBoard().Undo()
		})
	})

	t.Run("clone is independent", func(t *testing.T) {
		b := NewBoard()
		c := b.Clone()
		c.MakeMove(c.LegalMoves()[0])
		require.Equal(t, StartFEN, b.FEN())
		require.Equal(t, 0, b.Ply())
		require.Equal(t, 1, c.Ply())
	})
}

func TestFEN(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, fen := range testPositions {
			b, err := FromFEN(fen)
			require.NoError(t, err)
			require.Equal(t, fen, b.FEN())
		}
	})

	t.Run("rejects malformed records", func(t *testing.T) {
		tests := []struct {
			name string
			fen  string
			err  error
		}{
			{"too few fields", "8/8/8/8/8/8/8/8 w", ErrInvalidFEN},
			{"bad piece", "4k3/8/8/8/8/8/8/4K2X w - - 0 1", ErrInvalidFEN},
			{"short rank", "4k3/8/8/8/8/8/8/4K2 w - - 0 1", ErrInvalidFEN},
			{"missing king", "8/8/8/8/8/8/8/4K3 w - - 0 1", ErrMalformedBoard},
			{"two kings", "4k2k/8/8/8/8/8/8/4K3 w - - 0 1", ErrMalformedBoard},
			{"capturable king", "4k3/8/8/8/8/8/8/4R1K1 w - - 0 1", ErrMalformedBoard},
			{"pawn on last rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", ErrMalformedBoard},
			{"en passant without passed pawn", "4k3/8/8/3PN3/8/8/8/4K3 w - e6 0 1", ErrInvalidFEN},
			{"en passant on the wrong rank", "4k3/8/8/3Pp3/8/8/8/4K3 w - e5 0 1", ErrInvalidFEN},
			{"en passant for the side to move", "4k3/8/8/3Pp3/8/8/8/4K3 b - e6 0 1", ErrInvalidFEN},
			{"en passant target occupied", "4k3/8/4n3/3Pp3/8/8/8/4K3 w - e6 0 1", ErrInvalidFEN},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := FromFEN(tt.fen)
				require.ErrorIs(t, err, tt.err)
			})
		}
	})

	t.Run("drops en passant targets no pawn can take", func(t *testing.T) {
		b, err := FromFEN("4k3/8/8/4p3/8/8/8/4K3 w - e6 0 1")
		require.NoError(t, err)
		require.Equal(t, SquareNone, b.EnPassantSquare())
		c, err := FromFEN("4k3/8/8/4p3/8/8/8/4K3 w - - 0 1")
		require.NoError(t, err)
		require.Equal(t, c.Signature(), b.Signature())
	})

	t.Run("drops castling rights without rook", func(t *testing.T) {
		b, err := FromFEN("4k3/8/8/8/8/8/8/4K3 w KQkq - 0 1")
		require.NoError(t, err)
		require.Equal(t, CastleRights(0), b.CastleRights())
	})
}

func TestMaterial(t *testing.T) {
	b, err := FromFEN("4k3/8/8/8/8/8/8/QR2K3 b - - 0 1")
	require.NoError(t, err)
	require.Equal(t, 14, MaterialFor(b, White))
	require.Equal(t, 0, MaterialFor(b, Black))
	require.Equal(t, -14, Material(b))
	require.InDelta(t, -1.0, MaterialBalance(b), 1e-9)
	require.Equal(t, 0, Material(NewBoard()))
	require.InDelta(t, 0.0, MaterialBalance(NewBoard()), 1e-9)
}
