package game

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// CastleRights is a bit set of the four castling permissions.
type CastleRights uint8

const (
	WhiteKingside CastleRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	AllCastleRights = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Board is the full, mutable game state. Search explores it in place with
// MakeMove/Undo pairs; every Undo restores the previous state exactly.
type Board struct {
	squares  [64]Piece
	turn     Side
	castling CastleRights
	epSquare Square
	halfmove int // Plies since the last capture or pawn move
	fullmove int
	kings    [2]Square
	key      uint64
	history  []uint64 // Signatures of all positions reached, current last
	undo     []undoState
}

type undoState struct {
	move     Move
	captured Piece
	castling CastleRights
	epSquare Square
	halfmove int
	fullmove int
	key      uint64
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone returns an independent deep copy, including history and undo stack.
func (b *Board) Clone() *Board {
	c := *b
	c.history = append(make([]uint64, 0, cap(b.history)), b.history...)
	c.undo = append(make([]undoState, 0, cap(b.undo)), b.undo...)
	return &c
}

func (b *Board) SideToMove() Side {
	return b.turn
}

func (b *Board) PieceAt(sq Square) Piece {
	return b.squares[sq]
}

func (b *Board) CastleRights() CastleRights {
	return b.castling
}

// EnPassantSquare is the square a pawn may capture onto en passant, or SquareNone.
func (b *Board) EnPassantSquare() Square {
	return b.epSquare
}

func (b *Board) HalfmoveClock() int {
	return b.halfmove
}

func (b *Board) FullmoveNumber() int {
	return b.fullmove
}

// Signature is the zobrist key of the position: placement, side to move,
// castling rights and en passant square.
func (b *Board) Signature() uint64 {
	return b.key
}

// Ply is the number of moves applied since the board was created.
func (b *Board) Ply() int {
	return len(b.undo)
}

// LastMove returns the most recently applied move, or NoMove.
func (b *Board) LastMove() Move {
	if len(b.undo) == 0 {
		return NoMove
	}
	return b.undo[len(b.undo)-1].move
}

func (b *Board) occupied(sq Square) bool {
	return !b.squares[sq].IsEmpty()
}

// checkKings panics when the cached king squares do not hold the kings.
func (b *Board) checkKings() {
	for _, side := range [2]Side{White, Black} {
		sq := b.kings[side]
		if sq == SquareNone || b.squares[sq] != (Piece{Side: side, Role: King}) {
			panic(fmt.Errorf("%w: %s king missing from %s", ErrMalformedBoard, side, sq))
		}
	}
}

// String renders an 8x8 diagram with rank 8 on top, for debugging.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sb.WriteByte(b.squares[NewSquare(file, rank)].Char())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh\n")
	return sb.String()
}

var (
	pieceKeys    [2][7][64]uint64
	castlingKeys [16]uint64
	epKeys       [8]uint64
	sideKey      uint64
	castleMask   [64]CastleRights
)

func (b *Board) computeKey() uint64 {
	var key uint64
	for sq, p := range b.squares {
		if !p.IsEmpty() {
			key ^= pieceKeys[p.Side][p.Role][sq]
		}
	}
	key ^= castlingKeys[b.castling]
	if b.epSquare != SquareNone {
		key ^= epKeys[b.epSquare.File()]
	}
	if b.turn == Black {
		key ^= sideKey
	}
	return key
}

func init() {
	r := rand.New(rand.NewSource(0))
	for side := range pieceKeys {
		for role := range pieceKeys[side] {
			for sq := range pieceKeys[side][role] {
				pieceKeys[side][role][sq] = r.Uint64()
			}
		}
	}
	for i := range castlingKeys {
		castlingKeys[i] = r.Uint64()
	}
	for i := range epKeys {
		epKeys[i] = r.Uint64()
	}
	sideKey = r.Uint64()

	for i := range castleMask {
		castleMask[i] = AllCastleRights
	}
	castleMask[A1] &^= WhiteQueenside
	castleMask[E1] &^= WhiteQueenside | WhiteKingside
	castleMask[H1] &^= WhiteKingside
	castleMask[A8] &^= BlackQueenside
	castleMask[E8] &^= BlackQueenside | BlackKingside
	castleMask[H8] &^= BlackKingside
}
