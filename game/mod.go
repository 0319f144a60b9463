// Package game models a standard chess position: pieces, squares, moves,
// legal move generation under check constraints, reversible move
// application and terminal-state detection.
package game

// Side identifies one of the two players.
type Side int8

const (
	White Side = iota // First player to move
	Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return s ^ 1
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Role is the kind of a chess piece.
type Role int8

const (
	NoRole Role = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (r Role) String() string {
	return [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}[r]
}

// Piece is an immutable side/role pair. The zero value is an empty square.
type Piece struct {
	Side Side
	Role Role
}

// NoPiece marks an empty square.
var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Role == NoRole
}

// Char returns the FEN letter of the piece, upper case for white.
func (p Piece) Char() byte {
	if p.IsEmpty() {
		return '.'
	}
	c := " pnbrqk"[p.Role]
	if p.Side == White {
		c -= 'a' - 'A'
	}
	return c
}

// Evaluate scores a position from the perspective of the side to move.
type Evaluate func(b *Board) int

// Estimate scores a position in [-1, 1] from the perspective of the side to
// move. MCTS rollouts use it at the ply cutoff.
type Estimate func(b *Board) float64
