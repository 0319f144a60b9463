package game

import "fmt"

// Square indexes the board from a1 (0) to h8 (63), rank-major.
type Square int8

const SquareNone Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = iota + 56
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (sq Square) File() int {
	return int(sq) & 7
}

func (sq Square) Rank() int {
	return int(sq) >> 3
}

// Offset returns the square df files and dr ranks away, or false when it
// falls off the board.
func (sq Square) Offset(df, dr int) (Square, bool) {
	f, r := sq.File()+df, sq.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return SquareNone, false
	}
	return NewSquare(f, r), true
}

// IsLight reports whether the square is a light square (h1 is light).
func (sq Square) IsLight() bool {
	return (sq.File()+sq.Rank())%2 == 1
}

func (sq Square) String() string {
	if sq == SquareNone {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses algebraic names like "e4"; "-" yields SquareNone.
func ParseSquare(s string) (Square, error) {
	if s == "-" {
		return SquareNone, nil
	}
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return SquareNone, fmt.Errorf("bad square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}
