package game

type direction struct {
	df, dr int
}

var (
	knightSteps = []direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = []direction{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookRays    = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopRays  = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenRays   = append(append([]direction{}, rookRays...), bishopRays...)
)

// forward is the rank step of a pawn of side s.
func forward(s Side) int {
	if s == White {
		return 1
	}
	return -1
}

func (p Piece) slides() bool {
	return p.Role == Bishop || p.Role == Rook || p.Role == Queen
}

func (p Piece) pattern() []direction {
	switch p.Role {
	case Knight:
		return knightSteps
	case King:
		return kingSteps
	case Bishop:
		return bishopRays
	case Rook:
		return rookRays
	case Queen:
		return queenRays
	}
	return nil
}

// Attacks appends to dst every square p attacks from the from square. Rays
// of sliding pieces stop at the first occupied square, which is included.
// Pawns attack the two forward diagonals only.
func (p Piece) Attacks(from Square, occupied func(Square) bool, dst []Square) []Square {
	if p.Role == Pawn {
		for _, df := range [2]int{-1, 1} {
			if to, ok := from.Offset(df, forward(p.Side)); ok {
				dst = append(dst, to)
			}
		}
		return dst
	}

	for _, d := range p.pattern() {
		to, ok := from.Offset(d.df, d.dr)
		for ok {
			dst = append(dst, to)
			if !p.slides() || occupied(to) {
				break
			}
			to, ok = to.Offset(d.df, d.dr)
		}
	}
	return dst
}
