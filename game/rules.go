package game

// Status is the terminal classification of a position.
type Status int8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	DrawRepetition
	DrawHalfmoveClock
	DrawInsufficientMaterial
)

func (s Status) String() string {
	return [...]string{"ongoing", "checkmate", "stalemate", "draw_by_repetition", "draw_by_halfmove_clock", "draw_by_insufficient_material"}[s]
}

// IsDraw reports whether s ends the game without a winner.
func (s Status) IsDraw() bool {
	return s == Stalemate || s == DrawRepetition || s == DrawHalfmoveClock || s == DrawInsufficientMaterial
}

// halfmoveLimit is 50 full moves without a capture or pawn move.
const halfmoveLimit = 100

// Status classifies the position. Mate and stalemate take precedence over the
// clock, repetition and material draws.
func (b *Board) Status() Status {
	if !b.hasLegalMove() {
		if b.IsInCheck(b.turn) {
			return Checkmate
		}
		return Stalemate
	}
	switch {
	case b.IsDrawByHalfmoveClock():
		return DrawHalfmoveClock
	case b.IsDrawByRepetition():
		return DrawRepetition
	case b.IsDrawByInsufficientMaterial():
		return DrawInsufficientMaterial
	}
	return Ongoing
}

// IsTerminal reports whether the game has ended.
func (b *Board) IsTerminal() bool {
	return b.Status() != Ongoing
}

// Winner returns the winning side when the position is checkmate.
func (b *Board) Winner() (Side, bool) {
	if b.IsCheckmate() {
		return b.turn.Opponent(), true
	}
	return White, false
}

// IsDraw reports a draw by the halfmove clock, repetition or insufficient
// material. Stalemate is not included since it needs move generation.
func (b *Board) IsDraw() bool {
	return b.IsDrawByHalfmoveClock() || b.IsDrawByRepetition() || b.IsDrawByInsufficientMaterial()
}

func (b *Board) IsCheckmate() bool {
	return b.IsInCheck(b.turn) && !b.hasLegalMove()
}

func (b *Board) IsStalemate() bool {
	return !b.IsInCheck(b.turn) && !b.hasLegalMove()
}

// IsDrawByRepetition reports whether the current signature occurred at least
// three times, counting the present occurrence.
func (b *Board) IsDrawByRepetition() bool {
	count := 0
	// Positions before the last irreversible move cannot repeat.
	for i := len(b.history) - 1; i >= 0 && i >= len(b.history)-1-b.halfmove; i -= 2 {
		if b.history[i] == b.key {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

func (b *Board) IsDrawByHalfmoveClock() bool {
	return b.halfmove >= halfmoveLimit
}

// IsDrawByInsufficientMaterial covers K v K, K+minor v K and K+B v K+B with
// bishops on the same colour.
func (b *Board) IsDrawByInsufficientMaterial() bool {
	var minors [2]int
	var bishopColour [2]int // 1 light, 2 dark
	for sq, p := range b.squares {
		switch p.Role {
		case NoRole, King:
		case Knight:
			minors[p.Side]++
		case Bishop:
			minors[p.Side]++
			bishopColour[p.Side] = 2
			if Square(sq).IsLight() {
				bishopColour[p.Side] = 1
			}
		default:
			return false
		}
	}
	total := minors[White] + minors[Black]
	switch {
	case total <= 1:
		return true
	case total == 2 && minors[White] == 1:
		return bishopColour[White] != 0 && bishopColour[White] == bishopColour[Black]
	}
	return false
}
