package game

var pieceValues = [...]int{NoRole: 0, Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, King: 0}

// PieceValue returns the material value of a role; kings count for nothing.
func PieceValue(r Role) int {
	return pieceValues[r]
}

// MaterialFor sums the material of side.
func MaterialFor(b *Board, side Side) int {
	total := 0
	for _, p := range b.squares {
		if !p.IsEmpty() && p.Side == side {
			total += pieceValues[p.Role]
		}
	}
	return total
}

// Material is the material balance from the perspective of the side to move.
// It satisfies Evaluate.
func Material(b *Board) int {
	var sum [2]int
	for _, p := range b.squares {
		sum[p.Side] += pieceValues[p.Role]
	}
	return sum[b.turn] - sum[b.turn.Opponent()]
}

// MaterialBalance scales the material balance into [-1, 1] from the
// perspective of the side to move.
func MaterialBalance(b *Board) float64 {
	var sum [2]float64
	for _, p := range b.squares {
		sum[p.Side] += float64(pieceValues[p.Role])
	}
	return normalize(sum[b.turn], sum[b.turn.Opponent()])
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
