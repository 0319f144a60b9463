package game

var promotionRoles = [4]Role{Queen, Rook, Bishop, Knight}

// LegalMoves returns every move of the side to move that does not leave its
// own king attacked. Order is deterministic: board order of the origin
// square, then pattern order.
func (b *Board) LegalMoves() []Move {
	b.checkKings()
	us := b.turn
	them := us.Opponent()

	pseudo := b.pseudoLegalMoves(make([]Move, 0, 48))
	legal := pseudo[:0]
	for _, m := range pseudo {
		b.doMove(m)
		if !b.IsAttacked(b.kings[us], them) {
			if b.IsAttacked(b.kings[them], us) {
				m.Flags |= GivesCheck
			}
			legal = append(legal, m)
		}
		b.undoMove()
	}
	return legal
}

// hasLegalMove stops at the first legal move found.
func (b *Board) hasLegalMove() bool {
	b.checkKings()
	us := b.turn
	for _, m := range b.pseudoLegalMoves(make([]Move, 0, 48)) {
		b.doMove(m)
		ok := !b.IsAttacked(b.kings[us], us.Opponent())
		b.undoMove()
		if ok {
			return true
		}
	}
	return false
}

// IsInCheck reports whether side's king is attacked.
func (b *Board) IsInCheck(side Side) bool {
	return b.IsAttacked(b.kings[side], side.Opponent())
}

// IsAttacked reports whether any piece of side by pseudo-legally reaches sq.
func (b *Board) IsAttacked(sq Square, by Side) bool {
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.Offset(df, -forward(by)); ok && b.squares[from] == (Piece{Side: by, Role: Pawn}) {
			return true
		}
	}
	if b.stepAttacked(sq, knightSteps, Piece{Side: by, Role: Knight}) ||
		b.stepAttacked(sq, kingSteps, Piece{Side: by, Role: King}) {
		return true
	}
	return b.rayAttacked(sq, rookRays, by, Rook) || b.rayAttacked(sq, bishopRays, by, Bishop)
}

func (b *Board) stepAttacked(sq Square, steps []direction, attacker Piece) bool {
	for _, d := range steps {
		if from, ok := sq.Offset(d.df, d.dr); ok && b.squares[from] == attacker {
			return true
		}
	}
	return false
}

// rayAttacked looks along rays for the first piece; a slider of role or a
// queen of side by attacks sq.
func (b *Board) rayAttacked(sq Square, rays []direction, by Side, role Role) bool {
	for _, d := range rays {
		from, ok := sq.Offset(d.df, d.dr)
		for ok && !b.occupied(from) {
			from, ok = from.Offset(d.df, d.dr)
		}
		if !ok {
			continue
		}
		if p := b.squares[from]; p.Side == by && (p.Role == role || p.Role == Queen) {
			return true
		}
	}
	return false
}

func (b *Board) pseudoLegalMoves(moves []Move) []Move {
	us := b.turn
	var targets []Square
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p.IsEmpty() || p.Side != us {
			continue
		}
		if p.Role == Pawn {
			moves = b.pawnMoves(sq, moves)
			continue
		}
		targets = p.Attacks(sq, b.occupied, targets[:0])
		for _, to := range targets {
			dst := b.squares[to]
			switch {
			case dst.IsEmpty():
				moves = append(moves, Move{From: sq, To: to})
			case dst.Side != us:
				moves = append(moves, Move{From: sq, To: to, Flags: Capture})
			}
		}
	}
	return b.castlingMoves(moves)
}

func (b *Board) pawnMoves(from Square, moves []Move) []Move {
	us := b.turn
	dir := forward(us)
	lastRank := 7
	startRank := 1
	if us == Black {
		lastRank, startRank = 0, 6
	}

	add := func(m Move) {
		if m.To.Rank() != lastRank {
			moves = append(moves, m)
			return
		}
		for _, role := range promotionRoles {
			m.Promotion = role
			moves = append(moves, m)
		}
	}

	if to, ok := from.Offset(0, dir); ok && !b.occupied(to) {
		add(Move{From: from, To: to})
		if from.Rank() == startRank {
			if to2, _ := to.Offset(0, dir); !b.occupied(to2) {
				moves = append(moves, Move{From: from, To: to2, Flags: DoublePush})
			}
		}
	}
	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		if dst := b.squares[to]; !dst.IsEmpty() && dst.Side != us {
			add(Move{From: from, To: to, Flags: Capture})
		} else if to == b.epSquare {
			moves = append(moves, Move{From: from, To: to, Flags: Capture | EnPassant})
		}
	}
	return moves
}

func (b *Board) castlingMoves(moves []Move) []Move {
	us := b.turn
	them := us.Opponent()
	kingside, queenside := WhiteKingside, WhiteQueenside
	home := E1
	if us == Black {
		kingside, queenside = BlackKingside, BlackQueenside
		home = E8
	}
	if b.kings[us] != home || b.castling&(kingside|queenside) == 0 || b.IsAttacked(home, them) {
		return moves
	}
	rank := home.Rank()
	rook := Piece{Side: us, Role: Rook}

	if b.castling&kingside != 0 &&
		b.squares[NewSquare(7, rank)] == rook &&
		b.emptyFiles(rank, 5, 6) &&
		!b.IsAttacked(NewSquare(5, rank), them) && !b.IsAttacked(NewSquare(6, rank), them) {
		moves = append(moves, Move{From: home, To: NewSquare(6, rank), Flags: CastleKingside})
	}
	if b.castling&queenside != 0 &&
		b.squares[NewSquare(0, rank)] == rook &&
		b.emptyFiles(rank, 1, 3) &&
		!b.IsAttacked(NewSquare(3, rank), them) && !b.IsAttacked(NewSquare(2, rank), them) {
		moves = append(moves, Move{From: home, To: NewSquare(2, rank), Flags: CastleQueenside})
	}
	return moves
}

// emptyFiles reports whether files lo..hi of rank are all empty.
func (b *Board) emptyFiles(rank, lo, hi int) bool {
	for f := lo; f <= hi; f++ {
		if b.occupied(NewSquare(f, rank)) {
			return false
		}
	}
	return true
}
