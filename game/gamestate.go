package game

import "fmt"

// Apply plays m after checking it against LegalMoves. The move is matched on
// origin, destination and promotion, so flags need not be set by the caller.
func (b *Board) Apply(m Move) error {
	for _, legal := range b.LegalMoves() {
		if legal.Key() == m.Key() {
			b.MakeMove(legal)
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, b.FEN())
}

// MakeMove plays m without validation. m must come from LegalMoves of the
// current position.
func (b *Board) MakeMove(m Move) {
	b.doMove(m)
	b.history = append(b.history, b.key)
}

// Undo reverses the most recent MakeMove or Apply.
func (b *Board) Undo() {
	if len(b.undo) == 0 {
		panic(fmt.Errorf("%w: undo with no move applied", ErrMalformedBoard))
	}
	b.history = b.history[:len(b.history)-1]
	b.undoMove()
}

func (b *Board) doMove(m Move) {
	us := b.turn
	piece := b.squares[m.From]

	captureSq := m.To
	if m.Flags&EnPassant != 0 {
		captureSq, _ = m.To.Offset(0, -forward(us))
	}
	st := undoState{
		move:     m,
		captured: b.squares[captureSq],
		castling: b.castling,
		epSquare: b.epSquare,
		halfmove: b.halfmove,
		fullmove: b.fullmove,
		key:      b.key,
	}
	b.undo = append(b.undo, st)

	if !st.captured.IsEmpty() {
		b.setPiece(captureSq, NoPiece)
	}
	b.setPiece(m.From, NoPiece)
	placed := piece
	if m.Promotion != NoRole {
		placed.Role = m.Promotion
	}
	b.setPiece(m.To, placed)

	if piece.Role == King {
		b.kings[us] = m.To
		rank := m.From.Rank()
		switch {
		case m.Flags&CastleKingside != 0:
			b.setPiece(NewSquare(7, rank), NoPiece)
			b.setPiece(NewSquare(5, rank), Piece{Side: us, Role: Rook})
		case m.Flags&CastleQueenside != 0:
			b.setPiece(NewSquare(0, rank), NoPiece)
			b.setPiece(NewSquare(3, rank), Piece{Side: us, Role: Rook})
		}
	}

	b.key ^= castlingKeys[b.castling]
	b.castling &= castleMask[m.From] & castleMask[m.To]
	b.key ^= castlingKeys[b.castling]

	if b.epSquare != SquareNone {
		b.key ^= epKeys[b.epSquare.File()]
	}
	b.epSquare = SquareNone
	if m.Flags&DoublePush != 0 && b.capturableEnPassant(m.To, us.Opponent()) {
		b.epSquare, _ = m.From.Offset(0, forward(us))
		b.key ^= epKeys[b.epSquare.File()]
	}

	if piece.Role == Pawn || !st.captured.IsEmpty() {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if us == Black {
		b.fullmove++
	}
	b.turn = us.Opponent()
	b.key ^= sideKey
}

func (b *Board) undoMove() {
	st := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	m := st.move
	b.turn = b.turn.Opponent()
	us := b.turn

	piece := b.squares[m.To]
	if m.Promotion != NoRole {
		piece.Role = Pawn
	}
	b.squares[m.To] = NoPiece
	b.squares[m.From] = piece

	captureSq := m.To
	if m.Flags&EnPassant != 0 {
		captureSq, _ = m.To.Offset(0, -forward(us))
	}
	b.squares[captureSq] = st.captured

	if piece.Role == King {
		b.kings[us] = m.From
		rank := m.From.Rank()
		switch {
		case m.Flags&CastleKingside != 0:
			b.squares[NewSquare(5, rank)] = NoPiece
			b.squares[NewSquare(7, rank)] = Piece{Side: us, Role: Rook}
		case m.Flags&CastleQueenside != 0:
			b.squares[NewSquare(3, rank)] = NoPiece
			b.squares[NewSquare(0, rank)] = Piece{Side: us, Role: Rook}
		}
	}

	b.castling = st.castling
	b.epSquare = st.epSquare
	b.halfmove = st.halfmove
	b.fullmove = st.fullmove
	b.key = st.key
}

// setPiece replaces the occupant of sq and keeps the zobrist key in step.
func (b *Board) setPiece(sq Square, p Piece) {
	if old := b.squares[sq]; !old.IsEmpty() {
		b.key ^= pieceKeys[old.Side][old.Role][sq]
	}
	if !p.IsEmpty() {
		b.key ^= pieceKeys[p.Side][p.Role][sq]
	}
	b.squares[sq] = p
}

// capturableEnPassant reports whether a pawn of side by stands beside the
// pawn on passed. Pins are ignored.
func (b *Board) capturableEnPassant(passed Square, by Side) bool {
	for _, df := range [2]int{-1, 1} {
		if sq, ok := passed.Offset(df, 0); ok && b.squares[sq] == (Piece{Side: by, Role: Pawn}) {
			return true
		}
	}
	return false
}
