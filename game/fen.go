package game

import (
	"fmt"
	"strconv"
	"strings"
)

// FromFEN parses a Forsyth-Edwards record. The halfmove and fullmove fields
// are optional and default to 0 and 1.
func FromFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: %q has %d fields", ErrInvalidFEN, fen, len(fields))
	}

	b := &Board{
		epSquare: SquareNone,
		kings:    [2]Square{SquareNone, SquareNone},
		fullmove: 1,
		history:  make([]uint64, 0, 64),
		undo:     make([]undoState, 0, 64),
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: placement %q needs 8 ranks", ErrInvalidFEN, fields[0])
	}
	for i, row := range ranks {
		rank, file := 7-i, 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := parsePiece(ch)
			if !ok || file > 7 {
				return nil, fmt.Errorf("%w: bad rank %q", ErrInvalidFEN, row)
			}
			sq := NewSquare(file, rank)
			if p.Role == King {
				if b.kings[p.Side] != SquareNone {
					return nil, fmt.Errorf("%w: more than one %s king", ErrMalformedBoard, p.Side)
				}
				b.kings[p.Side] = sq
			}
			if p.Role == Pawn && (rank == 0 || rank == 7) {
				return nil, fmt.Errorf("%w: pawn on %s", ErrMalformedBoard, sq)
			}
			b.squares[sq] = p
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: bad rank %q", ErrInvalidFEN, row)
		}
	}
	for _, side := range [2]Side{White, Black} {
		if b.kings[side] == SquareNone {
			return nil, fmt.Errorf("%w: no %s king", ErrMalformedBoard, side)
		}
	}

	switch fields[1] {
	case "w":
		b.turn = White
	case "b":
		b.turn = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				b.castling |= WhiteKingside
			case 'Q':
				b.castling |= WhiteQueenside
			case 'k':
				b.castling |= BlackKingside
			case 'q':
				b.castling |= BlackQueenside
			default:
				return nil, fmt.Errorf("%w: castling %q", ErrInvalidFEN, fields[2])
			}
		}
	}
	b.sanitizeCastling()

	ep, err := ParseSquare(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	if ep != SquareNone {
		if err := b.checkEnPassant(ep); err != nil {
			return nil, err
		}
		// Targets no pawn can take are dropped, as a double push would
		if passed, _ := ep.Offset(0, -forward(b.turn)); b.capturableEnPassant(passed, b.turn) {
			b.epSquare = ep
		}
	}

	if len(fields) > 4 {
		if b.halfmove, err = strconv.Atoi(fields[4]); err != nil || b.halfmove < 0 {
			return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
		}
	}
	if len(fields) > 5 {
		if b.fullmove, err = strconv.Atoi(fields[5]); err != nil || b.fullmove < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
	}

	if b.IsInCheck(b.turn.Opponent()) {
		return nil, fmt.Errorf("%w: %s to move can capture the king", ErrMalformedBoard, b.turn)
	}

	b.key = b.computeKey()
	b.history = append(b.history, b.key)
	return b, nil
}

// checkEnPassant verifies that ep sits behind an enemy pawn that has just
// made a double push.
func (b *Board) checkEnPassant(ep Square) error {
	them := b.turn.Opponent()
	rank := 5
	if b.turn == Black {
		rank = 2
	}
	if ep.Rank() != rank {
		return fmt.Errorf("%w: en passant square %s on the wrong rank", ErrInvalidFEN, ep)
	}
	passed, _ := ep.Offset(0, -forward(b.turn))
	origin, _ := ep.Offset(0, forward(b.turn))
	if !b.squares[ep].IsEmpty() || !b.squares[origin].IsEmpty() || b.squares[passed] != (Piece{Side: them, Role: Pawn}) {
		return fmt.Errorf("%w: en passant square %s without a passed %s pawn", ErrInvalidFEN, ep, them)
	}
	return nil
}

// sanitizeCastling drops rights whose king or rook is not on its home square.
func (b *Board) sanitizeCastling() {
	homes := []struct {
		right CastleRights
		king  Square
		rook  Square
		side  Side
	}{
		{WhiteKingside, E1, H1, White},
		{WhiteQueenside, E1, A1, White},
		{BlackKingside, E8, H8, Black},
		{BlackQueenside, E8, A8, Black},
	}
	for _, h := range homes {
		if b.squares[h.king] != (Piece{Side: h.side, Role: King}) || b.squares[h.rook] != (Piece{Side: h.side, Role: Rook}) {
			b.castling &^= h.right
		}
	}
}

func parsePiece(ch rune) (Piece, bool) {
	side := White
	if ch >= 'a' && ch <= 'z' {
		side = Black
		ch -= 'a' - 'A'
	}
	role := strings.IndexRune(" PNBRQK", ch)
	if role <= 0 {
		return NoPiece, false
	}
	return Piece{Side: side, Role: Role(role)}, true
}

// FEN exports the position as a Forsyth-Edwards record.
func (b *Board) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[NewSquare(file, rank)]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteByte("wb"[b.turn])
	sb.WriteByte(' ')
	if b.castling == 0 {
		sb.WriteByte('-')
	}
	for i, c := range "KQkq" {
		if b.castling&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	fmt.Fprintf(&sb, " %s %d %d", b.epSquare, b.halfmove, b.fullmove)
	return sb.String()
}

// ParseMove resolves a UCI move string against the legal moves of b.
func (b *Board) ParseMove(uci string) (Move, error) {
	if len(uci) < 4 || len(uci) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, uci)
	}
	for _, m := range b.LegalMoves() {
		if m.String() == uci {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, uci, b.FEN())
}
