package game

import "errors"

var (
	// ErrIllegalMove is returned when a move outside LegalMoves() is applied.
	ErrIllegalMove = errors.New("illegal move")
	// ErrNoLegalMoves is returned when a move is requested from a terminal position.
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrMalformedBoard signals a broken board invariant (king count, undo stack).
	ErrMalformedBoard = errors.New("malformed board state")
	// ErrInvalidFEN is returned for unparsable FEN records.
	ErrInvalidFEN = errors.New("invalid fen")
)
