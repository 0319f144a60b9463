package game

import "strings"

// MoveFlags annotate a generated move.
type MoveFlags uint8

const (
	Capture MoveFlags = 1 << iota
	EnPassant
	CastleKingside
	CastleQueenside
	DoublePush
	GivesCheck
)

// Move is a value describing one ply. It never references the board it was
// generated from.
type Move struct {
	From      Square
	To        Square
	Promotion Role
	Flags     MoveFlags
}

// MoveKey identifies a move independently of its annotation flags.
type MoveKey struct {
	From      Square
	To        Square
	Promotion Role
}

// NoMove is the zero move, returned alongside errors.
var NoMove = Move{}

func (m Move) Key() MoveKey {
	return MoveKey{From: m.From, To: m.To, Promotion: m.Promotion}
}

func (m Move) IsCapture() bool {
	return m.Flags&Capture != 0
}

func (m Move) IsCastle() bool {
	return m.Flags&(CastleKingside|CastleQueenside) != 0
}

func (m Move) GivesCheck() bool {
	return m.Flags&GivesCheck != 0
}

// String returns the move in UCI long algebraic notation, e.g. "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	var sb strings.Builder
	sb.WriteString(m.From.String())
	sb.WriteString(m.To.String())
	if m.Promotion != NoRole {
		sb.WriteByte(" pnbrqk"[m.Promotion])
	}
	return sb.String()
}
