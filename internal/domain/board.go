package domain

import "fmt"

// Side identifies which player a piece or turn belongs to.
type Side string

const (
	White Side = "white"
	Black Side = "black"
)

func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string { return string(s) }

// PieceKind enumerates the six chess piece types.
type PieceKind int

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "unknown"
}

// Square is a board coordinate. File and Rank are both 0-7; a1 is
// {0,0}, h8 is {7,7}.
type Square struct {
	File int8
	Rank int8
}

// NewSquare validates coordinates coming from a collaborator.
func NewSquare(file, rank int) (Square, error) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return Square{}, fmt.Errorf("square out of range: file=%d rank=%d", file, rank)
	}
	return Square{File: int8(file), Rank: int8(rank)}, nil
}

// MustSquare panics on out-of-range input. An invalid coordinate here means
// the coordinate-conversion layer is broken, not a reachable runtime state.
func MustSquare(file, rank int) Square {
	sq, err := NewSquare(file, rank)
	if err != nil {
		panic(err)
	}
	return sq
}

// Index returns the 0-63 square index, rank-major from a1.
func (s Square) Index() int { return int(s.Rank)*8 + int(s.File) }

func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+rune(s.File), s.Rank+1)
}

// SquareFromIndex is the inverse of Index.
func SquareFromIndex(idx int) Square {
	if idx < 0 || idx > 63 {
		panic(fmt.Sprintf("square index out of range: %d", idx))
	}
	return Square{File: int8(idx % 8), Rank: int8(idx / 8)}
}

// SquareSet is a bitboard over square indexes.
type SquareSet uint64

func (ss SquareSet) Has(sq Square) bool { return ss&(1<<uint(sq.Index())) != 0 }

func (ss *SquareSet) Add(sq Square) { *ss |= 1 << uint(sq.Index()) }

func (ss *SquareSet) Remove(sq Square) { *ss &^= 1 << uint(sq.Index()) }

func (ss SquareSet) Empty() bool { return ss == 0 }

func (ss SquareSet) Len() int {
	n := 0
	for v := uint64(ss); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Squares expands the set into coordinates, ascending by index.
func (ss SquareSet) Squares() []Square {
	out := make([]Square, 0, ss.Len())
	for i := 0; i < 64; i++ {
		if ss&(1<<uint(i)) != 0 {
			out = append(out, SquareFromIndex(i))
		}
	}
	return out
}

// MoveRequest is what the session hands to the rules engine.
type MoveRequest struct {
	From      Square
	To        Square
	Promotion *PieceKind
}

// Status classifies a board position.
type Status int

const (
	StatusOngoing Status = iota
	StatusCheckmate
	// StatusOther covers stalemate and the automatic draws the engine
	// detects. The session treats it as non-terminal for turn flipping but
	// terminal games never reach it through normal play here.
	StatusOther
)

func (st Status) String() string {
	switch st {
	case StatusOngoing:
		return "ongoing"
	case StatusCheckmate:
		return "checkmate"
	}
	return "other"
}

// Board is an immutable snapshot of a position. Implementations live in the
// rules package; the session only reads pieces and passes snapshots around
// by value.
type Board interface {
	// PieceAt reports the piece on sq, if any.
	PieceAt(sq Square) (Side, PieceKind, bool)
	// FEN serializes the position.
	FEN() string
}
