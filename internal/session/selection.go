package session

import "github.com/kvistberg/chess-table/internal/domain"

// Selection is a grabbed piece. It exists between a pointer-down that hit an
// own-side piece and the pointer-up that resolves it.
type Selection struct {
	Square domain.Square
	Side   domain.Side
	Kind   domain.PieceKind
}

// SelectionTracker owns the current grab. It never touches the board.
type SelectionTracker struct {
	current *Selection
}

// Grab returns a selection only when sq holds a piece belonging to
// sideToMove. Any prior grab is cleared either way.
func (t *SelectionTracker) Grab(sq domain.Square, board domain.Board, sideToMove domain.Side) *Selection {
	t.current = nil
	side, kind, occupied := board.PieceAt(sq)
	if !occupied || side != sideToMove {
		return nil
	}
	t.current = &Selection{Square: sq, Side: side, Kind: kind}
	return t.current
}

// Release clears the current selection regardless of outcome.
func (t *SelectionTracker) Release() { t.current = nil }

// Current returns the active selection, or nil.
func (t *SelectionTracker) Current() *Selection { return t.current }
