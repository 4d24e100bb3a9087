package rules

import (
	"testing"

	"github.com/kvistberg/chess-table/internal/domain"
)

func squaresOf(t *testing.T, names ...string) map[string]bool {
	t.Helper()
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func assertMask(t *testing.T, set domain.SquareSet, want map[string]bool) {
	t.Helper()
	got := make(map[string]bool)
	for _, sq := range set.Squares() {
		got[sq.String()] = true
	}
	if len(got) != len(want) {
		t.Fatalf("mask %v, want %v", got, want)
	}
	for n := range want {
		if !got[n] {
			t.Fatalf("mask missing %s: %v", n, got)
		}
	}
}

func TestPawnMovesFromStart(t *testing.T) {
	e := NewEngine()
	b := Start()
	assertMask(t, e.PieceMoves(b, mustParseSquare(t, "e2")), squaresOf(t, "e3", "e4"))
}

func TestPawnMovesBlocked(t *testing.T) {
	e := NewEngine()
	b := applyLine(t, e, [][2]string{{"e2", "e4"}, {"e7", "e5"}})
	// e4 is blocked head-on and has nothing to capture.
	if set := e.PieceMoves(b, mustParseSquare(t, "e4")); !set.Empty() {
		t.Fatalf("blocked pawn should have no raw moves, got %v", set.Squares())
	}
}

func TestPawnCaptureMask(t *testing.T) {
	e := NewEngine()
	b := applyLine(t, e, [][2]string{{"e2", "e4"}, {"d7", "d5"}})
	assertMask(t, e.PieceMoves(b, mustParseSquare(t, "e4")), squaresOf(t, "e5", "d5"))
}

func TestKnightMovesRawIncludesOwnPieces(t *testing.T) {
	e := NewEngine()
	b := Start()
	// The raw mask is geometric only; d2 holds an own pawn and is still in.
	assertMask(t, e.PieceMoves(b, mustParseSquare(t, "b1")), squaresOf(t, "a3", "c3", "d2"))
}

func TestSlidingMovesStopAtBlockers(t *testing.T) {
	e := NewEngine()
	b := applyLine(t, e, [][2]string{{"e2", "e4"}, {"e7", "e5"}})
	// Bishop f1: the a6 diagonal opened, the g2 side is still blocked but
	// the blocker square itself is included in the raw mask.
	assertMask(t, e.PieceMoves(b, mustParseSquare(t, "f1")),
		squaresOf(t, "e2", "d3", "c4", "b5", "a6", "g2"))
}

func TestQueenCombinesRookAndBishopRays(t *testing.T) {
	e := NewEngine()
	b := Start()
	// Boxed in at start: every ray ends immediately on an own piece.
	assertMask(t, e.PieceMoves(b, mustParseSquare(t, "d1")),
		squaresOf(t, "c1", "e1", "d2", "c2", "e2"))
}

func TestKingMovesMask(t *testing.T) {
	e := NewEngine()
	b := Start()
	assertMask(t, e.PieceMoves(b, mustParseSquare(t, "e1")),
		squaresOf(t, "d1", "f1", "d2", "e2", "f2"))
}

func TestOccupancy(t *testing.T) {
	e := NewEngine()
	b := Start()
	white := e.Occupancy(b, domain.White)
	black := e.Occupancy(b, domain.Black)
	if white.Len() != 16 || black.Len() != 16 {
		t.Fatalf("expected 16 pieces per side, got %d/%d", white.Len(), black.Len())
	}
	if white&black != 0 {
		t.Fatalf("occupancies overlap")
	}
}
