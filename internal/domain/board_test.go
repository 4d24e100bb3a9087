package domain

import "testing"

func TestSquareRoundTrip(t *testing.T) {
	for idx := 0; idx < 64; idx++ {
		sq := SquareFromIndex(idx)
		if sq.Index() != idx {
			t.Fatalf("index round trip failed for %d", idx)
		}
	}
	if got := MustSquare(4, 1).String(); got != "e2" {
		t.Fatalf("e2 String = %q", got)
	}
	if got := MustSquare(0, 0).String(); got != "a1" {
		t.Fatalf("a1 String = %q", got)
	}
	if got := MustSquare(7, 7).String(); got != "h8" {
		t.Fatalf("h8 String = %q", got)
	}
}

func TestNewSquareRange(t *testing.T) {
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if _, err := NewSquare(c[0], c[1]); err == nil {
			t.Fatalf("expected error for %v", c)
		}
	}
	if _, err := NewSquare(3, 4); err != nil {
		t.Fatalf("valid square rejected: %v", err)
	}
}

func TestSquareSetOps(t *testing.T) {
	var set SquareSet
	if !set.Empty() {
		t.Fatalf("zero set should be empty")
	}
	a := MustSquare(0, 0)
	b := MustSquare(7, 7)
	set.Add(a)
	set.Add(b)
	set.Add(b) // idempotent
	if set.Len() != 2 || !set.Has(a) || !set.Has(b) {
		t.Fatalf("set ops broken: %v", set.Squares())
	}
	set.Remove(a)
	if set.Has(a) || set.Len() != 1 {
		t.Fatalf("remove broken")
	}
	sqs := set.Squares()
	if len(sqs) != 1 || sqs[0] != b {
		t.Fatalf("Squares() = %v", sqs)
	}
}

func TestSideOther(t *testing.T) {
	if White.Other() != Black || Black.Other() != White {
		t.Fatalf("Other() broken")
	}
}
