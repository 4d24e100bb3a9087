package session

import (
	"testing"

	"github.com/kvistberg/chess-table/internal/domain"
	"github.com/kvistberg/chess-table/internal/rules"
)

type recordingObserver struct {
	boards []domain.Board
}

func (o *recordingObserver) OnMoveApplied(b domain.Board) { o.boards = append(o.boards, b) }

func TestCommitAppliesAndNotifies(t *testing.T) {
	e := rules.NewEngine()
	obs := &recordingObserver{}
	c := NewMoveCommitter(e, obs)
	b := e.Start()

	res := c.Commit(sq(t, "e2"), sq(t, "e4"), b, domain.White)
	if !res.Applied {
		t.Fatalf("legal move rejected")
	}
	if res.Status != domain.StatusOngoing {
		t.Fatalf("unexpected status %v", res.Status)
	}
	if len(obs.boards) != 1 || obs.boards[0].FEN() != res.Board.FEN() {
		t.Fatalf("observer not notified with the new snapshot")
	}
}

func TestCommitRejectSilently(t *testing.T) {
	e := rules.NewEngine()
	obs := &recordingObserver{}
	c := NewMoveCommitter(e, obs)
	b := e.Start()

	res := c.Commit(sq(t, "e2"), sq(t, "e5"), b, domain.White)
	if res.Applied {
		t.Fatalf("illegal move applied")
	}
	if res.Board.FEN() != b.FEN() {
		t.Fatalf("rejected commit changed board")
	}
	if len(obs.boards) != 0 {
		t.Fatalf("observer notified for rejected move")
	}
}

func TestCommitAutoQueensOnFarRank(t *testing.T) {
	e := rules.NewEngine()
	c := NewMoveCommitter(e, nil)
	b := playLine(t, e, [][2]string{
		{"a2", "a4"}, {"h7", "h6"},
		{"a4", "a5"}, {"h6", "h5"},
		{"a5", "a6"}, {"h5", "h4"},
		{"a6", "b7"}, {"h4", "h3"},
	})

	// No promotion choice in the request; the committer supplies the queen.
	res := c.Commit(sq(t, "b7"), sq(t, "a8"), b, domain.White)
	if !res.Applied {
		t.Fatalf("promotion move rejected")
	}
	side, kind, ok := res.Board.PieceAt(sq(t, "a8"))
	if !ok || side != domain.White || kind != domain.Queen {
		t.Fatalf("expected auto-queen on a8, got %v %v %v", side, kind, ok)
	}
}

func TestCommitReportsCheckmate(t *testing.T) {
	e := rules.NewEngine()
	c := NewMoveCommitter(e, nil)
	b := playLine(t, e, [][2]string{
		{"f2", "f3"}, {"e7", "e5"},
		{"g2", "g4"},
	})

	res := c.Commit(sq(t, "d8"), sq(t, "h4"), b, domain.Black)
	if !res.Applied {
		t.Fatalf("mating move rejected")
	}
	if res.Status != domain.StatusCheckmate {
		t.Fatalf("expected checkmate status, got %v", res.Status)
	}
}
