package web

import (
	"testing"

	"github.com/kvistberg/chess-table/internal/domain"
	"github.com/kvistberg/chess-table/internal/render"
	"github.com/kvistberg/chess-table/internal/replay"
	"github.com/kvistberg/chess-table/internal/rules"
	"github.com/kvistberg/chess-table/internal/session"
	"github.com/kvistberg/chess-table/internal/theme"
	"github.com/kvistberg/chess-table/pkg/sessiondto"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	th, err := theme.New("")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	ctrl := session.NewController(rules.NewEngine(), replay.NewCatalog())
	// 480px board: 60px squares, 30px margin.
	return NewServer("127.0.0.1:0", ctrl, render.New(th, 480))
}

// pixel returns the center of a square for the test renderer geometry.
func pixel(t *testing.T, name string) (int, int) {
	t.Helper()
	file := int(name[0] - 'a')
	rank := int(name[1] - '1')
	x := 30 + file*60 + 30
	y := 30 + (7-rank)*60 + 30
	return x, y
}

func TestPointerEventsDriveTheSession(t *testing.T) {
	s := newTestServer(t)

	x, y := pixel(t, "e2")
	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindPointerDown, X: x, Y: y})
	v := s.ctrl.View()
	if v.Phase != session.PhaseGrabbed {
		t.Fatalf("expected grabbed phase, got %v", v.Phase)
	}

	x, y = pixel(t, "e4")
	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindPointerUp, X: x, Y: y})
	v = s.ctrl.View()
	if v.SideToMove != domain.Black {
		t.Fatalf("move should have been committed")
	}
}

func TestPointerDownOutsideBoardIgnored(t *testing.T) {
	s := newTestServer(t)

	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindPointerDown, X: 5, Y: 5})
	if v := s.ctrl.View(); v.Phase != session.PhaseIdle {
		t.Fatalf("out-of-board press should be dropped")
	}
}

func TestPointerUpOutsideBoardReturnsPiece(t *testing.T) {
	s := newTestServer(t)
	before := s.ctrl.View().Board.FEN()

	x, y := pixel(t, "e2")
	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindPointerDown, X: x, Y: y})
	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindPointerUp, X: 5, Y: 5})

	v := s.ctrl.View()
	if v.Phase != session.PhaseIdle {
		t.Fatalf("drop outside the board should release the grab")
	}
	if v.Board.FEN() != before || v.SideToMove != domain.White {
		t.Fatalf("drop outside the board must not move anything")
	}
}

func TestCommandEvents(t *testing.T) {
	s := newTestServer(t)
	drag := func(from, to string) {
		x, y := pixel(t, from)
		s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindPointerDown, X: x, Y: y})
		x, y = pixel(t, to)
		s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindPointerUp, X: x, Y: y})
	}
	drag("f2", "f3")
	drag("e7", "e5")
	drag("g2", "g4")
	drag("d8", "h4")
	if v := s.ctrl.View(); v.Phase != session.PhaseTerminal {
		t.Fatalf("expected terminal phase, got %v", v.Phase)
	}

	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindReplayEnter, Index: -1})
	if v := s.ctrl.View(); v.Phase != session.PhaseReplay || v.ReplayCursor != 4 {
		t.Fatalf("replay should open at the final snapshot")
	}

	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindReplayStep, Delta: -2})
	if v := s.ctrl.View(); v.ReplayCursor != 2 {
		t.Fatalf("cursor should be 2, got %d", v.ReplayCursor)
	}

	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindReplayExit})
	s.applyEvent(sessiondto.InputEvent{Kind: sessiondto.KindNewGame})
	if v := s.ctrl.View(); v.Phase != session.PhaseIdle || v.SideToMove != domain.White {
		t.Fatalf("new game should reset the session")
	}
	if s.ctrl.Catalog().Len() != 1 {
		t.Fatalf("archive should survive the reset")
	}
}

func TestEnqueueDropsWhenSaturated(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < eventQueueSize+10; i++ {
		s.enqueue(sessiondto.InputEvent{Kind: sessiondto.KindNewGame})
	}
	if len(s.events) != eventQueueSize {
		t.Fatalf("queue should cap at %d, got %d", eventQueueSize, len(s.events))
	}
}
