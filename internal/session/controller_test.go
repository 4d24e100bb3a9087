package session

import (
	"testing"

	"github.com/kvistberg/chess-table/internal/domain"
	"github.com/kvistberg/chess-table/internal/replay"
	"github.com/kvistberg/chess-table/internal/rules"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return NewController(rules.NewEngine(), replay.NewCatalog())
}

func dragMove(t *testing.T, c *Controller, from, to string) {
	t.Helper()
	c.PointerDown(sq(t, from))
	c.PointerUp(sq(t, to))
}

func playFoolsMate(t *testing.T, c *Controller) {
	t.Helper()
	dragMove(t, c, "f2", "f3")
	dragMove(t, c, "e7", "e5")
	dragMove(t, c, "g2", "g4")
	dragMove(t, c, "d8", "h4")
}

func TestControllerGrabAndCommit(t *testing.T) {
	c := newTestController(t)

	c.PointerDown(sq(t, "e2"))
	v := c.View()
	if v.Phase != PhaseGrabbed {
		t.Fatalf("expected grabbed phase, got %v", v.Phase)
	}
	if v.Grabbed == nil || *v.Grabbed != sq(t, "e2") {
		t.Fatalf("grabbed marker missing")
	}
	assertDestinations(t, v.Destinations, "e3", "e4")

	c.PointerUp(sq(t, "e4"))
	v = c.View()
	if v.Phase != PhaseIdle {
		t.Fatalf("expected idle after commit, got %v", v.Phase)
	}
	if v.SideToMove != domain.Black {
		t.Fatalf("turn should pass to black")
	}
	if !v.Destinations.Empty() || v.Grabbed != nil {
		t.Fatalf("idle view should carry no selection state")
	}
	if _, _, ok := v.Board.PieceAt(sq(t, "e4")); !ok {
		t.Fatalf("pawn should be on e4")
	}
}

func TestControllerRejectionKeepsTurn(t *testing.T) {
	c := newTestController(t)
	before := c.View().Board.FEN()

	dragMove(t, c, "e2", "e5")
	v := c.View()
	if v.Phase != PhaseIdle {
		t.Fatalf("expected idle after rejection")
	}
	if v.SideToMove != domain.White {
		t.Fatalf("rejected move must not flip the turn")
	}
	if v.Board.FEN() != before {
		t.Fatalf("rejected move changed the board")
	}
}

func TestControllerIgnoresWrongSideGrab(t *testing.T) {
	c := newTestController(t)
	c.PointerDown(sq(t, "e7"))
	if v := c.View(); v.Phase != PhaseIdle {
		t.Fatalf("opponent grab should be ignored")
	}
}

func TestControllerCheckmateKeepsSideToMove(t *testing.T) {
	c := newTestController(t)
	playFoolsMate(t, c)

	v := c.View()
	if v.Phase != PhaseTerminal {
		t.Fatalf("expected terminal phase, got %v", v.Phase)
	}
	// The winner delivered the mate; the side is not flipped past them.
	if v.SideToMove != domain.Black {
		t.Fatalf("side to move should stay on the winner, got %v", v.SideToMove)
	}
	if c.Catalog().Len() != 1 {
		t.Fatalf("finished game should be archived")
	}
	rec, _ := c.Catalog().Last()
	if rec.Winner != domain.Black {
		t.Fatalf("winner should be black, got %v", rec.Winner)
	}
	if rec.Plies() != 4 {
		t.Fatalf("expected 4 plies, got %d", rec.Plies())
	}

	// Input on the board is dead while terminal.
	before := c.View().Board.FEN()
	dragMove(t, c, "e2", "e4")
	if c.View().Board.FEN() != before {
		t.Fatalf("terminal board accepted a move")
	}
}

func TestControllerTerminalHook(t *testing.T) {
	c := newTestController(t)
	var got *replay.GameRecord
	c.OnTerminal(func(rec replay.GameRecord) { got = &rec })

	playFoolsMate(t, c)
	if got == nil {
		t.Fatalf("terminal hook not fired")
	}
	if got.Winner != domain.Black || len(got.Snapshots) != 5 {
		t.Fatalf("unexpected record: winner=%v snapshots=%d", got.Winner, len(got.Snapshots))
	}
}

func TestControllerNewGameKeepsCatalog(t *testing.T) {
	c := newTestController(t)

	// No-op while a game is running.
	dragMove(t, c, "e2", "e4")
	c.NewGame()
	if v := c.View(); v.SideToMove != domain.Black {
		t.Fatalf("new game should be refused mid-game")
	}

	playFoolsMate(t, c)
	c.NewGame()
	v := c.View()
	if v.Phase != PhaseIdle || v.SideToMove != domain.White {
		t.Fatalf("new game should reset to white/idle, got %v/%v", v.Phase, v.SideToMove)
	}
	if _, _, ok := v.Board.PieceAt(sq(t, "e4")); ok {
		t.Fatalf("board should be back at the start position")
	}
	if c.Catalog().Len() != 1 {
		t.Fatalf("new game must not clear the archive")
	}
}

func TestControllerReplayOpensAtFinalSnapshot(t *testing.T) {
	c := newTestController(t)
	playFoolsMate(t, c)
	finalFEN := c.View().Board.FEN()

	c.EnterReplay(-1)
	v := c.View()
	if v.Phase != PhaseReplay {
		t.Fatalf("expected replay phase")
	}
	if v.ReplayCursor != 4 || v.ReplayLength != 5 {
		t.Fatalf("replay should open at the last snapshot, got %d/%d", v.ReplayCursor, v.ReplayLength)
	}
	if v.Board.FEN() != finalFEN {
		t.Fatalf("replay view should show the mate position")
	}
}

func TestControllerReplayStepClamps(t *testing.T) {
	c := newTestController(t)
	playFoolsMate(t, c)
	finalFEN := c.View().Board.FEN()
	c.EnterReplay(-1)

	c.ReplayStep(-2)
	if v := c.View(); v.ReplayCursor != 2 {
		t.Fatalf("cursor should be 2, got %d", v.ReplayCursor)
	}

	// Stepping past the end lands on the terminal snapshot.
	c.ReplayStep(3)
	v := c.View()
	if v.ReplayCursor != 4 || v.Board.FEN() != finalFEN {
		t.Fatalf("cursor should clamp to the final snapshot, got %d", v.ReplayCursor)
	}

	c.ReplayStep(-100)
	if v := c.View(); v.ReplayCursor != 0 {
		t.Fatalf("cursor should clamp to 0, got %d", v.ReplayCursor)
	}
}

func TestControllerReplayExitAndRestart(t *testing.T) {
	c := newTestController(t)
	playFoolsMate(t, c)

	c.EnterReplay(-1)
	c.ExitReplay()
	if v := c.View(); v.Phase != PhaseTerminal {
		t.Fatalf("exit should return to terminal phase")
	}

	// Starting a fresh game straight out of replay also works.
	c.EnterReplay(-1)
	c.NewGame()
	if v := c.View(); v.Phase != PhaseIdle || v.SideToMove != domain.White {
		t.Fatalf("new game from replay should reset the session")
	}
}

func TestControllerReplayRequiresArchiveAndTerminal(t *testing.T) {
	c := newTestController(t)

	// Mid-game: refused.
	c.EnterReplay(-1)
	if v := c.View(); v.Phase != PhaseIdle {
		t.Fatalf("replay should be refused mid-game")
	}

	// Terminal with an out-of-range index: refused.
	playFoolsMate(t, c)
	c.EnterReplay(5)
	if v := c.View(); v.Phase != PhaseTerminal {
		t.Fatalf("replay with bad index should stay terminal")
	}
}
