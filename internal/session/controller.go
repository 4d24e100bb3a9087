package session

import (
	"go.uber.org/zap"

	"github.com/kvistberg/chess-table/internal/domain"
	"github.com/kvistberg/chess-table/internal/obslog"
	"github.com/kvistberg/chess-table/internal/replay"
)

// Phase is the controller's state machine state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGrabbed
	PhaseTerminal
	PhaseReplay
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGrabbed:
		return "grabbed"
	case PhaseTerminal:
		return "terminal"
	}
	return "replay"
}

// View is the single read used to drive all drawing. Destinations is zero
// outside the grabbed phase; Grabbed is the lifted square, when any. In the
// replay phase Board is the viewed snapshot, not the live board.
type View struct {
	Board        domain.Board
	Destinations domain.SquareSet
	Grabbed      *domain.Square
	SideToMove   domain.Side
	Phase        Phase
	ReplayCursor int
	ReplayLength int
}

// TerminalHook observes the game reaching checkmate, after the record has
// been archived.
type TerminalHook func(rec replay.GameRecord)

// Controller is the top-level session state machine. It exclusively owns
// the live board, the selection, and the replay cursor; the host must call
// all input methods before View within a tick.
type Controller struct {
	engine    Engine
	tracker   SelectionTracker
	resolver  *DestinationResolver
	committer *MoveCommitter
	recorder  *replay.Recorder
	catalog   *replay.Catalog
	player    *replay.Player

	board      domain.Board
	sideToMove domain.Side
	phase      Phase

	onTerminal TerminalHook
}

func NewController(engine Engine, catalog *replay.Catalog) *Controller {
	board := engine.Start()
	c := &Controller{
		engine:     engine,
		resolver:   NewDestinationResolver(engine),
		recorder:   replay.NewRecorder(board),
		catalog:    catalog,
		board:      board,
		sideToMove: domain.White,
		phase:      PhaseIdle,
	}
	c.committer = NewMoveCommitter(engine, c.recorder)
	return c
}

// OnTerminal registers a hook fired once per game, when checkmate is
// observed.
func (c *Controller) OnTerminal(hook TerminalHook) { c.onTerminal = hook }

// PointerDown attempts to grab the piece on sq. Only meaningful while idle;
// grabbing an empty or opponent square is a no-op.
func (c *Controller) PointerDown(sq domain.Square) {
	if c.phase != PhaseIdle {
		return
	}
	if sel := c.tracker.Grab(sq, c.board, c.sideToMove); sel != nil {
		c.phase = PhaseGrabbed
		obslog.L().Debug("piece_grabbed",
			zap.String("square", sq.String()),
			zap.String("kind", sel.Kind.String()),
		)
	}
}

// PointerUp resolves the current grab against sq. Rejected moves are
// silent: the selection is dropped and the board stays as it was.
func (c *Controller) PointerUp(sq domain.Square) {
	if c.phase != PhaseGrabbed {
		c.tracker.Release()
		return
	}
	sel := c.tracker.Current()
	c.tracker.Release()
	c.phase = PhaseIdle
	if sel == nil {
		return
	}

	res := c.committer.Commit(sel.Square, sq, c.board, c.sideToMove)
	if !res.Applied {
		return
	}
	c.board = res.Board
	if res.Status == domain.StatusCheckmate {
		// The mover wins; the side to move is left unflipped on purpose.
		c.phase = PhaseTerminal
		rec := c.recorder.Seal(c.catalog, c.sideToMove)
		obslog.L().Info("game_over",
			zap.String("winner", c.sideToMove.String()),
			zap.String("record_id", rec.ID),
		)
		if c.onTerminal != nil {
			c.onTerminal(rec)
		}
		return
	}
	c.sideToMove = c.sideToMove.Other()
}

// NewGame resets the session to the starting position. Only valid from the
// terminal and replay phases; the catalog is kept.
func (c *Controller) NewGame() {
	if c.phase != PhaseTerminal && c.phase != PhaseReplay {
		return
	}
	c.board = c.engine.Start()
	c.sideToMove = domain.White
	c.tracker.Release()
	c.recorder.Reset(c.board)
	c.player = nil
	c.phase = PhaseIdle
	obslog.L().Info("new_game", zap.Int("catalog_len", c.catalog.Len()))
}

// EnterReplay opens an archived game at its final snapshot. index < 0
// selects the most recent record. Only valid from the terminal phase.
func (c *Controller) EnterReplay(index int) {
	if c.phase != PhaseTerminal {
		return
	}
	var rec replay.GameRecord
	var ok bool
	if index < 0 {
		rec, ok = c.catalog.Last()
	} else {
		rec, ok = c.catalog.Get(index)
	}
	if !ok {
		return
	}
	c.player = replay.NewPlayer(rec)
	c.phase = PhaseReplay
	obslog.L().Info("replay_enter",
		zap.String("record_id", rec.ID),
		zap.Int("cursor", c.player.Cursor()),
	)
}

// ReplayStep moves the replay cursor by delta, clamped to the record.
func (c *Controller) ReplayStep(delta int) {
	if c.phase != PhaseReplay || c.player == nil {
		return
	}
	c.player.Step(delta)
}

// ExitReplay returns to the terminal phase without resetting the game.
func (c *Controller) ExitReplay() {
	if c.phase != PhaseReplay {
		return
	}
	c.player = nil
	c.phase = PhaseTerminal
}

// Catalog exposes the archive for presentation (replay list).
func (c *Controller) Catalog() *replay.Catalog { return c.catalog }

// View returns the current render state. The destination set is computed
// fresh from the live board on every call.
func (c *Controller) View() View {
	v := View{
		Board:        c.board,
		SideToMove:   c.sideToMove,
		Phase:        c.phase,
		ReplayCursor: -1,
	}
	switch c.phase {
	case PhaseGrabbed:
		if sel := c.tracker.Current(); sel != nil {
			v.Destinations = c.resolver.Destinations(*sel, c.board)
			sq := sel.Square
			v.Grabbed = &sq
		}
	case PhaseReplay:
		if c.player != nil {
			v.Board = c.player.View()
			v.ReplayCursor = c.player.Cursor()
			v.ReplayLength = len(c.player.Record().Snapshots)
		}
	}
	return v
}
