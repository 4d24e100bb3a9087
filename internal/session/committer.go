package session

import (
	"go.uber.org/zap"

	"github.com/kvistberg/chess-table/internal/domain"
	"github.com/kvistberg/chess-table/internal/obslog"
)

// MoveObserver receives the new snapshot after every applied move.
type MoveObserver interface {
	OnMoveApplied(b domain.Board)
}

// CommitResult reports what a commit attempt did. A rejected commit leaves
// the board untouched; no error is surfaced to the player.
type CommitResult struct {
	Applied bool
	Board   domain.Board
	Status  domain.Status
}

// MoveCommitter turns a (from, to) pair into a move request, submits it to
// the rules engine, and notifies the observer on success.
type MoveCommitter struct {
	engine   Engine
	observer MoveObserver
}

func NewMoveCommitter(engine Engine, observer MoveObserver) *MoveCommitter {
	return &MoveCommitter{engine: engine, observer: observer}
}

// Commit attempts the move. A pawn reaching the far rank is always promoted
// to a queen; no under-promotion choice is offered.
func (c *MoveCommitter) Commit(from, to domain.Square, board domain.Board, sideToMove domain.Side) CommitResult {
	req := domain.MoveRequest{From: from, To: to}
	if _, kind, occupied := board.PieceAt(from); occupied && kind == domain.Pawn {
		far := int8(7)
		if sideToMove == domain.Black {
			far = 0
		}
		if to.Rank == far {
			queen := domain.Queen
			req.Promotion = &queen
		}
	}

	next, applied := c.engine.Apply(board, req)
	if !applied {
		obslog.L().Debug("move_rejected",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.String("side", sideToMove.String()),
		)
		return CommitResult{Applied: false, Board: board}
	}

	status := c.engine.Status(next)
	if c.observer != nil {
		c.observer.OnMoveApplied(next)
	}
	obslog.L().Info("move_applied",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("side", sideToMove.String()),
		zap.String("status", status.String()),
	)
	return CommitResult{Applied: true, Board: next, Status: status}
}
