package rules

import (
	nchess "github.com/corentings/chess/v2"

	"github.com/kvistberg/chess-table/internal/domain"
)

// Engine adapts corentings/chess to the narrow capability surface the
// session consumes. Snapshots are immutable; Apply returns a new one.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Start returns a snapshot of the standard starting position.
func (e *Engine) Start() domain.Board { return Start() }

// Apply validates and plays a move. The second return is false when the
// move is illegal; the input board is returned unchanged in that case.
func (e *Engine) Apply(b domain.Board, req domain.MoveRequest) (domain.Board, bool) {
	snap, ok := b.(Snapshot)
	if !ok {
		return b, false
	}
	g, err := rebuild(snap.moves)
	if err != nil {
		return b, false
	}
	uci := encodeUCI(req)
	mv, err := nchess.UCINotation{}.Decode(g.Position(), uci)
	if err != nil {
		return b, false
	}
	if err := g.Move(mv, nil); err != nil {
		return b, false
	}
	moves := make([]string, 0, len(snap.moves)+1)
	moves = append(moves, snap.moves...)
	moves = append(moves, uci)
	return Snapshot{game: g, moves: moves}, true
}

// Status classifies the snapshot: ongoing, checkmate, or any other
// engine-detected ending (stalemate, draws).
func (e *Engine) Status(b domain.Board) domain.Status {
	snap, ok := b.(Snapshot)
	if !ok {
		return domain.StatusOngoing
	}
	if snap.game.Outcome() == nchess.NoOutcome {
		return domain.StatusOngoing
	}
	if snap.game.Method() == nchess.Checkmate {
		return domain.StatusCheckmate
	}
	return domain.StatusOther
}

// CastlingRights reports whether side still holds its castling rights.
func (e *Engine) CastlingRights(b domain.Board, side domain.Side) (kingside, queenside bool) {
	snap, ok := b.(Snapshot)
	if !ok {
		return false, false
	}
	c := nchess.White
	if side == domain.Black {
		c = nchess.Black
	}
	cr := snap.game.Position().CastleRights()
	return cr.CanCastle(c, nchess.KingSide), cr.CanCastle(c, nchess.QueenSide)
}

// EnPassantTarget returns the capture target square behind a pawn that just
// double-stepped, when one exists.
func (e *Engine) EnPassantTarget(b domain.Board) (domain.Square, bool) {
	snap, ok := b.(Snapshot)
	if !ok {
		return domain.Square{}, false
	}
	sq := snap.game.Position().EnPassantSquare()
	if sq == nchess.NoSquare {
		return domain.Square{}, false
	}
	return fromEngineSquare(sq), true
}

// PieceMoves returns the raw pseudo-legal destination mask for the piece on
// from. The mask ignores check safety and includes own-occupied squares;
// the resolver applies the UI-level filtering on top.
func (e *Engine) PieceMoves(b domain.Board, from domain.Square) domain.SquareSet {
	snap, ok := b.(Snapshot)
	if !ok {
		return 0
	}
	side, kind, occupied := snap.PieceAt(from)
	if !occupied {
		return 0
	}
	all := occupancy(snap)
	switch kind {
	case domain.Pawn:
		return pawnMoves(snap, from, side, all)
	case domain.Knight:
		return knightMoves(from)
	case domain.Bishop:
		return slidingMoves(from, bishopDirs, all)
	case domain.Rook:
		return slidingMoves(from, rookDirs, all)
	case domain.Queen:
		return slidingMoves(from, rookDirs, all) | slidingMoves(from, bishopDirs, all)
	default:
		return kingMoves(from)
	}
}

// Occupancy returns the squares occupied by side.
func (e *Engine) Occupancy(b domain.Board, side domain.Side) domain.SquareSet {
	snap, ok := b.(Snapshot)
	if !ok {
		return 0
	}
	var set domain.SquareSet
	for sq, p := range snap.game.Position().Board().SquareMap() {
		if p != nchess.NoPiece && sideFrom(p.Color()) == side {
			set.Add(fromEngineSquare(sq))
		}
	}
	return set
}

func occupancy(snap Snapshot) domain.SquareSet {
	var set domain.SquareSet
	for sq, p := range snap.game.Position().Board().SquareMap() {
		if p != nchess.NoPiece {
			set.Add(fromEngineSquare(sq))
		}
	}
	return set
}
