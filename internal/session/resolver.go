package session

import "github.com/kvistberg/chess-table/internal/domain"

// Engine is the capability surface the session needs from a rules engine.
// The session never decides chess legality itself; it only layers UI-level
// filtering on top of these primitives.
type Engine interface {
	Start() domain.Board
	Apply(b domain.Board, req domain.MoveRequest) (domain.Board, bool)
	Status(b domain.Board) domain.Status
	CastlingRights(b domain.Board, side domain.Side) (kingside, queenside bool)
	EnPassantTarget(b domain.Board) (domain.Square, bool)
	PieceMoves(b domain.Board, from domain.Square) domain.SquareSet
	Occupancy(b domain.Board, side domain.Side) domain.SquareSet
}

// DestinationResolver computes the highlighted destination set for a
// selection. The set is recomputed from the current board on every call and
// must never be cached across a board mutation.
type DestinationResolver struct {
	engine Engine
}

func NewDestinationResolver(engine Engine) *DestinationResolver {
	return &DestinationResolver{engine: engine}
}

// Destinations returns the filtered destination set: the engine's raw
// per-piece mask minus own-side occupancy, plus the castling targets for a
// king and the en-passant target for an adjacent pawn.
//
// Castling targets are gated on rights and empty intervening squares only;
// whether the king transits an attacked square is left to the commit path,
// matching the original occupancy-only highlight.
func (r *DestinationResolver) Destinations(sel Selection, board domain.Board) domain.SquareSet {
	set := r.engine.PieceMoves(board, sel.Square)
	set &^= r.engine.Occupancy(board, sel.Side)

	switch sel.Kind {
	case domain.King:
		set |= r.castlingTargets(sel, board)
	case domain.Pawn:
		set |= r.enPassantTarget(sel, board)
	}
	return set
}

func (r *DestinationResolver) castlingTargets(sel Selection, board domain.Board) domain.SquareSet {
	var set domain.SquareSet
	back := 0
	if sel.Side == domain.Black {
		back = 7
	}
	occupied := r.engine.Occupancy(board, domain.White) | r.engine.Occupancy(board, domain.Black)
	kingside, queenside := r.engine.CastlingRights(board, sel.Side)

	if kingside && !occupied.Has(domain.MustSquare(5, back)) && !occupied.Has(domain.MustSquare(6, back)) {
		set.Add(domain.MustSquare(6, back))
	}
	if queenside &&
		!occupied.Has(domain.MustSquare(1, back)) &&
		!occupied.Has(domain.MustSquare(2, back)) &&
		!occupied.Has(domain.MustSquare(3, back)) {
		set.Add(domain.MustSquare(2, back))
	}
	return set
}

func (r *DestinationResolver) enPassantTarget(sel Selection, board domain.Board) domain.SquareSet {
	target, ok := r.engine.EnPassantTarget(board)
	if !ok {
		return 0
	}
	// The capturable pawn sits in front of the target from the capturing
	// side's point of view. A target on rank 6 means White captures a black
	// pawn on rank 5; a target on rank 3 means Black captures on rank 4.
	victimRank := int(target.Rank) - 1
	capturer := domain.White
	if target.Rank == 2 {
		victimRank = int(target.Rank) + 1
		capturer = domain.Black
	}
	if sel.Side != capturer {
		return 0
	}
	if int(sel.Square.Rank) != victimRank {
		return 0
	}
	df := int(sel.Square.File) - int(target.File)
	if df != 1 && df != -1 {
		return 0
	}
	var set domain.SquareSet
	set.Add(target)
	return set
}
