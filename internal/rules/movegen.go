package rules

import "github.com/kvistberg/chess-table/internal/domain"

// Pseudo-legal destination masks. These mirror the per-piece attack tables
// the session highlights from: no check-safety filtering, blockers stop
// rays, pawn captures require an occupied square. Legality is enforced at
// commit time by Engine.Apply.

type direction struct{ df, dr int }

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	knightOffsets = []direction{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingOffsets = []direction{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1},
		{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	}
)

func slidingMoves(from domain.Square, dirs []direction, occupied domain.SquareSet) domain.SquareSet {
	var set domain.SquareSet
	for _, d := range dirs {
		f, r := int(from.File), int(from.Rank)
		for {
			f += d.df
			r += d.dr
			if f < 0 || f > 7 || r < 0 || r > 7 {
				break
			}
			sq := domain.MustSquare(f, r)
			set.Add(sq)
			if occupied.Has(sq) {
				break
			}
		}
	}
	return set
}

func offsetMoves(from domain.Square, offsets []direction) domain.SquareSet {
	var set domain.SquareSet
	for _, d := range offsets {
		f := int(from.File) + d.df
		r := int(from.Rank) + d.dr
		if f < 0 || f > 7 || r < 0 || r > 7 {
			continue
		}
		set.Add(domain.MustSquare(f, r))
	}
	return set
}

func knightMoves(from domain.Square) domain.SquareSet { return offsetMoves(from, knightOffsets) }

func kingMoves(from domain.Square) domain.SquareSet { return offsetMoves(from, kingOffsets) }

func pawnMoves(snap Snapshot, from domain.Square, side domain.Side, occupied domain.SquareSet) domain.SquareSet {
	var set domain.SquareSet
	dir := 1
	startRank := 1
	if side == domain.Black {
		dir = -1
		startRank = 6
	}

	// pushes: blocked by any piece
	oneUp := int(from.Rank) + dir
	if oneUp >= 0 && oneUp <= 7 {
		one := domain.MustSquare(int(from.File), oneUp)
		if !occupied.Has(one) {
			set.Add(one)
			if int(from.Rank) == startRank {
				two := domain.MustSquare(int(from.File), oneUp+dir)
				if !occupied.Has(two) {
					set.Add(two)
				}
			}
		}
	}

	// captures: only onto occupied squares
	for _, df := range []int{-1, 1} {
		f := int(from.File) + df
		if f < 0 || f > 7 || oneUp < 0 || oneUp > 7 {
			continue
		}
		sq := domain.MustSquare(f, oneUp)
		if occupied.Has(sq) {
			set.Add(sq)
		}
	}
	return set
}
