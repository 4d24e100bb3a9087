package rules

import (
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/kvistberg/chess-table/internal/domain"
)

// Snapshot is the engine-owned implementation of domain.Board. It keeps the
// UCI move history from the standard start position and a game rebuilt from
// it; the game is never mutated after construction, so copying a Snapshot by
// value is cheap and safe for history keeping.
type Snapshot struct {
	game  *nchess.Game
	moves []string
}

// Start returns the standard starting position.
func Start() Snapshot {
	return Snapshot{game: nchess.NewGame()}
}

func (s Snapshot) PieceAt(sq domain.Square) (domain.Side, domain.PieceKind, bool) {
	p := s.game.Position().Board().Piece(toEngineSquare(sq))
	if p == nchess.NoPiece {
		return "", 0, false
	}
	return sideFrom(p.Color()), kindFrom(p.Type()), true
}

func (s Snapshot) FEN() string {
	return s.game.FEN()
}

// MovesUCI returns the move history that produced this snapshot.
func (s Snapshot) MovesUCI() []string {
	return append([]string(nil), s.moves...)
}

// SANLine re-encodes a snapshot's move history in algebraic notation, for
// archiving. Returns nil when b is not an engine snapshot.
func SANLine(b domain.Board) []string {
	snap, ok := b.(Snapshot)
	if !ok {
		return nil
	}
	g := nchess.NewGame()
	notationSAN := nchess.AlgebraicNotation{}
	out := make([]string, 0, len(snap.moves))
	for _, uci := range snap.moves {
		pos := g.Position()
		mv, err := nchess.UCINotation{}.Decode(pos, uci)
		if err != nil {
			return nil
		}
		if err := g.Move(mv, nil); err != nil {
			return nil
		}
		out = append(out, notationSAN.Encode(pos, mv))
	}
	return out
}

func rebuild(moves []string) (*nchess.Game, error) {
	g := nchess.NewGame()
	for _, uci := range moves {
		if err := g.PushNotationMove(uci, nchess.UCINotation{}, nil); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func encodeUCI(req domain.MoveRequest) string {
	var b strings.Builder
	b.WriteString(req.From.String())
	b.WriteString(req.To.String())
	if req.Promotion != nil {
		switch *req.Promotion {
		case domain.Queen:
			b.WriteString("q")
		case domain.Rook:
			b.WriteString("r")
		case domain.Bishop:
			b.WriteString("b")
		case domain.Knight:
			b.WriteString("n")
		}
	}
	return b.String()
}

func toEngineSquare(sq domain.Square) nchess.Square {
	return nchess.NewSquare(nchess.File(sq.File), nchess.Rank(sq.Rank))
}

func fromEngineSquare(sq nchess.Square) domain.Square {
	return domain.MustSquare(int(sq.File()), int(sq.Rank()))
}

func sideFrom(c nchess.Color) domain.Side {
	if c == nchess.White {
		return domain.White
	}
	return domain.Black
}

func kindFrom(t nchess.PieceType) domain.PieceKind {
	switch t {
	case nchess.Knight:
		return domain.Knight
	case nchess.Bishop:
		return domain.Bishop
	case nchess.Rook:
		return domain.Rook
	case nchess.Queen:
		return domain.Queen
	case nchess.King:
		return domain.King
	default:
		return domain.Pawn
	}
}
