package replay

import (
	"time"

	"github.com/google/uuid"

	"github.com/kvistberg/chess-table/internal/domain"
)

// GameRecord is a completed game: every board snapshot from the initial
// position to the checkmate position. Immutable once archived.
type GameRecord struct {
	ID         string
	Winner     domain.Side
	Snapshots  []domain.Board
	ArchivedAt time.Time
}

// Plies is the number of half-moves played.
func (r GameRecord) Plies() int {
	if len(r.Snapshots) == 0 {
		return 0
	}
	return len(r.Snapshots) - 1
}

// Recorder accumulates snapshots for the game in progress. The accumulator
// is seeded with the initial position and appended to after every applied
// move. Sealing archives the sequence but does not reset the accumulator;
// reset happens when a new game starts, so the finished game can still be
// inspected in between.
type Recorder struct {
	snapshots []domain.Board
}

func NewRecorder(initial domain.Board) *Recorder {
	return &Recorder{snapshots: []domain.Board{initial}}
}

// OnMoveApplied appends the post-move snapshot.
func (r *Recorder) OnMoveApplied(b domain.Board) {
	r.snapshots = append(r.snapshots, b)
}

// Len reports the number of accumulated snapshots.
func (r *Recorder) Len() int { return len(r.snapshots) }

// Seal archives the accumulated sequence into the catalog as a new record.
func (r *Recorder) Seal(catalog *Catalog, winner domain.Side) GameRecord {
	rec := GameRecord{
		ID:         uuid.NewString(),
		Winner:     winner,
		Snapshots:  append([]domain.Board(nil), r.snapshots...),
		ArchivedAt: time.Now(),
	}
	catalog.Append(rec)
	return rec
}

// Reset discards the accumulator and seeds it with a fresh initial position.
func (r *Recorder) Reset(initial domain.Board) {
	r.snapshots = []domain.Board{initial}
}
