package replay

import "github.com/kvistberg/chess-table/internal/domain"

// Player is a read-only cursor into one archived record. While a player is
// active its viewed snapshot overrides the live board for rendering.
type Player struct {
	record GameRecord
	cursor int
}

// NewPlayer opens a record at its final snapshot.
func NewPlayer(record GameRecord) *Player {
	cursor := len(record.Snapshots) - 1
	if cursor < 0 {
		cursor = 0
	}
	return &Player{record: record, cursor: cursor}
}

// Step moves the cursor by delta, clamped to the record bounds. Stepping
// out of bounds is a no-op, not an error.
func (p *Player) Step(delta int) {
	next := p.cursor + delta
	if next < 0 {
		next = 0
	}
	if max := len(p.record.Snapshots) - 1; next > max {
		next = max
	}
	p.cursor = next
}

// Cursor reports the current index.
func (p *Player) Cursor() int { return p.cursor }

// View returns the snapshot under the cursor.
func (p *Player) View() domain.Board {
	return p.record.Snapshots[p.cursor]
}

// Record returns the archived record this player is viewing.
func (p *Player) Record() GameRecord { return p.record }
