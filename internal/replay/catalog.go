package replay

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kvistberg/chess-table/internal/obslog"
)

// Store is a write-through sink for archived records. Stores are mirrors:
// the in-process catalog stays authoritative and is never rehydrated from
// them.
type Store interface {
	SaveRecord(ctx context.Context, rec GameRecord) error
}

// Catalog is the append-only list of completed games for this process.
// Starting a new game never clears it.
type Catalog struct {
	mu      sync.RWMutex
	records []GameRecord
	stores  []Store
}

func NewCatalog(stores ...Store) *Catalog {
	return &Catalog{stores: stores}
}

// Append archives a record and mirrors it to the attached stores. Store
// failures are logged and do not affect the catalog.
func (c *Catalog) Append(rec GameRecord) {
	c.mu.Lock()
	c.records = append(c.records, rec)
	n := len(c.records)
	c.mu.Unlock()

	obslog.L().Info("replay_archived",
		zap.String("record_id", rec.ID),
		zap.String("winner", rec.Winner.String()),
		zap.Int("plies", rec.Plies()),
		zap.Int("catalog_len", n),
	)

	for _, st := range c.stores {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := st.SaveRecord(ctx, rec); err != nil {
			obslog.L().Error("replay_store_error", zap.String("record_id", rec.ID), zap.Error(err))
		}
		cancel()
	}
}

// Len reports how many games have been archived.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Get returns the record at index, latest-appended last.
func (c *Catalog) Get(index int) (GameRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.records) {
		return GameRecord{}, false
	}
	return c.records[index], true
}

// Last returns the most recently archived record.
func (c *Catalog) Last() (GameRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.records) == 0 {
		return GameRecord{}, false
	}
	return c.records[len(c.records)-1], true
}
