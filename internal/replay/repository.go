package replay

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/kvistberg/chess-table/internal/domain"
	"github.com/kvistberg/chess-table/internal/rules"
)

// Repository archives finished games into postgres as PGN. Like the redis
// mirror it is write-only from the session's point of view.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveRecord upserts the finished game keyed by record id.
func (r *Repository) SaveRecord(ctx context.Context, rec GameRecord) error {
	if r == nil || r.db == nil {
		return nil
	}
	final := rec.Snapshots[len(rec.Snapshots)-1]
	san := rules.SANLine(final)
	sanRaw, _ := json.Marshal(san)
	pgn := buildPGN(rec, san)

	q := `INSERT INTO replay_games (
	    record_id, winner, plies, moves_san, pgn, final_fen, archived_at
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7
	  ) ON CONFLICT (record_id) DO UPDATE SET
	    winner=EXCLUDED.winner,
	    plies=EXCLUDED.plies,
	    moves_san=EXCLUDED.moves_san,
	    pgn=EXCLUDED.pgn,
	    final_fen=EXCLUDED.final_fen,
	    archived_at=EXCLUDED.archived_at`

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.Winner.String(), rec.Plies(),
		string(sanRaw), pgn, final.FEN(), rec.ArchivedAt,
	)
	return err
}

// PGN renders an archived record as a PGN document.
func PGN(rec GameRecord) string {
	if len(rec.Snapshots) == 0 {
		return ""
	}
	final := rec.Snapshots[len(rec.Snapshots)-1]
	return buildPGN(rec, rules.SANLine(final))
}

func buildPGN(rec GameRecord, san []string) string {
	var b strings.Builder
	date := rec.ArchivedAt
	if date.IsZero() {
		date = time.Now()
	}
	result := "1-0"
	if rec.Winner == domain.Black {
		result = "0-1"
	}
	b.WriteString("[Event \"Local game\"]\n")
	b.WriteString("[Site \"chess-table\"]\n")
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString("[White \"White\"]\n")
	b.WriteString("[Black \"Black\"]\n")
	b.WriteString("[Termination \"checkmate\"]\n")
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", result))

	for i := 0; i < len(san); i += 2 {
		turn := (i / 2) + 1
		b.WriteString(fmt.Sprintf("%d. %s", turn, strings.TrimSpace(san[i])))
		if i+1 < len(san) {
			b.WriteString(" ")
			b.WriteString(strings.TrimSpace(san[i+1]))
		}
		b.WriteString(" ")
	}
	b.WriteString(result)
	return b.String()
}
