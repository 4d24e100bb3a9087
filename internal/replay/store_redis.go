package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const recordTTL = 24 * time.Hour

// RedisStore mirrors archived records into redis for external observation.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for replay mirror")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

type recordPayload struct {
	ID         string    `json:"id"`
	Winner     string    `json:"winner"`
	Plies      int       `json:"plies"`
	FENs       []string  `json:"fens"`
	ArchivedAt time.Time `json:"archived_at"`
}

// SaveRecord writes the record under its own key and appends the id to the
// archive index.
func (s *RedisStore) SaveRecord(ctx context.Context, rec GameRecord) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis store not initialized")
	}
	payload := recordPayload{
		ID:         rec.ID,
		Winner:     rec.Winner.String(),
		Plies:      rec.Plies(),
		FENs:       make([]string, 0, len(rec.Snapshots)),
		ArchivedAt: rec.ArchivedAt,
	}
	for _, snap := range rec.Snapshots {
		payload.FENs = append(payload.FENs, snap.FEN())
	}
	raw, err := json.Marshal(&payload)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, recordKey(rec.ID), raw, recordTTL).Err(); err != nil {
		return err
	}
	if err := s.rdb.RPush(ctx, indexKey(), rec.ID).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, indexKey(), recordTTL).Err()
}

func recordKey(id string) string { return "replay:record:" + strings.TrimSpace(id) }
func indexKey() string           { return "replay:index" }

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
