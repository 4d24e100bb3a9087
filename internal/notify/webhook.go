package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/kvistberg/chess-table/internal/obslog"
	"github.com/kvistberg/chess-table/internal/replay"
	"github.com/kvistberg/chess-table/internal/rules"
)

// Webhook posts a JSON summary of a finished game to an external endpoint.
// Delivery is best effort: failures are logged, never surfaced to the
// session.
type Webhook struct {
	url  string
	http *fasthttp.Client

	timeout  time.Duration
	retryMax int
}

type Option func(*Webhook)

func WithTimeout(d time.Duration) Option {
	return func(w *Webhook) { w.timeout = d }
}

func WithRetry(max int) Option {
	return func(w *Webhook) { w.retryMax = max }
}

func NewWebhook(url string, opts ...Option) *Webhook {
	w := &Webhook{
		url:      strings.TrimSpace(url),
		http:     &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 8},
		timeout:  10 * time.Second,
		retryMax: 3,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enabled reports whether an endpoint is configured.
func (w *Webhook) Enabled() bool { return w != nil && w.url != "" }

type gameOverPayload struct {
	RecordID string   `json:"record_id"`
	Winner   string   `json:"winner"`
	Plies    int      `json:"plies"`
	MovesSAN []string `json:"moves_san"`
	PGN      string   `json:"pgn"`
	FinalFEN string   `json:"final_fen"`
}

// GameOver delivers the finished game. Safe to call with a disabled
// webhook.
func (w *Webhook) GameOver(ctx context.Context, rec replay.GameRecord) {
	if !w.Enabled() || len(rec.Snapshots) == 0 {
		return
	}
	final := rec.Snapshots[len(rec.Snapshots)-1]
	payload := gameOverPayload{
		RecordID: rec.ID,
		Winner:   rec.Winner.String(),
		Plies:    rec.Plies(),
		MovesSAN: rules.SANLine(final),
		PGN:      replay.PGN(rec),
		FinalFEN: final.FEN(),
	}
	if err := w.postJSON(ctx, payload); err != nil {
		obslog.L().Error("webhook_error", zap.String("record_id", rec.ID), zap.Error(err))
		return
	}
	obslog.L().Info("webhook_sent", zap.String("record_id", rec.ID))
}

func (w *Webhook) postJSON(ctx context.Context, in any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(w.url)
	req.Header.SetContentType("application/json")

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req.SetBody(payload)

	attempts := w.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		deadline := w.computeDeadline(ctx)
		err := w.http.DoDeadline(req, resp, deadline)
		if err != nil {
			if attempt == attempts {
				return fmt.Errorf("request failed: %w", err)
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := fmt.Errorf("webhook status=%d body=%s", status, truncate(string(resp.Body()), 512))
			if attempt == attempts || !shouldRetryStatus(status) {
				return err
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func (w *Webhook) computeDeadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		clientDL := time.Now().Add(w.timeout)
		if dl.Before(clientDL) {
			return dl
		}
		return clientDL
	}
	return time.Now().Add(w.timeout)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
