package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/kvistberg/chess-table/internal/obslog"
	"github.com/kvistberg/chess-table/internal/render"
	"github.com/kvistberg/chess-table/internal/session"
	"github.com/kvistberg/chess-table/pkg/sessiondto"
)

const eventQueueSize = 64

// Server hosts the session over websockets. Clients send InputEvent JSON
// messages; the server answers every state change with a JSON StateUpdate
// followed by a binary PNG frame.
//
// All controller access happens on the single loop goroutine, so the
// session needs no locking of its own.
type Server struct {
	addr     string
	ctrl     *session.Controller
	renderer *render.Renderer

	events chan sessiondto.InputEvent

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}

	httpSrv *http.Server
}

func NewServer(addr string, ctrl *session.Controller, renderer *render.Renderer) *Server {
	s := &Server{
		addr:     addr,
		ctrl:     ctrl,
		renderer: renderer,
		events:   make(chan sessiondto.InputEvent, eventQueueSize),
		conns:    make(map[*websocket.Conn]struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.loop(loopCtx)

	errCh := make(chan error, 1)
	go func() {
		obslog.L().Info("listening", zap.String("addr", s.addr))
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, sc := context.WithTimeout(context.Background(), 5*time.Second)
		defer sc()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		obslog.L().Warn("ws_accept_failed", zap.Error(err))
		return
	}

	s.connMu.Lock()
	s.conns[conn] = struct{}{}
	n := len(s.conns)
	s.connMu.Unlock()
	obslog.L().Info("ws_connected", zap.Int("conns", n))

	// Wake the loop so the newcomer gets a frame right away.
	s.enqueue(sessiondto.InputEvent{Kind: "refresh"})

	defer func() {
		s.connMu.Lock()
		delete(s.conns, conn)
		s.connMu.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}()

	for {
		var ev sessiondto.InputEvent
		if err := wsjson.Read(r.Context(), conn, &ev); err != nil {
			return
		}
		s.enqueue(ev)
	}
}

// enqueue drops events when the loop is saturated; input is best effort.
func (s *Server) enqueue(ev sessiondto.InputEvent) {
	select {
	case s.events <- ev:
	default:
		obslog.L().Warn("event_dropped", zap.String("kind", ev.Kind))
	}
}

func (s *Server) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.applyEvent(ev)
			// Coalesce whatever else is already queued before drawing.
		drain:
			for {
				select {
				case next := <-s.events:
					s.applyEvent(next)
				default:
					break drain
				}
			}
			s.broadcastFrame(ctx)
		}
	}
}

func (s *Server) applyEvent(ev sessiondto.InputEvent) {
	switch ev.Kind {
	case sessiondto.KindPointerDown:
		if sq, ok := s.renderer.SquareAt(ev.X, ev.Y); ok {
			s.ctrl.PointerDown(sq)
		}
	case sessiondto.KindPointerUp:
		if sq, ok := s.renderer.SquareAt(ev.X, ev.Y); ok {
			s.ctrl.PointerUp(sq)
			return
		}
		// Released outside the board: put the piece back.
		if v := s.ctrl.View(); v.Grabbed != nil {
			s.ctrl.PointerUp(*v.Grabbed)
		}
	case sessiondto.KindNewGame:
		s.ctrl.NewGame()
	case sessiondto.KindReplayEnter:
		s.ctrl.EnterReplay(ev.Index)
	case sessiondto.KindReplayStep:
		s.ctrl.ReplayStep(ev.Delta)
	case sessiondto.KindReplayExit:
		s.ctrl.ExitReplay()
	}
}

func (s *Server) broadcastFrame(ctx context.Context) {
	v := s.ctrl.View()
	frame, err := s.renderer.RenderPNG(ctx, v)
	if err != nil {
		obslog.L().Error("render_failed", zap.Error(err))
		return
	}
	state := sessiondto.StateUpdate{
		Phase:        v.Phase.String(),
		SideToMove:   v.SideToMove.String(),
		ReplayCursor: v.ReplayCursor,
		ReplayLength: v.ReplayLength,
		ArchivedGame: s.ctrl.Catalog().Len(),
	}

	s.connMu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.connMu.Unlock()

	for _, c := range conns {
		wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := wsjson.Write(wctx, c, state); err == nil {
			err = c.Write(wctx, websocket.MessageBinary, frame)
			if err != nil {
				obslog.L().Debug("ws_write_failed", zap.Error(err))
			}
		}
		cancel()
	}
}
