package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/feedback/pkg/eventbus"
	"github.com/vango-dev/feedback/pkg/feedback"
)

// Server relays a feedback Manager over HTTP and WebSocket.
type Server struct {
	cfg     *Config
	manager *feedback.Manager
	logger  *slog.Logger
	router  chi.Router

	httpSrv *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
	unsubs  []eventbus.UnsubscribeFunc
	started bool
}

// New creates a Server for the given Manager. A nil cfg uses
// DefaultConfig; a nil logger uses slog.Default.
func New(manager *feedback.Manager, cfg *Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg.withDefaults(),
		manager: manager,
		logger:  logger.With("component", "feedback_server"),
		clients: make(map[*client]struct{}),
	}
	s.router = s.routes()
	s.attach()
	return s
}

// Handler returns the HTTP handler, for mounting in an existing server or
// driving with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/feedback", func(r chi.Router) {
		// Tracing stays off /ws: its response wrapper would hide the
		// Hijacker the websocket upgrade needs.
		r.Use(Tracing(WithTracerName("feedback-server")))
		r.Get("/", s.handleList)
		r.Post("/", s.handleAdd)
		r.Delete("/", s.handleRemoveAll)
		r.Get("/{id}", s.handleGet)
		r.Patch("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleRemove)
	})

	r.Get("/ws", s.handleWebSocket)
	return r
}

// Start begins serving on cfg.Addr. It blocks until ctx is cancelled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.detach()
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown closes the WebSocket clients, detaches from the Manager, and
// stops the HTTP listener gracefully.
func (s *Server) Shutdown() error {
	s.detach()

	s.mu.Lock()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
	s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

// attach subscribes a broadcast handler to every Manager event.
func (s *Server) attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	for _, event := range feedback.Events {
		event := event
		s.unsubs = append(s.unsubs, s.manager.On(event, func(payload any) {
			s.broadcast(event, payload)
		}))
	}
}

func (s *Server) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.started = false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
