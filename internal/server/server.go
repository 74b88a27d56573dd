// Package server exposes a planning session over HTTP. A single goroutine
// owns the session and applies requests one at a time, so the ledger is
// never touched concurrently; readers get the last published snapshot.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/session"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	// RateLimit caps mutating requests per client IP per minute. Zero
	// disables limiting.
	RateLimit int
	Logger    *slog.Logger
}

// ErrStopped is returned for requests made after the owner loop exited.
var ErrStopped = errors.New("server stopped")

type request struct {
	fn    func(*session.Session) (any, error)
	reply chan response
}

type response struct {
	v   any
	err error
}

// Service provides the session owner loop and HTTP API.
type Service struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics

	reqs chan request
	done chan struct{}
	// sess is only touched by the owner loop after New returns.
	sess *session.Session

	mu          sync.RWMutex
	startedAt   time.Time
	state       State
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service that owns sess.
func New(sess *session.Session, cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}

	s := &Service{
		cfg:       cfg,
		logger:    log.WithComponent(logger, log.ComponentHTTP),
		metrics:   newMetrics(),
		reqs:      make(chan request),
		done:      make(chan struct{}),
		sess:      sess,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.state = buildState(sess)
	s.metrics.observeState(s.state)
	return s
}

// Loop applies queued requests until ctx is canceled. It must run exactly
// once.
func (s *Service) Loop(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.reqs:
			v, err := req.fn(s.sess)
			req.reply <- response{v: v, err: err}
		}
	}
}

// do runs fn on the owner goroutine and waits for its result.
func (s *Service) do(ctx context.Context, fn func(*session.Session) (any, error)) (any, error) {
	req := request{fn: fn, reply: make(chan response, 1)}
	select {
	case s.reqs <- req:
	case <-s.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.v, resp.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Serve runs the owner loop and the HTTP listener until ctx is canceled.
func (s *Service) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Service) ServeListener(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Loop(ctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("listening", log.FieldAddr, ln.Addr().String(), log.FieldSessionID, s.sess.ID())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// State returns the last published snapshot.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
