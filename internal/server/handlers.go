package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/secure"

	"github.com/theirongolddev/fsplan/internal/ledger"
	"github.com/theirongolddev/fsplan/internal/log"
	"github.com/theirongolddev/fsplan/internal/session"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// maxBody bounds request bodies; commands are tiny.
const maxBody = 64 << 10

// itemFields maps the {field} route segment to a command op.
var itemFields = map[string]session.Op{
	"budget":        session.OpBudget,
	"scaled-budget": session.OpScaledBudget,
	"quantity":      session.OpQuantity,
	"unit-cost":     session.OpUnitCost,
	"bounds":        session.OpBounds,
	"name":          session.OpRenameItem,
}

// valueRequest carries raw amount input. An empty or null value applies as
// zero, like every other amount path.
type valueRequest struct {
	Value  session.Input `json:"value"`
	Value2 session.Input `json:"value2"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)

		r.Group(func(r chi.Router) {
			if s.cfg.RateLimit > 0 {
				r.Use(httprate.Limit(s.cfg.RateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
						writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
					})))
			}
			r.Post("/commands", s.handleCommand)
			r.Put("/limit", s.handleLimit)
			r.Post("/groups", s.handleCreateGroup)
			r.Delete("/groups/{groupID}", s.handleDeleteGroup)
			r.Post("/groups/{groupID}/items/{itemKey}/{field}", s.handleItemField)
		})
	})
	return r
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.duration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Observe(elapsed.Seconds())
		s.logger.Debug("request",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatus, ww.Status(),
			log.FieldDuration, elapsed.Milliseconds())
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.State())
}

func (s *Service) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd session.Command
	if !decodeBody(w, r, &cmd) {
		return
	}
	s.apply(r.Context(), w, cmd)
}

func (s *Service) handleLimit(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.apply(r.Context(), w, session.Command{Op: session.OpLimit, Value: req.Value})
}

func (s *Service) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	s.applyStatus(r.Context(), w, session.Command{Op: session.OpCreate}, http.StatusCreated)
}

func (s *Service) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	s.apply(r.Context(), w, session.Command{Op: session.OpDelete, GroupID: chi.URLParam(r, "groupID")})
}

func (s *Service) handleItemField(w http.ResponseWriter, r *http.Request) {
	op, ok := itemFields[chi.URLParam(r, "field")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown item field %q", chi.URLParam(r, "field"))})
		return
	}
	var req valueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.apply(r.Context(), w, session.Command{
		Op:      op,
		GroupID: chi.URLParam(r, "groupID"),
		Item:    chi.URLParam(r, "itemKey"),
		Value:   req.Value,
		Value2:  req.Value2,
	})
}

func (s *Service) apply(ctx context.Context, w http.ResponseWriter, cmd session.Command) {
	s.applyStatus(ctx, w, cmd, http.StatusOK)
}

func (s *Service) applyStatus(ctx context.Context, w http.ResponseWriter, cmd session.Command, okStatus int) {
	v, err := s.do(ctx, func(sess *session.Session) (any, error) {
		out, err := sess.Apply(cmd)
		if err != nil {
			return nil, err
		}
		st := buildState(sess)
		s.commit(out, st)
		return commandResult(out, st), nil
	})
	if err != nil {
		status := statusFor(err)
		s.metrics.commands.WithLabelValues(string(cmd.Op), "rejected").Inc()
		if status >= http.StatusInternalServerError {
			s.logger.Error("command failed", log.FieldOperation, string(cmd.Op), log.FieldError, err)
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.commands.WithLabelValues(string(cmd.Op), "applied").Inc()
	writeJSON(w, okStatus, v)
}

// statusFor maps domain errors to HTTP status codes. Anything the session
// rejects that is not listed is a malformed request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrGroupNotFound), errors.Is(err, ledger.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrGroupLimitReached):
		return http.StatusConflict
	case errors.Is(err, ErrStopped), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusBadRequest
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
