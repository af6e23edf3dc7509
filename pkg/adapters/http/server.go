// Package http exposes the assistant on a local HTTP endpoint.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/listener"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SourceHTTP names submissions received over HTTP.
const SourceHTTP = "http"

// maxBodySize bounds the request body.
const maxBodySize = 64 << 10

// Asker submits an utterance and waits for its outcome.
// *listener.Queue implements it.
type Asker interface {
	Ask(ctx context.Context, text, source string) (companion.Outcome, error)
}

// SubmitRequest is the body of POST /submit.
type SubmitRequest struct {
	Text string `json:"text"`
}

// SubmitResponse is the reply of POST /submit.
type SubmitResponse struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Statuses []string          `json:"statuses"`
	Actions  domain.ActionList `json:"actions"`
	Quit     bool              `json:"quit"`
}

// Server handles the HTTP routes.
type Server struct {
	asker    Asker
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer serves the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the router: POST /submit, GET /health, GET /info and GET /metrics.
func NewHandler(asker Asker, opts ...Option) http.Handler {
	s := &Server{
		asker:    asker,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/submit", s.Submit)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

// Submit handles the POST /submit request.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Submit: Invalid request body", "err", err)
		return
	}

	text, err := listener.Sanitize(body.Text)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, listener.ErrInputTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		s.logger.Warn("Submit: Input rejected", "err", err, "size", len(body.Text))
		return
	}
	if text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	out, err := s.asker.Ask(r.Context(), text, SourceHTTP)
	if err != nil {
		http.Error(w, "Submission cancelled", http.StatusServiceUnavailable)
		s.logger.Warn("Submit: Not completed", "err", err)
		return
	}

	resp := SubmitResponse{
		ID:       out.ID,
		Status:   out.Status,
		Statuses: out.Statuses,
		Actions:  out.Actions,
		Quit:     out.Quit,
	}
	if resp.Statuses == nil {
		resp.Statuses = []string{}
	}

	writeJSON(w, resp)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"app":     "companion-http",
		"version": strings.TrimSpace(companion.Version),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}
