// Package httpapi exposes the workflow engine to a hosting transport
// over HTTP: the delivery layer posts inbound chat events and receives
// the render instruction to relay back to the user. It also serves the
// health and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/questboard/internal/logging"
	"github.com/aretw0/questboard/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the slice of the workflow core the transport needs.
type Engine interface {
	HandleEvent(ctx context.Context, ev domain.Event) (domain.View, error)
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventRequest is the inbound event envelope.
// Type selects which fields apply: "command" (name, args),
// "button" (callback) or "text" (body).
type EventRequest struct {
	Type     string   `json:"type"`
	From     string   `json:"from"`
	Name     string   `json:"name,omitempty"`
	Args     []string `json:"args,omitempty"`
	Callback string   `json:"callback,omitempty"`
	Body     string   `json:"body,omitempty"`
}

// OptionResponse is one rendered button.
type OptionResponse struct {
	Label    string `json:"label"`
	ActionID string `json:"action_id"`
}

// ViewResponse is the render instruction returned to the transport.
type ViewResponse struct {
	Text    string           `json:"text"`
	Options []OptionResponse `json:"options"`
	Edit    bool             `json:"edit"`
}

// Option configures the handler.
type Option func(*server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *server) {
		s.logger = logger
	}
}

// WithPinger wires the store into /healthz.
func WithPinger(p Pinger) Option {
	return func(s *server) {
		s.pinger = p
	}
}

// WithMetricsRegistry serves the registry on /metrics.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(s *server) {
		s.registry = reg
	}
}

type server struct {
	engine   Engine
	logger   *slog.Logger
	pinger   Pinger
	registry *prometheus.Registry
}

// NewHandler builds the HTTP handler around an engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/v1/events", s.handleEvent)
	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	ev, ok := req.toEvent()
	if !ok {
		http.Error(w, "unknown event type or missing sender", http.StatusBadRequest)
		return
	}

	view, err := s.engine.HandleEvent(r.Context(), ev)
	if err != nil {
		s.logger.Error("event handling failed", "from", req.From, "err", err)
		http.Error(w, "event handling failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toViewResponse(view)); err != nil {
		s.logger.Error("response encoding failed", "err", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", "err", err)
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (r EventRequest) toEvent() (domain.Event, bool) {
	if r.From == "" {
		return nil, false
	}
	switch r.Type {
	case "command":
		return domain.Command{Name: r.Name, Args: r.Args, User: r.From}, true
	case "button":
		return domain.ButtonPress{Callback: r.Callback, User: r.From}, true
	case "text":
		return domain.TextMessage{Body: r.Body, User: r.From}, true
	}
	return nil, false
}

func toViewResponse(v domain.View) ViewResponse {
	resp := ViewResponse{
		Text:    v.Text,
		Options: make([]OptionResponse, 0, len(v.Buttons)),
		Edit:    v.Edit,
	}
	for _, b := range v.Buttons {
		resp.Options = append(resp.Options, OptionResponse{
			Label:    b.Label,
			ActionID: b.Action.Callback(),
		})
	}
	return resp
}
