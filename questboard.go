package questboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/questboard/internal/logging"
	"github.com/aretw0/questboard/internal/metrics"
	"github.com/aretw0/questboard/pkg/adapters/memory"
	"github.com/aretw0/questboard/pkg/board"
	"github.com/aretw0/questboard/pkg/domain"
	"github.com/aretw0/questboard/pkg/engine"
	"github.com/aretw0/questboard/pkg/ports"
	"github.com/aretw0/questboard/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the current questboard release.
const Version = "0.3.0"

// Bot is the high-level entry point for the questboard library.
// It wires the repository, session manager and workflow engine behind
// a single HandleEvent call so hosts only deal with events and views.
type Bot struct {
	store          ports.Store
	engine         *engine.Engine
	logger         *slog.Logger
	metrics        *metrics.Metrics
	inviteLinkBase string
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithStore injects a store backend, bypassing the default in-memory one.
func WithStore(s ports.Store) Option {
	return func(b *Bot) {
		b.store = s
	}
}

// WithLogger sets a structured logger for the bot.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithMetricsRegistry registers the workflow collectors on reg.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(b *Bot) {
		b.metrics = metrics.New(reg)
	}
}

// WithInviteLinkBase sets the base URL baked into group invite links.
func WithInviteLinkBase(base string) Option {
	return func(b *Bot) {
		b.inviteLinkBase = base
	}
}

// New initializes a new questboard Bot. The masterID identity gets the
// master role; everyone else is a player. Without WithStore the bot
// keeps all state in memory, which suits tests and local development.
func New(masterID string, opts ...Option) (*Bot, error) {
	if masterID == "" {
		return nil, fmt.Errorf("masterID is required")
	}

	b := &Bot{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.store == nil {
		b.store = memory.NewStore()
	}

	repoOpts := []board.Option{board.WithLogger(b.logger)}
	if b.inviteLinkBase != "" {
		repoOpts = append(repoOpts, board.WithInviteLinkBase(b.inviteLinkBase))
	}
	repo := board.New(b.store, repoOpts...)

	b.engine = engine.New(repo, session.NewManager(), masterID,
		engine.WithLogger(b.logger),
		engine.WithMetrics(b.metrics),
	)
	return b, nil
}

// HandleEvent runs one inbound chat event through the workflow and
// returns the render instruction for the transport.
func (b *Bot) HandleEvent(ctx context.Context, ev domain.Event) (domain.View, error) {
	return b.engine.HandleEvent(ctx, ev)
}

// Store exposes the configured backend, mainly for health checks.
func (b *Bot) Store() ports.Store {
	return b.store
}
