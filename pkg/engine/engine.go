// Package engine implements the conversational workflow core: two
// finite-state machines (master and player) sharing one entity model,
// driven by inbound chat events and rendering one view per event.
//
// The engine holds no domain data of its own. Handlers read and write
// the board repository, move the per-user session cursor, and return
// the render instruction for the resulting state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/questboard/internal/logging"
	"github.com/aretw0/questboard/internal/metrics"
	"github.com/aretw0/questboard/pkg/board"
	"github.com/aretw0/questboard/pkg/domain"
	"github.com/aretw0/questboard/pkg/session"
)

type role string

const (
	roleMaster role = "master"
	rolePlayer role = "player"
)

// User-facing messages for the error taxonomy.
const (
	msgTryAgain    = "Something went wrong, please try again."
	msgGone        = "That doesn't exist anymore."
	msgBadInvite   = "That invite link is no longer valid."
	msgCancelled   = "Cancelled."
	msgNoGroups    = "There are no groups yet."
	msgNoTasks     = "This group has no tasks yet."
	msgNotInGroups = "You're not in any group yet. Open an invite link to join one."
)

// Engine dispatches events against per-user sessions.
type Engine struct {
	repo     *board.Repository
	sessions *session.Manager
	masterID string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics wires prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an Engine. masterID is the single privileged identity;
// every other identity is routed to the player machine.
func New(repo *board.Repository, sessions *session.Manager, masterID string, opts ...Option) *Engine {
	e := &Engine{
		repo:     repo,
		sessions: sessions,
		masterID: masterID,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleEvent processes one inbound event and returns the render
// instruction for the transport. Events for the same identity are
// handled strictly sequentially; distinct identities proceed
// concurrently.
//
// Domain-level failures never escape as errors: NotFound resets the
// session to a safe menu, StoreUnavailable leaves the session untouched
// so the same event can be retried, and invalid status transitions
// re-render the current view unchanged.
func (e *Engine) HandleEvent(ctx context.Context, ev domain.Event) (domain.View, error) {
	user := ev.From()
	if user == "" {
		return domain.View{}, fmt.Errorf("event without sender")
	}

	r := rolePlayer
	if user == e.masterID {
		r = roleMaster
	}
	e.metrics.ObserveEvent(string(r), eventKind(ev))

	var view domain.View
	err := e.sessions.WithSession(ctx, user, func(s *domain.Session) error {
		snapshot := *s

		v, err := e.step(ctx, s, ev, r)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrStoreUnavailable):
			e.metrics.ObserveStoreError()
			e.logger.Error("store unavailable", "user_id", user, "err", err)
			// Unwind so the same event can be retried safely.
			*s = snapshot
			v = domain.View{Text: msgTryAgain}
		case errors.Is(err, domain.ErrNotFound):
			// A handler raced a deletion; park the session at its root.
			s.Reset(rootState(r))
			v, err = e.renderState(ctx, s, r)
			if err != nil {
				*s = snapshot
				v = domain.View{Text: msgTryAgain}
			} else {
				v = v.WithNotice(msgGone)
			}
		default:
			return err
		}

		// A handler that leaves the session stateless ends it; the
		// manager discards such sessions before releasing the lock.
		view = v
		return nil
	})
	if err != nil {
		return domain.View{}, err
	}

	// Button presses edit the originating message in place; commands and
	// text produce a new one.
	if _, ok := ev.(domain.ButtonPress); ok {
		view.Edit = true
	}
	return view, nil
}

// step routes one event to the right handler for (role, state, event).
func (e *Engine) step(ctx context.Context, s *domain.Session, ev domain.Event, r role) (domain.View, error) {
	switch ev := ev.(type) {
	case domain.Command:
		return e.handleCommand(ctx, s, ev, r)

	case domain.ButtonPress:
		action, err := domain.ParseAction(ev.Callback)
		if err != nil {
			// Stale or foreign callback: no-op re-render.
			e.logger.Warn("ignoring unknown callback", "user_id", s.UserID, "err", err)
			return e.renderState(ctx, s, r)
		}
		if action.Kind == domain.ActionBack {
			return e.navigateBack(ctx, s, r)
		}
		if r == roleMaster {
			return e.masterAction(ctx, s, action)
		}
		return e.playerAction(ctx, s, action)

	case domain.TextMessage:
		if r == roleMaster {
			return e.masterText(ctx, s, strings.TrimSpace(ev.Body))
		}
		// Players have no prompt states; free text re-renders.
		return e.renderState(ctx, s, r)
	}

	return e.renderState(ctx, s, r)
}

// handleCommand interprets slash commands. A /start carrying a join
// token short-circuits whatever flow is in progress: invite-link
// joining always wins.
func (e *Engine) handleCommand(ctx context.Context, s *domain.Session, cmd domain.Command, r role) (domain.View, error) {
	switch strings.TrimPrefix(cmd.Name, "/") {
	case "start":
		if len(cmd.Args) > 0 {
			if groupID, ok := domain.ParseJoinPayload(cmd.Args[0]); ok {
				return e.handleJoin(ctx, s, groupID, r)
			}
		}
		s.Reset(rootState(r))
		return e.renderState(ctx, s, r)

	case "cancel":
		s.Reset(rootState(r))
		v, err := e.renderState(ctx, s, r)
		if err != nil {
			return domain.View{}, err
		}
		return v.WithNotice(msgCancelled), nil
	}

	// Unknown command: no-op re-render.
	return e.renderState(ctx, s, r)
}

func (e *Engine) handleJoin(ctx context.Context, s *domain.Session, groupID string, r role) (domain.View, error) {
	err := e.repo.AddMember(ctx, s.UserID, groupID)
	if errors.Is(err, domain.ErrNotFound) {
		s.Reset(rootState(r))
		v, rerr := e.renderState(ctx, s, r)
		if rerr != nil {
			return domain.View{}, rerr
		}
		return v.WithNotice(msgBadInvite), nil
	}
	if err != nil {
		return domain.View{}, err
	}

	g, err := e.repo.GetGroup(ctx, groupID)
	if err != nil {
		return domain.View{}, err
	}

	s.Reset(rootState(r))
	v, err := e.renderState(ctx, s, r)
	if err != nil {
		return domain.View{}, err
	}
	return v.WithNotice(fmt.Sprintf("You joined %q!", g.Name)), nil
}

// parentState is the static back-navigation map. Root menu states have
// no entry: back at the root is a no-op.
var parentState = map[domain.SessionState]domain.SessionState{
	domain.StateGroupCreatePrompt:     domain.StateMasterMenu,
	domain.StateGroupEditList:         domain.StateMasterMenu,
	domain.StateGroupActions:          domain.StateGroupEditList,
	domain.StateTaskGroupPicker:       domain.StateMasterMenu,
	domain.StateTaskNamePrompt:        domain.StateTaskGroupPicker,
	domain.StateTaskDescriptionPrompt: domain.StateTaskNamePrompt,
	domain.StateTaskCustomerPrompt:    domain.StateTaskDescriptionPrompt,
	domain.StateTaskEditGroupPicker:   domain.StateMasterMenu,
	domain.StateTaskEditTaskPicker:    domain.StateTaskEditGroupPicker,
	domain.StateTaskEditDetail:        domain.StateTaskEditTaskPicker,
	domain.StateGroupTaskList:         domain.StatePlayerMenu,
	domain.StateTaskDetail:            domain.StateGroupTaskList,
}

func (e *Engine) navigateBack(ctx context.Context, s *domain.Session, r role) (domain.View, error) {
	parent, ok := parentState[s.State]
	if !ok {
		return e.renderState(ctx, s, r)
	}

	switch parent {
	case domain.StateMasterMenu, domain.StatePlayerMenu:
		// Reaching a root cancels selections and any draft.
		s.Reset(parent)
	case domain.StateGroupTaskList, domain.StateTaskEditTaskPicker:
		s.SelectedTaskID = ""
		s.State = parent
	default:
		s.State = parent
	}
	return e.renderState(ctx, s, r)
}

// renderState produces the screen for the session's current state,
// re-querying the repository so listings are always fresh.
func (e *Engine) renderState(ctx context.Context, s *domain.Session, r role) (domain.View, error) {
	if r == roleMaster {
		return e.renderMasterState(ctx, s)
	}
	return e.renderPlayerState(ctx, s)
}

func rootState(r role) domain.SessionState {
	if r == roleMaster {
		return domain.StateMasterMenu
	}
	return domain.StatePlayerMenu
}

func eventKind(ev domain.Event) string {
	switch ev.(type) {
	case domain.Command:
		return "command"
	case domain.ButtonPress:
		return "button"
	case domain.TextMessage:
		return "text"
	}
	return "unknown"
}

func backButton() domain.Button {
	return domain.Button{Label: "Back", Action: domain.Action{Kind: domain.ActionBack}}
}
