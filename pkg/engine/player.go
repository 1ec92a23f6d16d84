package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/questboard/pkg/domain"
)

// renderPlayerState renders the player machine's screen for the
// session's current state.
func (e *Engine) renderPlayerState(ctx context.Context, s *domain.Session) (domain.View, error) {
	switch s.State {
	case domain.StateGroupTaskList:
		return e.renderGroupTaskList(ctx, s)

	case domain.StateTaskDetail:
		t, err := e.repo.GetTask(ctx, s.SelectedTaskID)
		if err != nil {
			return domain.View{}, err
		}
		v := renderTaskDetail(t)
		v.Buttons = append(statusButtons(t), backButton())
		return v, nil
	}

	return e.renderPlayerMenu(ctx, s)
}

// renderPlayerMenu lists the player's groups. A player in no groups
// gets a terminal informational message and the session is discarded.
func (e *Engine) renderPlayerMenu(ctx context.Context, s *domain.Session) (domain.View, error) {
	ids, err := e.repo.ListUserGroups(ctx, s.UserID)
	if err != nil {
		return domain.View{}, err
	}

	v := domain.View{Text: "Your groups:"}
	for _, id := range ids {
		g, err := e.repo.GetGroup(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.View{}, err
		}
		v.Buttons = append(v.Buttons, domain.Button{
			Label:  g.Name,
			Action: domain.Action{Kind: domain.ActionSelectGroup, ID: g.ID},
		})
	}

	if len(v.Buttons) == 0 {
		s.Reset("")
		return domain.View{Text: msgNotInGroups}, nil
	}

	s.State = domain.StatePlayerMenu
	return v, nil
}

// renderGroupTaskList lists the selected group's tasks. A group with no
// tasks sends the player back to their menu with a notice.
func (e *Engine) renderGroupTaskList(ctx context.Context, s *domain.Session) (domain.View, error) {
	g, err := e.repo.GetGroup(ctx, s.SelectedGroupID)
	if err != nil {
		return domain.View{}, err
	}

	v := domain.View{Text: fmt.Sprintf("Tasks in %q:", g.Name)}
	for _, id := range g.Tasks {
		t, err := e.repo.GetTask(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.View{}, err
		}
		v.Buttons = append(v.Buttons, domain.Button{
			Label:  fmt.Sprintf("%s (%s)", t.Name, statusLabel(t.Status)),
			Action: domain.Action{Kind: domain.ActionSelectTask, ID: t.ID},
		})
	}

	if len(v.Buttons) == 0 {
		s.Reset(domain.StatePlayerMenu)
		menu, err := e.renderPlayerMenu(ctx, s)
		if err != nil {
			return domain.View{}, err
		}
		return menu.WithNotice(msgNoTasks), nil
	}

	v.Buttons = append(v.Buttons, backButton())
	return v, nil
}

// playerAction handles a non-back button press on the player machine.
func (e *Engine) playerAction(ctx context.Context, s *domain.Session, a domain.Action) (domain.View, error) {
	switch s.State {
	case domain.StatePlayerMenu, "":
		if a.Kind == domain.ActionSelectGroup {
			ids, err := e.repo.ListUserGroups(ctx, s.UserID)
			if err != nil {
				return domain.View{}, err
			}
			if !slices.Contains(ids, a.ID) {
				// Stale button or a group the player never joined.
				return domain.View{}, fmt.Errorf("group %s: %w", a.ID, domain.ErrNotFound)
			}
			s.SelectedGroupID = a.ID
			s.State = domain.StateGroupTaskList
		}
		return e.renderPlayerState(ctx, s)

	case domain.StateGroupTaskList:
		if a.Kind == domain.ActionSelectTask {
			t, err := e.repo.GetTask(ctx, a.ID)
			if err != nil {
				return domain.View{}, err
			}
			if t.GroupID != s.SelectedGroupID {
				// Cross-group callback, treat as gone.
				return domain.View{}, fmt.Errorf("task %s: %w", a.ID, domain.ErrNotFound)
			}
			s.SelectedTaskID = a.ID
			s.State = domain.StateTaskDetail
		}
		return e.renderPlayerState(ctx, s)

	case domain.StateTaskDetail:
		if ev, ok := statusEventFor(a.Kind); ok {
			return e.applyStatusEvent(ctx, s, ev)
		}
		return e.renderPlayerState(ctx, s)
	}

	return e.renderPlayerState(ctx, s)
}

// applyStatusEvent runs the transition table against the selected task.
// Rejected pairs are silent no-ops: the detail view is re-rendered
// unchanged.
func (e *Engine) applyStatusEvent(ctx context.Context, s *domain.Session, ev domain.StatusEvent) (domain.View, error) {
	t, err := e.repo.GetTask(ctx, s.SelectedTaskID)
	if err != nil {
		return domain.View{}, err
	}

	next, err := t.Status.Next(ev)
	if errors.Is(err, domain.ErrInvalidTransition) {
		e.metrics.ObserveTransition(string(ev), "rejected")
		v := renderTaskDetail(t)
		v.Buttons = append(statusButtons(t), backButton())
		return v, nil
	}

	if err := e.repo.SetTaskStatus(ctx, t.ID, next); err != nil {
		return domain.View{}, err
	}
	e.metrics.ObserveTransition(string(ev), "applied")

	t.Status = next
	v := renderTaskDetail(t)
	v.Buttons = append(statusButtons(t), backButton())
	return v, nil
}

func statusEventFor(kind domain.ActionKind) (domain.StatusEvent, bool) {
	switch kind {
	case domain.ActionTake:
		return domain.EventTake, true
	case domain.ActionComplete:
		return domain.EventComplete, true
	case domain.ActionCancelClaim:
		return domain.EventCancelClaim, true
	}
	return "", false
}

// statusButtons offers only the transitions valid for the current
// status; stale presses of outdated buttons are rejected by the table
// anyway.
func statusButtons(t *domain.Task) []domain.Button {
	switch t.Status {
	case domain.StatusOpen:
		return []domain.Button{
			{Label: "Take", Action: domain.Action{Kind: domain.ActionTake, ID: t.ID}},
		}
	case domain.StatusClaimed:
		return []domain.Button{
			{Label: "Complete", Action: domain.Action{Kind: domain.ActionComplete, ID: t.ID}},
			{Label: "Cancel claim", Action: domain.Action{Kind: domain.ActionCancelClaim, ID: t.ID}},
		}
	}
	return nil
}

func renderTaskDetail(t *domain.Task) domain.View {
	return domain.View{
		Text: fmt.Sprintf("%s\n\n%s\n\nCustomer: %s\nStatus: %s",
			t.Name, t.Description, t.Customer, statusLabel(t.Status)),
	}
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusOpen:
		return "Open"
	case domain.StatusClaimed:
		return "Claimed"
	case domain.StatusDone:
		return "Done"
	}
	return string(s)
}
