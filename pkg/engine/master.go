package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/questboard/pkg/domain"
)

// renderMasterState renders the master machine's screen for the
// session's current state. Listing states that come up empty collapse
// to the master menu with an informational notice instead of rendering
// an empty selectable list.
func (e *Engine) renderMasterState(ctx context.Context, s *domain.Session) (domain.View, error) {
	switch s.State {
	case domain.StateGroupCreatePrompt:
		return promptView("Send the new group's name."), nil

	case domain.StateGroupEditList:
		return e.renderGroupPicker(ctx, s, "Pick a group to edit:")

	case domain.StateGroupActions:
		g, err := e.repo.GetGroup(ctx, s.SelectedGroupID)
		if err != nil {
			return domain.View{}, err
		}
		return renderGroupActions(g), nil

	case domain.StateTaskGroupPicker:
		return e.renderGroupPicker(ctx, s, "Pick a group for the new task:")

	case domain.StateTaskNamePrompt:
		return promptView("Send the task name."), nil

	case domain.StateTaskDescriptionPrompt:
		return promptView("Send the task description."), nil

	case domain.StateTaskCustomerPrompt:
		return promptView("Who is the customer?"), nil

	case domain.StateTaskEditGroupPicker:
		return e.renderGroupPicker(ctx, s, "Pick a group to see its tasks:")

	case domain.StateTaskEditTaskPicker:
		return e.renderTaskPicker(ctx, s)

	case domain.StateTaskEditDetail:
		t, err := e.repo.GetTask(ctx, s.SelectedTaskID)
		if err != nil {
			return domain.View{}, err
		}
		v := renderTaskDetail(t)
		v.Buttons = append([]domain.Button{{
			Label:  "Delete task",
			Action: domain.Action{Kind: domain.ActionDeleteTask, ID: t.ID},
		}}, backButton())
		return v, nil
	}

	// Root (or a fresh session).
	s.State = domain.StateMasterMenu
	return masterMenuView(), nil
}

func masterMenuView() domain.View {
	return domain.View{
		Text: "Master menu",
		Buttons: []domain.Button{
			{Label: "Create group", Action: domain.Action{Kind: domain.ActionCreateGroup}},
			{Label: "Edit groups", Action: domain.Action{Kind: domain.ActionEditGroups}},
			{Label: "Create task", Action: domain.Action{Kind: domain.ActionCreateTask}},
			{Label: "Edit tasks", Action: domain.Action{Kind: domain.ActionEditTasks}},
		},
	}
}

func promptView(text string) domain.View {
	return domain.View{Text: text, Buttons: []domain.Button{backButton()}}
}

// renderGroupPicker lists all groups as buttons. With no groups the
// session collapses to the master menu.
func (e *Engine) renderGroupPicker(ctx context.Context, s *domain.Session, title string) (domain.View, error) {
	groups, err := e.repo.ListGroups(ctx)
	if err != nil {
		return domain.View{}, err
	}
	if len(groups) == 0 {
		s.Reset(domain.StateMasterMenu)
		return masterMenuView().WithNotice(msgNoGroups), nil
	}

	v := domain.View{Text: title}
	for _, g := range groups {
		v.Buttons = append(v.Buttons, domain.Button{
			Label:  g.Name,
			Action: domain.Action{Kind: domain.ActionSelectGroup, ID: g.ID},
		})
	}
	v.Buttons = append(v.Buttons, backButton())
	return v, nil
}

// renderTaskPicker lists the selected group's tasks. A group with no
// tasks collapses to the master menu.
func (e *Engine) renderTaskPicker(ctx context.Context, s *domain.Session) (domain.View, error) {
	ids, err := e.repo.ListGroupTasks(ctx, s.SelectedGroupID)
	if err != nil {
		return domain.View{}, err
	}

	v := domain.View{Text: "Pick a task:"}
	for _, id := range ids {
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
		s.Reset(domain.StateMasterMenu)
		return masterMenuView().WithNotice(msgNoTasks), nil
	}
	v.Buttons = append(v.Buttons, backButton())
	return v, nil
}

func renderGroupActions(g *domain.Group) domain.View {
	return domain.View{
		Text: fmt.Sprintf("Group %q\nMembers: %d\nTasks: %d", g.Name, len(g.Members), len(g.Tasks)),
		Buttons: []domain.Button{
			{Label: "Show invite link", Action: domain.Action{Kind: domain.ActionShowInvite, ID: g.ID}},
			{Label: "Delete group", Action: domain.Action{Kind: domain.ActionDeleteGroup, ID: g.ID}},
			backButton(),
		},
	}
}

// masterAction handles a non-back button press on the master machine.
func (e *Engine) masterAction(ctx context.Context, s *domain.Session, a domain.Action) (domain.View, error) {
	switch s.State {
	case domain.StateMasterMenu, "":
		switch a.Kind {
		case domain.ActionCreateGroup:
			s.State = domain.StateGroupCreatePrompt
		case domain.ActionEditGroups:
			s.State = domain.StateGroupEditList
		case domain.ActionCreateTask:
			s.State = domain.StateTaskGroupPicker
		case domain.ActionEditTasks:
			s.State = domain.StateTaskEditGroupPicker
		}
		return e.renderMasterState(ctx, s)

	case domain.StateGroupEditList:
		if a.Kind == domain.ActionSelectGroup {
			if _, err := e.repo.GetGroup(ctx, a.ID); err != nil {
				return domain.View{}, err
			}
			s.SelectedGroupID = a.ID
			s.State = domain.StateGroupActions
		}
		return e.renderMasterState(ctx, s)

	case domain.StateGroupActions:
		switch a.Kind {
		case domain.ActionShowInvite:
			g, err := e.repo.GetGroup(ctx, s.SelectedGroupID)
			if err != nil {
				return domain.View{}, err
			}
			return renderGroupActions(g).WithNotice("Invite link:\n" + g.InviteLink), nil

		case domain.ActionDeleteGroup:
			id := a.ID
			if id == "" {
				id = s.SelectedGroupID
			}
			if err := e.repo.DeleteGroup(ctx, id); err != nil {
				return domain.View{}, err
			}
			s.Reset(domain.StateMasterMenu)
			return masterMenuView().WithNotice("Group deleted."), nil
		}
		return e.renderMasterState(ctx, s)

	case domain.StateTaskGroupPicker:
		if a.Kind == domain.ActionSelectGroup {
			if _, err := e.repo.GetGroup(ctx, a.ID); err != nil {
				return domain.View{}, err
			}
			s.SelectedGroupID = a.ID
			s.State = domain.StateTaskNamePrompt
		}
		return e.renderMasterState(ctx, s)

	case domain.StateTaskEditGroupPicker:
		if a.Kind == domain.ActionSelectGroup {
			if _, err := e.repo.GetGroup(ctx, a.ID); err != nil {
				return domain.View{}, err
			}
			s.SelectedGroupID = a.ID
			s.State = domain.StateTaskEditTaskPicker
		}
		return e.renderMasterState(ctx, s)

	case domain.StateTaskEditTaskPicker:
		if a.Kind == domain.ActionSelectTask {
			if _, err := e.repo.GetTask(ctx, a.ID); err != nil {
				return domain.View{}, err
			}
			s.SelectedTaskID = a.ID
			s.State = domain.StateTaskEditDetail
		}
		return e.renderMasterState(ctx, s)

	case domain.StateTaskEditDetail:
		if a.Kind == domain.ActionDeleteTask {
			id := a.ID
			if id == "" {
				id = s.SelectedTaskID
			}
			if err := e.repo.DeleteTask(ctx, id); err != nil {
				return domain.View{}, err
			}
			s.Reset(domain.StateMasterMenu)
			return masterMenuView().WithNotice("Task deleted."), nil
		}
		return e.renderMasterState(ctx, s)
	}

	return e.renderMasterState(ctx, s)
}

// masterText consumes free text in the master's prompt states.
func (e *Engine) masterText(ctx context.Context, s *domain.Session, body string) (domain.View, error) {
	if body == "" {
		return e.renderMasterState(ctx, s)
	}

	switch s.State {
	case domain.StateGroupCreatePrompt:
		g, err := e.repo.CreateGroup(ctx, body)
		if err != nil {
			return domain.View{}, err
		}
		s.Reset(domain.StateMasterMenu)
		notice := fmt.Sprintf("Group %q created.\nInvite link:\n%s", g.Name, g.InviteLink)
		return masterMenuView().WithNotice(notice), nil

	case domain.StateTaskNamePrompt:
		s.Draft.Name = body
		s.State = domain.StateTaskDescriptionPrompt
		return e.renderMasterState(ctx, s)

	case domain.StateTaskDescriptionPrompt:
		s.Draft.Description = body
		s.State = domain.StateTaskCustomerPrompt
		return e.renderMasterState(ctx, s)

	case domain.StateTaskCustomerPrompt:
		s.Draft.Customer = body
		t, err := e.repo.CreateTask(ctx, s.SelectedGroupID, s.Draft.Name, s.Draft.Description, s.Draft.Customer)
		if err != nil {
			return domain.View{}, err
		}
		s.Reset(domain.StateMasterMenu)
		return masterMenuView().WithNotice(fmt.Sprintf("Task %q created.", t.Name)), nil
	}

	return e.renderMasterState(ctx, s)
}
