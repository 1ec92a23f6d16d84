package domain

import (
	"fmt"
	"strings"
)

// ActionKind enumerates every button action the workflow can emit.
type ActionKind string

const (
	// Master menu entries.
	ActionCreateGroup ActionKind = "create_group"
	ActionEditGroups  ActionKind = "edit_groups"
	ActionCreateTask  ActionKind = "create_task"
	ActionEditTasks   ActionKind = "edit_tasks"

	// Selections (carry an entity id).
	ActionSelectGroup ActionKind = "select_group"
	ActionSelectTask  ActionKind = "select_task"

	// Group actions.
	ActionShowInvite  ActionKind = "show_invite"
	ActionDeleteGroup ActionKind = "delete_group"

	// Task actions.
	ActionDeleteTask  ActionKind = "delete_task"
	ActionTake        ActionKind = "take"
	ActionComplete    ActionKind = "complete"
	ActionCancelClaim ActionKind = "cancel_claim"

	// Navigation.
	ActionBack ActionKind = "back"
)

var knownActions = map[ActionKind]bool{
	ActionCreateGroup: true,
	ActionEditGroups:  true,
	ActionCreateTask:  true,
	ActionEditTasks:   true,
	ActionSelectGroup: true,
	ActionSelectTask:  true,
	ActionShowInvite:  true,
	ActionDeleteGroup: true,
	ActionDeleteTask:  true,
	ActionTake:        true,
	ActionComplete:    true,
	ActionCancelClaim: true,
	ActionBack:        true,
}

// Action is a parsed button payload: a kind plus an optional entity id.
//
// Callback ids on the wire are "<kind>" or "<kind>:<id>". Parsing splits
// on the first colon only, so entity ids are free to contain the
// delimiter; kinds are a closed set that never do.
type Action struct {
	Kind ActionKind
	ID   string
}

// ParseAction decodes a callback id into an Action. It is the single
// place where wire payloads are interpreted; everything downstream
// switches on Action.Kind.
func ParseAction(callback string) (Action, error) {
	kind, id, _ := strings.Cut(callback, ":")
	a := Action{Kind: ActionKind(kind), ID: id}
	if !knownActions[a.Kind] {
		return Action{}, fmt.Errorf("unknown action %q", callback)
	}
	return a, nil
}

// Callback encodes the action back into its wire form.
func (a Action) Callback() string {
	if a.ID == "" {
		return string(a.Kind)
	}
	return string(a.Kind) + ":" + a.ID
}
