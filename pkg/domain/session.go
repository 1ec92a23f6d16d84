package domain

// SessionState is the workflow state tag of a per-user session.
type SessionState string

// Master machine states.
const (
	StateMasterMenu            SessionState = "master_menu"
	StateGroupCreatePrompt     SessionState = "group_create_prompt"
	StateGroupEditList         SessionState = "group_edit_list"
	StateGroupActions          SessionState = "group_actions"
	StateTaskGroupPicker       SessionState = "task_group_picker"
	StateTaskNamePrompt        SessionState = "task_name_prompt"
	StateTaskDescriptionPrompt SessionState = "task_description_prompt"
	StateTaskCustomerPrompt    SessionState = "task_customer_prompt"
	StateTaskEditGroupPicker   SessionState = "task_edit_group_picker"
	StateTaskEditTaskPicker    SessionState = "task_edit_task_picker"
	StateTaskEditDetail        SessionState = "task_edit_detail"
)

// Player machine states.
const (
	StatePlayerMenu    SessionState = "player_menu"
	StateGroupTaskList SessionState = "group_task_list"
	StateTaskDetail    SessionState = "task_detail"
)

// TaskDraft accumulates the answers of the multi-step task creation
// flow. It lives only inside a Session and is cleared when the flow
// commits or is cancelled.
type TaskDraft struct {
	Name        string
	Description string
	Customer    string
}

// Session is the transient per-identity cursor through the workflow.
// It is never the source of truth for domain data: discarding a session
// loses no groups, memberships or tasks.
type Session struct {
	UserID string
	State  SessionState

	// SelectedGroupID / SelectedTaskID scope the current screen.
	SelectedGroupID string
	SelectedTaskID  string

	Draft TaskDraft
}

// NewSession creates a session for an identity with no state yet; the
// role router assigns the entry state on the first event.
func NewSession(userID string) *Session {
	return &Session{UserID: userID}
}

// ClearDraft discards the in-progress task draft.
func (s *Session) ClearDraft() {
	s.Draft = TaskDraft{}
}

// Reset moves the session to a root menu state, dropping selections and
// any in-progress draft.
func (s *Session) Reset(state SessionState) {
	s.State = state
	s.SelectedGroupID = ""
	s.SelectedTaskID = ""
	s.ClearDraft()
}
