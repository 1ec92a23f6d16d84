package domain

// Group is a named collection of tasks with a master-controlled
// membership list and a shareable invite link.
//
// The Domain Repository is the single owner of Group records; callers
// always work on a fresh snapshot and never hold one across calls.
type Group struct {
	ID         string
	Name       string
	InviteLink string

	// Members holds the user identities that joined via invite link.
	Members []string

	// Tasks holds the ids of the tasks created under this group.
	Tasks []string
}
