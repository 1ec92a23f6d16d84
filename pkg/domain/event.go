package domain

import "strings"

// Event is an inbound chat event. The engine is agnostic to how events
// are delivered; the transport collaborator constructs one of the three
// concrete types below per update.
type Event interface {
	// From returns the originating user identity.
	From() string
}

// Command is a slash command, e.g. /start with an optional payload.
type Command struct {
	Name string
	Args []string
	User string
}

func (c Command) From() string { return c.User }

// ButtonPress is an inline keyboard press carrying the callback id of
// the pressed button.
type ButtonPress struct {
	Callback string
	User     string
}

func (b ButtonPress) From() string { return b.User }

// TextMessage is a free-text reply, consumed by prompt states.
type TextMessage struct {
	Body string
	User string
}

func (t TextMessage) From() string { return t.User }

// joinPrefix is the fixed prefix of an invite-link payload.
const joinPrefix = "join_"

// ParseJoinPayload extracts the group id from a /start payload of the
// form "join_<group_id>". The id is everything after the prefix, so ids
// containing underscores survive intact.
func ParseJoinPayload(arg string) (string, bool) {
	id, ok := strings.CutPrefix(arg, joinPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// JoinPayload builds the /start payload for a group invite.
func JoinPayload(groupID string) string {
	return joinPrefix + groupID
}
