package domain

import "fmt"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClaimed Status = "claimed"
	StatusDone    Status = "done"
)

// ParseStatus converts a stored string back into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusClaimed, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// StatusEvent is a player-initiated request to move a task through its
// lifecycle.
type StatusEvent string

const (
	EventTake        StatusEvent = "take"
	EventComplete    StatusEvent = "complete"
	EventCancelClaim StatusEvent = "cancel_claim"
)

// Next returns the status reached by applying ev to s.
//
// The transition table is closed: open+take -> claimed,
// claimed+complete -> done, claimed+cancel_claim -> open. Every other
// pair returns the current status unchanged together with
// ErrInvalidTransition; callers treat that as a no-op, not a failure.
func (s Status) Next(ev StatusEvent) (Status, error) {
	switch {
	case s == StatusOpen && ev == EventTake:
		return StatusClaimed, nil
	case s == StatusClaimed && ev == EventComplete:
		return StatusDone, nil
	case s == StatusClaimed && ev == EventCancelClaim:
		return StatusOpen, nil
	}
	return s, ErrInvalidTransition
}

// Task is a unit of work within a group.
type Task struct {
	ID          string
	GroupID     string
	Name        string
	Description string
	Customer    string
	Status      Status
}
