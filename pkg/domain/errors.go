package domain

import "errors"

// ErrNotFound is returned when a referenced group, task or session does
// not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrStoreUnavailable is returned when the backing store cannot be
// reached. The failed operation may be retried; no partial result is
// ever returned alongside it.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrInvalidTransition is returned when a status event is rejected by
// the task transition table.
var ErrInvalidTransition = errors.New("invalid status transition")
