package session

import (
	"context"
	"sync"

	"github.com/aretw0/questboard/pkg/domain"
)

// entry holds one identity's session, its mutex and a reference count
// used to garbage collect idle lock entries.
type entry struct {
	mu      sync.Mutex
	refs    int
	session *domain.Session
}

// Manager owns the session map. Sessions are pure UI cursors: the
// manager never touches the domain store and dropping a session loses
// no domain data.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]*entry),
	}
}

// acquire gets or creates the entry for an identity and increments its
// reference count. The caller must lock entry.mu and later call
// release.
func (m *Manager) acquire(userID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok {
		e = &entry{session: domain.NewSession(userID)}
		m.entries[userID] = e
	}
	e.refs++
	return e
}

// release decrements the reference count. Entries whose session was
// dropped are removed once the last holder releases them.
func (m *Manager) release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 && e.session == nil {
		delete(m.entries, userID)
	}
}

// WithSession runs fn while holding the identity's lock. The session is
// created on first use; fn may mutate it freely, and the mutations are
// visible to the next event for the same identity.
//
// A session left with no state when fn returns is terminal and discarded
// before the lock is released, so the next event starts a fresh cursor.
// A fresh cursor and a stateless one are indistinguishable, which makes
// the collapse safe even when fn bailed out early.
func (m *Manager) WithSession(ctx context.Context, userID string, fn func(*domain.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := m.acquire(userID)
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		m.release(userID)
	}()

	if e.session == nil {
		// Re-created after a drop.
		e.session = domain.NewSession(userID)
	}
	err := fn(e.session)
	if e.session.State == "" {
		e.session = nil
	}
	return err
}

// Drop discards an identity's session. The next event starts a fresh
// cursor; domain data is unaffected. Drop waits for an in-flight
// WithSession on the same identity, so it never races an event handler
// or discards its mutations mid-flight.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	e, ok := m.entries[userID]
	m.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	e.session = nil
	e.mu.Unlock()

	m.mu.Lock()
	if e.refs <= 0 && m.entries[userID] == e {
		delete(m.entries, userID)
	}
	m.mu.Unlock()
}

// Len reports the number of live sessions, for introspection.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.entries {
		if e.session != nil {
			n++
		}
	}
	return n
}
