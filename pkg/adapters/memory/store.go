package memory

import (
	"context"
	"strings"
	"sync"
)

// Store implements ports.Store in memory. Safe for concurrent use.
// Used by tests and the local development backend.
type Store struct {
	mu   sync.RWMutex
	maps map[string]map[string]string
	sets map[string]map[string]struct{}
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		maps: make(map[string]map[string]string),
		sets: make(map[string]map[string]struct{}),
	}
}

// GetMap retrieves a record. Absent keys yield an empty map.
func (s *Store) GetMap(ctx context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Copy on read so callers can't mutate store state by reference.
	out := make(map[string]string, len(s.maps[key]))
	for k, v := range s.maps[key] {
		out[k] = v
	}
	return out, nil
}

// PutMap upserts a full record.
func (s *Store) PutMap(ctx context.Context, key string, fields map[string]string) error {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps[key] = copied
	return nil
}

// SetField updates a single field of a record.
func (s *Store) SetField(ctx context.Context, key, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maps[key] == nil {
		s.maps[key] = make(map[string]string)
	}
	s.maps[key][field] = value
	return nil
}

// Delete removes records and sets.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.maps, key)
		delete(s.sets, key)
	}
	return nil
}

// SetAdd adds members to a set.
func (s *Store) SetAdd(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

// SetRem removes members from a set.
func (s *Store) SetRem(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[key]
	if !ok {
		return nil
	}
	for _, m := range members {
		delete(set, m)
	}
	if len(set) == 0 {
		delete(s.sets, key)
	}
	return nil
}

// SetMembers returns all members of a set.
func (s *Store) SetMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]string, 0, len(s.sets[key]))
	for m := range s.sets[key] {
		members = append(members, m)
	}
	return members, nil
}

// Scan returns every key starting with the prefix.
func (s *Store) Scan(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.maps {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for k := range s.sets {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Ping always succeeds; memory is never unavailable.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}
