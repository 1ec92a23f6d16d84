package ports

import "context"

// Store is the typed key-value surface the Domain Repository is built
// on: field-map records and string sets under a flat key namespace.
//
// Semantics:
//   - GetMap and SetMembers return empty results for absent keys; they
//     never signal absence with an error.
//   - PutMap is a full upsert; SetField is the only partial update.
//   - Delete and SetRem are idempotent.
//   - Any transport failure surfaces as an error wrapping
//     domain.ErrStoreUnavailable, never as a silent empty result.
//
// No retries happen at this layer; retry policy belongs to the caller,
// which the idempotent delete semantics make safe.
type Store interface {
	// GetMap retrieves a record as a field map. Absent keys yield an
	// empty map.
	GetMap(ctx context.Context, key string) (map[string]string, error)

	// PutMap upserts a full record.
	PutMap(ctx context.Context, key string, fields map[string]string) error

	// SetField updates a single field of a record.
	SetField(ctx context.Context, key, field, value string) error

	// Delete removes records and sets. Missing keys are a no-op.
	Delete(ctx context.Context, keys ...string) error

	// SetAdd adds members to a set, creating it if needed. Re-adding an
	// existing member is a no-op.
	SetAdd(ctx context.Context, key string, members ...string) error

	// SetRem removes members from a set. Missing members are a no-op.
	SetRem(ctx context.Context, key string, members ...string) error

	// SetMembers returns all members of a set. Absent keys yield an
	// empty slice.
	SetMembers(ctx context.Context, key string) ([]string, error)

	// Scan returns every key starting with the given prefix.
	Scan(ctx context.Context, prefix string) ([]string, error)
}
