package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/questboard/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.Store using Redis. Records map to hashes and
// id sets to Redis sets; the whole keyspace lives under a configurable
// prefix.
type Store struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
}

type Option func(*Store)

// WithPrefix sets the key namespace prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTimeout bounds every store round-trip. Expiry surfaces as
// domain.ErrStoreUnavailable rather than hanging the session.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.timeout = timeout
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:  client,
		prefix:  "questboard:",
		timeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// opCtx applies the per-operation deadline.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func wrapErr(op, key string, err error) error {
	return fmt.Errorf("redis %s %q: %w: %w", op, key, domain.ErrStoreUnavailable, err)
}

// GetMap retrieves a hash. Absent keys yield an empty map (HGETALL
// semantics), per the Store contract.
func (s *Store) GetMap(ctx context.Context, key string) (map[string]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, wrapErr("hgetall", key, err)
	}
	return fields, nil
}

// PutMap upserts a full hash. The old record is replaced, not merged.
func (s *Store) PutMap(ctx context.Context, key string, fields map[string]string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(key))
	pipe.HSet(ctx, s.key(key), fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapErr("hset", key, err)
	}
	return nil
}

// SetField updates a single hash field.
func (s *Store) SetField(ctx context.Context, key, field, value string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.HSet(ctx, s.key(key), field, value).Err(); err != nil {
		return wrapErr("hset", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are a no-op.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.key(k)
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return wrapErr("del", keys[0], err)
	}
	return nil
}

// SetAdd adds members to a set.
func (s *Store) SetAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.SAdd(ctx, s.key(key), toAny(members)...).Err(); err != nil {
		return wrapErr("sadd", key, err)
	}
	return nil
}

// SetRem removes members from a set.
func (s *Store) SetRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.SRem(ctx, s.key(key), toAny(members)...).Err(); err != nil {
		return wrapErr("srem", key, err)
	}
	return nil
}

// SetMembers returns all members of a set.
func (s *Store) SetMembers(ctx context.Context, key string) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	members, err := s.client.SMembers(ctx, s.key(key)).Result()
	if err != nil {
		return nil, wrapErr("smembers", key, err)
	}
	return members, nil
}

// Scan returns every key under the prefix, with the store's namespace
// prefix stripped back off.
func (s *Store) Scan(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var (
		keys   []string
		cursor uint64
	)
	pattern := s.key(prefix) + "*"
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, wrapErr("scan", prefix, err)
		}
		for _, k := range batch {
			keys = append(keys, k[len(s.prefix):])
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Ping checks connectivity, used by health endpoints.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return wrapErr("ping", "", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func toAny(members []string) []any {
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = m
	}
	return out
}
