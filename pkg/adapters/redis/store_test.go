package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/questboard/pkg/adapters/redis"
	"github.com/aretw0/questboard/pkg/domain"
	"github.com/aretw0/questboard/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *redis.Store {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client)
}

func TestRedisStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, newTestStore(t))
}

func TestRedisStore_PutMapReplaces(t *testing.T) {
	// A full upsert must drop fields absent from the new record.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutMap(ctx, "task:1", map[string]string{"name": "a", "customer": "b"}))
	require.NoError(t, store.PutMap(ctx, "task:1", map[string]string{"name": "a"}))

	got, err := store.GetMap(ctx, "task:1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "a"}, got)
}

func TestRedisStore_UnavailableSurfacesError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client)

	// Kill the backend; calls must fail loudly, never return empty.
	mr.Close()

	_, err = store.GetMap(context.Background(), "group:1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = store.SetAdd(context.Background(), "group:1:users", "u1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
