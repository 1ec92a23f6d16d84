package ports

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a Store
// implementation adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("PutMap and GetMap", func(t *testing.T) {
		fields := map[string]string{"name": "Guild", "link": "https://example.test/join"}
		err := store.PutMap(ctx, "contract:group:1", fields)
		require.NoError(t, err, "PutMap should not return error")

		got, err := store.GetMap(ctx, "contract:group:1")
		require.NoError(t, err)
		assert.Equal(t, fields, got)
	})

	t.Run("GetMap absent key is empty, not an error", func(t *testing.T) {
		got, err := store.GetMap(ctx, "contract:missing")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("PutMap is a full upsert", func(t *testing.T) {
		require.NoError(t, store.PutMap(ctx, "contract:rec", map[string]string{"a": "1", "b": "2"}))
		require.NoError(t, store.PutMap(ctx, "contract:rec", map[string]string{"a": "3", "b": "2"}))

		got, err := store.GetMap(ctx, "contract:rec")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "3", "b": "2"}, got)
	})

	t.Run("SetField updates one field only", func(t *testing.T) {
		require.NoError(t, store.PutMap(ctx, "contract:task:1", map[string]string{"name": "Fetch Water", "status": "open"}))
		require.NoError(t, store.SetField(ctx, "contract:task:1", "status", "claimed"))

		got, err := store.GetMap(ctx, "contract:task:1")
		require.NoError(t, err)
		assert.Equal(t, "claimed", got["status"])
		assert.Equal(t, "Fetch Water", got["name"])
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.PutMap(ctx, "contract:gone", map[string]string{"x": "y"}))
		require.NoError(t, store.Delete(ctx, "contract:gone"))
		require.NoError(t, store.Delete(ctx, "contract:gone"), "second delete must succeed")

		got, err := store.GetMap(ctx, "contract:gone")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Set operations", func(t *testing.T) {
		require.NoError(t, store.SetAdd(ctx, "contract:set", "u1", "u2"))
		require.NoError(t, store.SetAdd(ctx, "contract:set", "u1"), "re-add must be a no-op")

		members, err := store.SetMembers(ctx, "contract:set")
		require.NoError(t, err)
		sort.Strings(members)
		assert.Equal(t, []string{"u1", "u2"}, members)

		require.NoError(t, store.SetRem(ctx, "contract:set", "u1", "never-there"))
		members, err = store.SetMembers(ctx, "contract:set")
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, members)
	})

	t.Run("SetMembers absent key is empty", func(t *testing.T) {
		members, err := store.SetMembers(ctx, "contract:no-such-set")
		require.NoError(t, err)
		assert.Empty(t, members)
	})

	t.Run("Scan by prefix", func(t *testing.T) {
		require.NoError(t, store.PutMap(ctx, "contract:scan:a", map[string]string{"v": "1"}))
		require.NoError(t, store.PutMap(ctx, "contract:scan:b", map[string]string{"v": "2"}))
		require.NoError(t, store.SetAdd(ctx, "contract:scan:c", "m"))
		require.NoError(t, store.PutMap(ctx, "contract:other", map[string]string{"v": "3"}))

		keys, err := store.Scan(ctx, "contract:scan:")
		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{"contract:scan:a", "contract:scan:b", "contract:scan:c"}, keys)
	})
}
