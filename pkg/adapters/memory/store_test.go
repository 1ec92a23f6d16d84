package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/questboard/pkg/adapters/memory"
	"github.com/aretw0/questboard/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, memory.NewStore())
}

func TestMemoryStore_CopyOnRead(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.PutMap(ctx, "group:1", map[string]string{"name": "Guild"}))

	got, err := store.GetMap(ctx, "group:1")
	require.NoError(t, err)
	got["name"] = "mutated"

	again, err := store.GetMap(ctx, "group:1")
	require.NoError(t, err)
	assert.Equal(t, "Guild", again["name"])
}
