package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Run("bare kind", func(t *testing.T) {
		a, err := ParseAction("create_group")
		require.NoError(t, err)
		assert.Equal(t, ActionCreateGroup, a.Kind)
		assert.Empty(t, a.ID)
	})

	t.Run("kind with id", func(t *testing.T) {
		a, err := ParseAction("select_group:g-123")
		require.NoError(t, err)
		assert.Equal(t, ActionSelectGroup, a.Kind)
		assert.Equal(t, "g-123", a.ID)
	})

	t.Run("id may contain the delimiter", func(t *testing.T) {
		a, err := ParseAction("select_task:weird:id:with:colons")
		require.NoError(t, err)
		assert.Equal(t, "weird:id:with:colons", a.ID)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseAction("drop_database:everything")
		assert.Error(t, err)
	})

	t.Run("roundtrip", func(t *testing.T) {
		for _, a := range []Action{
			{Kind: ActionBack},
			{Kind: ActionDeleteTask, ID: "t1"},
			{Kind: ActionSelectGroup, ID: "a:b"},
		} {
			parsed, err := ParseAction(a.Callback())
			require.NoError(t, err)
			assert.Equal(t, a, parsed)
		}
	})
}

func TestParseJoinPayload(t *testing.T) {
	id, ok := ParseJoinPayload("join_abc-123")
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)

	// Underscores inside the id are not delimiters.
	id, ok = ParseJoinPayload("join_group_with_underscores")
	require.True(t, ok)
	assert.Equal(t, "group_with_underscores", id)

	_, ok = ParseJoinPayload("start")
	assert.False(t, ok)

	_, ok = ParseJoinPayload("join_")
	assert.False(t, ok)
}
