package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name string `json:"name"`
	City string `json:"city"`
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore[contact]()

	_, ok, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, "a", &Session[contact]{Values: contact{Name: "Alice"}}))

	session, ok, err := store.Load(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", session.Values.Name)
	assert.False(t, session.Updated.IsZero())

	require.NoError(t, store.Delete(ctx, "a"))
	_, ok, err = store.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionKeyContext(t *testing.T) {
	ctx := context.Background()

	_, ok := SessionKeyFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, "default", sessionKeyOrDefault(ctx))

	ctx = WithSessionKey(ctx, "user-42")
	key, ok := SessionKeyFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-42", key)
	assert.Equal(t, "user-42", sessionKeyOrDefault(ctx))

	assert.Equal(t, "default", sessionKeyOrDefault(WithSessionKey(context.Background(), "")))
}
