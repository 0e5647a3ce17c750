package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id := uuid.New()

	var out payload
	ok, err := m.Get(ctx, id, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, id, payload{Name: "Alice", Votes: 3}))
	ok, err = m.Get(ctx, id, &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "Alice", Votes: 3}, out)
	assert.Equal(t, 1, m.Len())
}

func TestNoopNeverHits(t *testing.T) {
	ctx := context.Background()
	var c Noop
	require.NoError(t, c.Set(ctx, uuid.New(), payload{}))
	ok, err := c.Get(ctx, uuid.New(), &payload{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyFormat(t *testing.T) {
	id := uuid.MustParse("7f1c2a3e-0000-4000-8000-000000000001")
	assert.Equal(t, "results:7f1c2a3e-0000-4000-8000-000000000001", key(id))
}
