package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGet_AbsentKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	value, ok, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, ok, "absent key must report ok=false, not an error")
	assert.Empty(t, value)
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	identity := `{"id":7,"name":"Asha","contact":"asha@example.com"}`
	require.NoError(t, s.Put(ctx, KeyIdentity, identity))

	value, ok, err := s.Get(ctx, KeyIdentity)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, identity, value, "persisted JSON must round-trip byte-for-byte")
}

func TestPut_ReplacesExistingValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, KeyToken, "first-token"))
	require.NoError(t, s.Put(ctx, KeyToken, "second-token"))

	value, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second-token", value)
}

func TestDelete_AbsentKeyIsNoOp(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Delete(context.Background(), "never-written"))
}

func TestClear_RemovesEverything(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, KeyIdentity, `{"id":1}`))
	require.NoError(t, s.Put(ctx, KeyToken, "tok"))
	require.NoError(t, s.Put(ctx, KeyRole, "user"))
	require.NoError(t, s.Put(ctx, KeyCart, `[]`))

	require.NoError(t, s.Clear(ctx))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "clear must remove every persisted key")
}

func TestValues_SurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Put(ctx, KeyToken, "opaque-token"))
	require.NoError(t, s1.Put(ctx, KeyCart, `[{"food_id":12,"qty":2}]`))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	token, ok, err := s2.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "opaque-token", token)

	cart, ok, err := s2.Get(ctx, KeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"food_id":12,"qty":2}]`, cart)
}
