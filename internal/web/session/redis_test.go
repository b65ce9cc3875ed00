package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomed-cmms/cmms-access/internal/auth"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := NewRedisStore("redis://"+mr.Addr(), "", 0, "cmms:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore("://nope", "", 0, "")
	require.Error(t, err)
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	store, mr := setupRedisStore(t)

	val, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set("k", []byte("v"), 0))
	assert.True(t, mr.Exists("cmms:k"))

	val, err = store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, store.Delete("k"))
	assert.False(t, mr.Exists("cmms:k"))
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupRedisStore(t)

	require.NoError(t, store.Set("k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	val, err := store.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStore_ResetKeepsForeignKeys(t *testing.T) {
	store, mr := setupRedisStore(t)

	require.NoError(t, mr.Set("other", "x"))
	require.NoError(t, store.Set("a", []byte("1"), 0))
	require.NoError(t, store.Set("b", []byte("2"), 0))

	require.NoError(t, store.Reset())

	assert.False(t, mr.Exists("cmms:a"))
	assert.False(t, mr.Exists("cmms:b"))
	assert.True(t, mr.Exists("other"))
}

func TestRedisStore_PersistsAuthState(t *testing.T) {
	store, _ := setupRedisStore(t)

	p, err := NewPersister(store, "sid", time.Hour)
	require.NoError(t, err)

	require.NoError(t, p.Save(State{IsLoggedIn: true, UserRole: auth.RoleTenantAdmin}))
	assert.Equal(t, State{IsLoggedIn: true, UserRole: auth.RoleTenantAdmin}, p.Load())
}
