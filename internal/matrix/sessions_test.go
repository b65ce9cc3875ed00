package matrix

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
)

func TestNewSessions_InvalidSize(t *testing.T) {
	_, err := NewSessions(catalog.MustDefault(), 0)
	require.ErrorIs(t, err, ErrInvalidCacheSize)
}

func TestSessions_EditorPerSession(t *testing.T) {
	s, err := NewSessions(catalog.MustDefault(), 4)
	require.NoError(t, err)

	a := s.Get("a")
	require.Same(t, a, s.Get("a"))

	require.True(t, a.Toggle(auth.RoleEndUser, auth.ResAssets, auth.ActView))

	assert.True(t, s.Get("a").Allowed(auth.RoleEndUser, auth.ResAssets, auth.ActView))
	assert.False(t, s.Get("b").Allowed(auth.RoleEndUser, auth.ResAssets, auth.ActView))
	assert.Equal(t, 2, s.Len())
}

func TestSessions_DropStartsOver(t *testing.T) {
	s, err := NewSessions(catalog.MustDefault(), 4)
	require.NoError(t, err)

	require.True(t, s.Get("a").Toggle(auth.RoleEndUser, auth.ResAssets, auth.ActView))
	s.Drop("a")

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Get("a").Dirty())
}

func TestSessions_EvictsLeastRecentlyUsed(t *testing.T) {
	s, err := NewSessions(catalog.MustDefault(), 2)
	require.NoError(t, err)

	first := s.Get("a")
	s.Get("b")
	s.Get("a")
	s.Get("c")

	assert.Equal(t, 2, s.Len())
	assert.Same(t, first, s.Get("a"))
}

func TestSessions_ConcurrentGet(t *testing.T) {
	s, err := NewSessions(catalog.MustDefault(), 8)
	require.NoError(t, err)

	editors := make([]*Editor, 20)

	var wg sync.WaitGroup

	for i := range editors {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			editors[i] = s.Get("shared")
		}(i)
	}

	wg.Wait()

	for _, e := range editors {
		assert.Same(t, editors[0], e)
	}
}
