package matrix

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/biomed-cmms/cmms-access/internal/catalog"
)

// ErrInvalidCacheSize is returned for a non-positive editor cache size.
var ErrInvalidCacheSize = errors.New("matrix editor cache size must be positive")

// Sessions keeps one editor per browser session. The least recently used
// editor is dropped once size sessions hold one.
type Sessions struct {
	cat     *catalog.Catalog
	editors *lru.Cache[string, *Editor]
}

// NewSessions creates the registry.
func NewSessions(cat *catalog.Catalog, size int) (*Sessions, error) {
	if size <= 0 {
		return nil, ErrInvalidCacheSize
	}

	editors, err := lru.New[string, *Editor](size)
	if err != nil {
		return nil, err
	}

	return &Sessions{cat: cat, editors: editors}, nil
}

// Get returns the editor of sessionID, creating it from the catalog seed on first use.
func (s *Sessions) Get(sessionID string) *Editor {
	if e, ok := s.editors.Get(sessionID); ok {
		return e
	}

	e := New(s.cat)
	if prev, found, _ := s.editors.PeekOrAdd(sessionID, e); found {
		return prev
	}

	return e
}

// Drop forgets the editor of sessionID.
func (s *Sessions) Drop(sessionID string) {
	s.editors.Remove(sessionID)
}

// Len returns the number of live editors.
func (s *Sessions) Len() int {
	return s.editors.Len()
}
