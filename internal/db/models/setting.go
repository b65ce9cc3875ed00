// Package models contains database model definitions.
package models

import "time"

// Setting is a named blob in the database.
// It backs the key/value store that persists browser auth state.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"unique;size:255"`
	Value     []byte
	ExpiresAt *time.Time
}

// Expired reports whether the setting carries an expiry that lies before now.
func (s *Setting) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}
