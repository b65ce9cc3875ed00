// Package session persists the browser auth state and exposes it to handlers.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/auth"
)

// AuthStateKey is the fixed key the auth state is stored under.
const AuthStateKey = "cmms.auth"

// State is the persisted auth state.
type State struct {
	IsLoggedIn bool      `json:"isLoggedIn"`
	UserRole   auth.Role `json:"userRole"`
}

// LoggedOut returns the state used when nothing valid is stored.
func LoggedOut() State {
	return State{IsLoggedIn: false, UserRole: auth.DefaultRole}
}

// Store is the key/value storage the auth state is written to.
// The gofiber storage drivers, the setting table store and RedisStore satisfy it.
// Get returns nil without an error for a missing key.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Key namespaces AuthStateKey by a browser session id.
func Key(sessionID string) string {
	if sessionID == "" {
		return AuthStateKey
	}

	return sessionID + ":" + AuthStateKey
}

// Persister reads and writes one auth state blob.
type Persister struct {
	Store Store
	Key   string
	// TTL is passed to the store on Save; zero keeps the value without expiry.
	TTL time.Duration
}

// NewPersister returns a persister for the given browser session.
func NewPersister(store Store, sessionID string, ttl time.Duration) (*Persister, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	return &Persister{Store: store, Key: Key(sessionID), TTL: ttl}, nil
}

// Load returns the stored state. A missing, unreadable or malformed value,
// or one naming an unknown role, yields LoggedOut.
func (p *Persister) Load() State {
	raw, err := p.Store.Get(p.Key)
	if err != nil {
		log.Debug().Err(err).Str("key", p.Key).Msg("auth state unreadable")
		return LoggedOut()
	}

	if len(raw) == 0 {
		return LoggedOut()
	}

	var st State
	if err = json.Unmarshal(raw, &st); err != nil {
		log.Debug().Err(err).Str("key", p.Key).Msg("auth state malformed")
		return LoggedOut()
	}

	if !st.UserRole.Valid() {
		log.Debug().Str("key", p.Key).Str("role", string(st.UserRole)).Msg("auth state names unknown role")
		return LoggedOut()
	}

	return st
}

// Save writes st.
func (p *Persister) Save(st State) error {
	out, err := json.Marshal(st)
	if err != nil {
		return err
	}

	return p.Store.Set(p.Key, out, p.TTL)
}

// Clear removes the stored value.
func (p *Persister) Clear() error {
	return p.Store.Delete(p.Key)
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
