// Package handlertest builds fiber apps with in-memory dependencies for handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
	"github.com/biomed-cmms/cmms-access/internal/config"
	"github.com/biomed-cmms/cmms-access/internal/matrix"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	authmiddleware "github.com/biomed-cmms/cmms-access/internal/web/middleware/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/navigation"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

// SessionID is the browser session every request of Do carries.
const SessionID = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// MemStore is an in-memory session.Store.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

// Get implements session.Store.
func (m *MemStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.data[key], nil
}

// Set implements session.Store.
func (m *MemStore) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), val...)

	return nil
}

// Delete implements session.Store.
func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

// State decodes the state persisted for SessionID.
func (m *MemStore) State(t *testing.T) session.State {
	t.Helper()

	return m.StateOf(t, SessionID)
}

// StateOf decodes the state persisted for sessionID.
func (m *MemStore) StateOf(t *testing.T, sessionID string) session.State {
	t.Helper()

	p, err := session.NewPersister(m, sessionID, 0)
	require.NoError(t, err)

	return p.Load()
}

// Len returns the number of stored keys.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.data)
}

// SessionCookie returns the session id the response sets, or "" when it sets none.
func SessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == authmiddleware.DefaultCookieName {
			return c.Value
		}
	}

	return ""
}

// LoggedIn returns a store holding a logged in state with role for SessionID.
func LoggedIn(t *testing.T, role auth.Role) *MemStore {
	t.Helper()

	store := NewMemStore()
	p, err := session.NewPersister(store, SessionID, 0)
	require.NoError(t, err)
	require.NoError(t, p.Save(session.State{IsLoggedIn: true, UserRole: role}))

	return store
}

// Views is a minimal fiber.Views engine that writes the template name
// followed by the "error" value of the bound fiber.Map, if any.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data any, _ ...string) error {
	_, _ = io.WriteString(w, name)

	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, ":"+v.(string))
		}
	}

	return nil
}

// NewDeps opens an in-memory database with the catalog seeded and an admin user.
func NewDeps(t *testing.T) *handler.Deps {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cat := catalog.MustDefault()

	svc := auth.NewService(db)
	require.NoError(t, svc.Migrate())
	require.NoError(t, svc.SeedCatalog(t.Context(), cat.Seed()))

	local := auth.NewLocalProvider(db)
	_, err = local.CreateUser("admin", "admin@localhost", "changeme", "Admin", auth.RolePlatformAdmin)
	require.NoError(t, err)

	editors, err := matrix.NewSessions(cat, 8)
	require.NoError(t, err)

	return &handler.Deps{
		Cfg: &config.Config{
			Title: "CMMS Access",
			Webserver: config.Webserver{
				URL:     "http://localhost",
				Port:    3000,
				Session: config.Session{ExpiryTime: time.Hour},
			},
		},
		DB:          db,
		Catalog:     cat,
		AuthService: svc,
		Local:       local,
		Editors:     editors,
		Menu:        navigation.DefaultMenu(),
	}
}

// NewApp returns a fiber app with the JSON error handler and the session middleware.
func NewApp(deps *handler.Deps, store session.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        Views{},
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(authmiddleware.Session(authmiddleware.Config{
		Store: store,
		OnLogout: func(id string) {
			if deps.Editors != nil {
				deps.Editors.Drop(id)
			}
		},
		OnRenew: func(id string) {
			if deps.Editors != nil {
				deps.Editors.Drop(id)
			}
		},
	}))

	return app
}

// Do sends a request carrying the SessionID cookie. A non-nil body is sent as JSON.
func Do(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.AddCookie(&http.Cookie{Name: authmiddleware.DefaultCookieName, Value: SessionID})

	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, out
}

// Decode unmarshals a JSON response body into v.
func Decode(t *testing.T, body []byte, v any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(body, v), string(body))
}
