package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/config"
	"github.com/biomed-cmms/cmms-access/internal/db/controller/setting"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Title: "CMMS Access",
		DB: config.DB{
			GormEngine: config.EngineSQLite,
			Name:       filepath.Join(t.TempDir(), "cmms.db"),
		},
		Webserver: config.Webserver{
			Port:         8080,
			URL:          "http://localhost:8080",
			ShutDownTime: 1,
			Session:      config.Session{ExpiryTime: time.Hour, Storage: config.StorageSQL},
		},
		Matrix: config.Matrix{EditorCacheSize: 4},
		Admin:  config.Admin{Username: "admin", Password: "changeme", Email: "admin@localhost"},
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilConfig)

	d, err := New(testConfig(t))
	require.NoError(t, err)

	require.NotNil(t, d.webService)
	require.NotNil(t, d.storage)
	assert.NoError(t, d.storage.Close())
}

func TestOpenDB_UnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := OpenDB(cfg)
	require.ErrorIs(t, err, ErrUnknownEngine)
}

func TestLoadCatalog(t *testing.T) {
	cfg := testConfig(t)

	cat, err := LoadCatalog(cfg)
	require.NoError(t, err)
	assert.True(t, cat.HasRole(auth.RoleEndUser))

	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err = LoadCatalog(cfg)
	require.Error(t, err)

	custom := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(custom, []byte(`
roles:
  - {id: user, label: User, scope: Org}
actions:
  - {id: view, label: View}
resources:
  - {id: TICKETS, label: Tickets}
grants:
  - {role: user, resources: [TICKETS], actions: [view], allowed: true}
`), 0o600))

	cfg.Catalog.Path = custom

	cat, err = LoadCatalog(cfg)
	require.NoError(t, err)
	assert.Len(t, cat.Resources(), 1)
}

func TestSeed(t *testing.T) {
	cfg := testConfig(t)

	db, err := OpenDB(cfg)
	require.NoError(t, err)

	cat, err := LoadCatalog(cfg)
	require.NoError(t, err)

	svc := auth.NewService(db)
	local := auth.NewLocalProvider(db)

	require.NoError(t, seed(cfg, svc, local, cat))
	// a second start neither duplicates the catalog nor the admin
	require.NoError(t, seed(cfg, svc, local, cat))

	count, err := local.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	user, err := local.Authenticate("admin", "changeme")
	require.NoError(t, err)
	assert.Equal(t, string(auth.RolePlatformAdmin), user.RoleID)

	grants, err := svc.Grants(t.Context())
	require.NoError(t, err)
	assert.Len(t, grants, cat.GrantTable().Len())
}

func TestSeed_WithoutAdminPassword(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Password = ""

	db, err := OpenDB(cfg)
	require.NoError(t, err)

	cat, err := LoadCatalog(cfg)
	require.NoError(t, err)

	local := auth.NewLocalProvider(db)
	require.NoError(t, seed(cfg, auth.NewService(db), local, cat))

	count, err := local.CountUsers()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNewStorage(t *testing.T) {
	t.Run("sql", func(t *testing.T) {
		cfg := testConfig(t)

		db, err := OpenDB(cfg)
		require.NoError(t, err)

		storage, err := NewStorage(cfg, db)
		require.NoError(t, err)
		assert.IsType(t, &setting.Store{}, storage)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)

		cfg := testConfig(t)
		cfg.Webserver.Session.Storage = config.StorageRedis
		cfg.Redis = config.Redis{URL: "redis://" + mr.Addr() + "/0", Prefix: "cmms:"}

		storage, err := NewStorage(cfg, nil)
		require.NoError(t, err)
		assert.IsType(t, &session.RedisStore{}, storage)

		t.Cleanup(func() { _ = storage.Close() })

		require.NoError(t, storage.Set("k", []byte("v"), 0))
		assert.True(t, mr.Exists("cmms:k"))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Webserver.Session.Storage = "memcache"

		_, err := NewStorage(cfg, nil)
		require.ErrorIs(t, err, ErrUnknownStorage)
	})
}
