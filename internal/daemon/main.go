// Package daemon assembles the database, the catalog, the session storage and the web service.
package daemon

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/glebarez/sqlite"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
	"github.com/biomed-cmms/cmms-access/internal/config"
	"github.com/biomed-cmms/cmms-access/internal/db/controller/setting"
	"github.com/biomed-cmms/cmms-access/internal/db/dsn"
	"github.com/biomed-cmms/cmms-access/internal/logger"
	gormlogger "github.com/biomed-cmms/cmms-access/internal/logger/adapter/gorm"
	"github.com/biomed-cmms/cmms-access/internal/matrix"
	"github.com/biomed-cmms/cmms-access/internal/web"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	"github.com/biomed-cmms/cmms-access/internal/web/navigation"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

// SessionTable stores the auth states in the mysql and postgres session storages.
const SessionTable = "cmms_sessions"

var (
	// ErrNilConfig is returned by New without a configuration.
	ErrNilConfig = errors.New("config is nil")

	// ErrUnknownEngine is returned for an unsupported gorm engine.
	ErrUnknownEngine = errors.New("unknown gorm engine")

	// ErrUnknownStorage is returned for an unsupported session storage.
	ErrUnknownStorage = errors.New("unknown session storage")
)

// Storage is a session.Store the daemon closes on shutdown.
type Storage interface {
	session.Store
	Close() error
}

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    Storage
	webService *web.Service
}

// Start runs the web service until a termination signal arrives.
func (d *Daemon) Start() error {
	addr := ":" + strconv.Itoa(d.cfg.Webserver.Port)

	done := make(chan error, 1)

	go func() {
		log.Info().Str("addr", addr).Msg("starting web service")
		done <- d.webService.Start(addr)
	}()

	d.webService.WaitShutdown()

	err := <-done

	if cerr := d.storage.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close session storage")
	}

	return err
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	cat, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	authService := auth.NewService(db)
	local := auth.NewLocalProvider(db)

	if err = seed(cfg, authService, local, cat); err != nil {
		return nil, err
	}

	storage, err := NewStorage(cfg, db)
	if err != nil {
		return nil, err
	}

	editors, err := matrix.NewSessions(cat, cfg.Matrix.EditorCacheSize)
	if err != nil {
		return nil, err
	}

	webService, err := web.New(&handler.Deps{
		Cfg:         cfg,
		DB:          db,
		Catalog:     cat,
		AuthService: authService,
		Local:       local,
		Editors:     editors,
		Menu:        navigation.DefaultMenu(),
	}, storage)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		db:         db,
		storage:    storage,
		webService: webService,
	}, nil
}

// OpenDB opens the database of the configured gorm engine, logging through zerolog.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineSQLite, "":
		dialector = sqlite.Open(dsn.SQLite(cfg.DB))
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.MySQL(cfg.DB))
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Postgres(cfg.DB))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.Component("gorm"), cfg.Log.SQLLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// LoadCatalog reads the configured catalog file, or the embedded seed when none is set.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default()
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Catalog.Path, err)
	}

	return cat, nil
}

// NewStorage opens the session storage selected by the webserver session config.
func NewStorage(cfg *config.Config, db *gorm.DB) (Storage, error) {
	switch cfg.Webserver.Session.Storage {
	case config.StorageSQL, "":
		store, err := setting.NewStore(db)
		if err != nil {
			return nil, err
		}

		if n, err := setting.PurgeExpired(db); err != nil {
			log.Warn().Err(err).Msg("failed to purge expired auth states")
		} else if n > 0 {
			log.Info().Int64("count", n).Msg("purged expired auth states")
		}

		return store, nil
	case config.StorageMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         SessionTable,
		}), nil
	case config.StoragePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg.DB),
			Table:         SessionTable,
		}), nil
	case config.StorageRedis:
		return session.NewRedisStore(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorage, cfg.Webserver.Session.Storage)
	}
}
