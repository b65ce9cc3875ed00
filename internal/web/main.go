// Package web wires the fiber application: middleware, templates and the handler services.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/biomed-cmms/cmms-access/internal/config"
	fiberlogger "github.com/biomed-cmms/cmms-access/internal/logger/adapter/fiber"
	"github.com/biomed-cmms/cmms-access/internal/web/handler"
	"github.com/biomed-cmms/cmms-access/internal/web/handler/account"
	"github.com/biomed-cmms/cmms-access/internal/web/handler/dashboard"
	"github.com/biomed-cmms/cmms-access/internal/web/handler/login"
	"github.com/biomed-cmms/cmms-access/internal/web/handler/logout"
	"github.com/biomed-cmms/cmms-access/internal/web/handler/permissions"
	"github.com/biomed-cmms/cmms-access/internal/web/handler/rbac"
	authmiddleware "github.com/biomed-cmms/cmms-access/internal/web/middleware/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/session"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// StaticPath serves the embedded assets.
	StaticPath = "/static"
)

// ErrNilStore is returned by New without a session store.
var ErrNilStore = errors.New("session store cannot be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: !s.cfg.DevMode}); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and stops the web service gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether checkalive answers ok.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// SetAlive switches the checkalive answer.
func (s *Service) SetAlive(alive bool) {
	s.alive.Store(alive)
}

// New creates the web service and registers every handler.
func New(deps *handler.Deps, store session.Store) (*Service, error) {
	if !deps.Valid() || deps.Editors == nil || deps.Local == nil {
		return nil, handler.ErrMissingDeps
	}

	if store == nil {
		return nil, ErrNilStore
	}

	cfg := deps.Cfg

	templates, err := templateFiles()
	if err != nil {
		return nil, err
	}

	templateEngine := html.NewFileSystem(templates, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.Reload(true)

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Immutable:      true,
			Views:          templateEngine,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:            cfg.Log,
		CacheControlError: fiberlogger.ConfigDefault.CacheControlError,
		CheckAliveURI:     CheckAlivePath,
	}))

	staticFS, err := staticFiles()
	if err != nil {
		return nil, err
	}

	app.Use(StaticPath, static.New("", static.Config{FS: staticFS, Browse: cfg.Webserver.BrowseStatic}))

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmiddleware.Session(authmiddleware.Config{
		Store:      store,
		CookieName: cfg.Webserver.Session.CookieName,
		TTL:        cfg.Webserver.Session.ExpiryTime,
		Secure:     strings.HasPrefix(cfg.Webserver.URL, "https://"),
		Domain:     cfg.Webserver.Domain,
		OnLogout:   deps.Editors.Drop,
		OnRenew:    deps.Editors.Drop,
		Skip:       skipSession,
	}))

	// init handlers (they register their own routes with permission checks)
	services := []handler.Service{
		&login.Service{},
		&logout.Service{},
		&account.Service{},
		&rbac.Service{},
		&dashboard.Service{},
		&permissions.Service{},
	}

	for _, h := range services {
		if err := h.Init(app, deps); err != nil {
			return nil, err
		}
	}

	// redirect root to dashboard
	app.Get(handler.RootPath, func(c fiber.Ctx) error {
		return c.Redirect().To(dashboard.Path)
	})

	return service, nil
}

// CheckAlive answers 200 while the service accepts traffic and 503 during shutdown.
func (s *Service) CheckAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("ok")
}

// cleanPath collapses duplicate slashes and dot segments before routing.
func cleanPath(c fiber.Ctx) error {
	if p := c.Path(); p != "/" {
		if cleaned := path.Clean(p); cleaned != p {
			c.Path(cleaned)
		}
	}

	return c.Next()
}

func skipSession(c fiber.Ctx) bool {
	p := c.Path()

	return p == CheckAlivePath || p == MetricsPath || strings.HasPrefix(p, StaticPath+"/")
}
