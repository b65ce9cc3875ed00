package config

import (
	"time"

	"github.com/biomed-cmms/cmms-access/internal/logger"
)

// Session storage backends.
const (
	StorageSQL      = "sql"
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration `mapstructure:"expiryTime" json:"expiryTime"`
	// Storage selects where auth state lives: sql (setting table), mysql, postgres or redis.
	Storage    string `mapstructure:"storage" json:"storage"`
	CookieName string `mapstructure:"cookieName" json:"cookieName"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode" json:"devMode"` // enable dev mode for development
	Title     string     `mapstructure:"title" json:"title"`
	DB        DB         `mapstructure:"db" json:"db"`
	Log       logger.Log `mapstructure:"log" json:"log"`
	Webserver Webserver  `mapstructure:"webserver" json:"webserver"`
	Redis     Redis      `mapstructure:"redis" json:"redis"`
	Catalog   Catalog    `mapstructure:"catalog" json:"catalog"`
	Matrix    Matrix     `mapstructure:"matrix" json:"matrix"`
	Admin     Admin      `mapstructure:"admin" json:"admin"`
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    `mapstructure:"browseStatic" json:"browseStatic"`     // directory listing of static files, development only
	CleanPath      bool    `mapstructure:"cleanPath" json:"cleanPath"`           // use clean path middleware to allow multi slash requests
	DisableRecover bool    `mapstructure:"disableRecover" json:"disableRecover"` // disable recover middleware
	Domain         string  `mapstructure:"domain" json:"domain"`                 // cookie domain
	Port           int     `mapstructure:"port" json:"port"`                     // listening port for the webserver
	ShutDownTime   int     `mapstructure:"shutDownTime" json:"shutDownTime"`     // wait time for shutdown in seconds
	URL            string  `mapstructure:"url" json:"url"`                       // base url for the webserver
	Session        Session `mapstructure:"session" json:"session"`
}

// Redis connection used by the redis session storage.
type Redis struct {
	URL      string `mapstructure:"url" json:"url"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db" json:"db"`
	Prefix   string `mapstructure:"prefix" json:"prefix"`
}

// Catalog points at an alternative seed file; empty uses the embedded one.
type Catalog struct {
	Path string `mapstructure:"path" json:"path"`
}

// Matrix editor settings.
type Matrix struct {
	// EditorCacheSize bounds the number of per-session matrix editors kept in memory.
	EditorCacheSize int `mapstructure:"editorCacheSize" json:"editorCacheSize"`
}

// Admin is the local account created on first start when no user exists.
type Admin struct {
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"-"`
	Email    string `mapstructure:"email" json:"email"`
}
