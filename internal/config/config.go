// Package config reads etc/main.toml through viper.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvConfigJSON names the environment variable whose JSON is merged over the file.
const EnvConfigJSON = "CMMS_ACCESS_CONFIG_JSON"

// Defaults applied by validate.
const (
	DefaultShutDownTime    = 5
	DefaultSessionExpiry   = 24 * time.Hour
	DefaultEditorCacheSize = 256
	DefaultAdminUsername   = "admin"
	DefaultAdminEmail      = "admin@localhost"
)

// ReadConfig from the main.toml in dir. An empty dir reads ./etc/.
func ReadConfig(dir string) (Config, error) {
	var c Config

	if dir == "" {
		dir = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "main.toml"))

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if js := os.Getenv(EnvConfigJSON); js != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(js)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge config from "+EnvConfigJSON)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return validate(c)
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon cannot start without and fills in defaults.
func validate(c Config) (Config, error) {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return c, errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return c, errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return c, errors.Wrap(ErrUnknownGormEngine, c.DB.GormEngine)
	}

	switch c.Webserver.Session.Storage {
	case "":
		c.Webserver.Session.Storage = StorageSQL
	case StorageSQL, StorageMySQL, StoragePostgres:
	case StorageRedis:
		if c.Redis.URL == "" {
			return c, errors.Wrap(ErrEmptyRedisURL, invalidErrMessage)
		}
	default:
		return c, errors.Wrap(ErrUnknownSessionStorage, c.Webserver.Session.Storage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = DefaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = DefaultSessionExpiry
	}

	if c.Matrix.EditorCacheSize <= 0 {
		c.Matrix.EditorCacheSize = DefaultEditorCacheSize
	}

	if c.Admin.Username == "" {
		c.Admin.Username = DefaultAdminUsername
	}

	if c.Admin.Email == "" {
		c.Admin.Email = DefaultAdminEmail
	}

	return c, nil
}
