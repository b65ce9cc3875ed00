package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if db.gormEngine is not sqlite, mysql or postgres.
	ErrUnknownGormEngine = errors.New("config db.gormEngine is not supported")

	// ErrUnknownSessionStorage error if webserver.session.storage names no known backend.
	ErrUnknownSessionStorage = errors.New("config webserver.session.storage is not supported")

	// ErrEmptyRedisURL error if the redis session storage is selected without redis.url.
	ErrEmptyRedisURL = errors.New("config redis.url can not be empty with redis session storage")
)
