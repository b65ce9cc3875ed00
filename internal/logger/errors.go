package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config log.appName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config log.serviceName can not be empty")

	// ErrUnknownLogLevel is returned for a log.logLevel zerolog does not know.
	ErrUnknownLogLevel = errors.New("config log.logLevel is not supported")
)

// writeErrorHandler reports events zerolog failed to write.
func writeErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "zerolog: could not write event: %v\n", err)
}
