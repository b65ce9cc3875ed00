// Package logger configures the global zerolog logger: level split console and
// rolling file writers, caller or stack reporting and a prometheus statement counter.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes events to one writer per level group:
// trace, debug and info, warn, error and above.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	var w io.Writer

	switch {
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init replaces the global logger according to cfg.
// Without console or file output enabled nothing is written.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(ErrUnknownLogLevel, cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = writeErrorHandler

	stack := logLevel == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	log.Logger = New(cfg, Writers(cfg)...)

	if stack && cfg.ReportCaller {
		log.Logger = log.Logger.With().Stack().Logger()
	}

	return nil
}

// New builds a logger writing to writers with the prometheus hook and the
// service fields of cfg.
func New(cfg Log, writers ...io.Writer) zerolog.Logger {
	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.AppName, cfg.ServiceName)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)

	if cfg.LogEnv != "" {
		ctx = ctx.Str("env", cfg.LogEnv)
	}

	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}

	return ctx.Logger()
}

// Writers returns the outputs enabled in cfg.
func Writers(cfg Log) []io.Writer {
	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if w := newRollingInfoErrorFile(cfg); w != nil {
			writers = append(writers, w)
		}
	}

	return writers
}

// Component returns the global logger tagged with component.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// newRollingInfoErrorFile returns a LevelWriter of lumberjack files.
func newRollingInfoErrorFile(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil { //nolint: mnd
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	return &LevelWriter{
		ErrorWriter: NewRollingFile(cfg.File.Path, cfg.File.ErrorLog, cfg.File.Error),
		InfoWriter:  NewRollingFile(cfg.File.Path, cfg.File.InfoLog, cfg.File.Info),
		TraceWriter: NewRollingFile(cfg.File.Path, cfg.File.TraceLog, cfg.File.Trace),
		WarnWriter:  NewRollingFile(cfg.File.Path, cfg.File.WarnLog, cfg.File.Warn),
	}
}

// NewRollingFile returns a lumberjack writer for dir/name.
func NewRollingFile(dir, name string, r Rotation) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

// NewConsoleWriter creates the console writer: stdout for debug and info,
// stderr for everything else.
func NewConsoleWriter(cfg Log) io.Writer {
	out := func(w io.Writer) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return w
		}

		return zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	return &LevelWriter{
		ErrorWriter: out(os.Stderr),
		InfoWriter:  out(os.Stdout),
		TraceWriter: out(os.Stderr),
		WarnWriter:  out(os.Stderr),
	}
}
