// Package logger sets up zerolog from the Log configuration.
package logger

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// New builds a zerolog.Logger from cfg.
// Without any enabled writer the returned logger discards everything.
func New(cfg Log) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return zerolog.Nop(), ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return zerolog.Nop(), ErrAppNameIsEmpty
	}

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fw, errFile := newRollingFileWriter(cfg.File)
		if errFile != nil {
			return zerolog.Nop(), errors.Wrap(errFile, "failed to set up file logging")
		}

		writers = append(writers, fw)
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().Timestamp().Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && level == zerolog.TraceLevel:
		ctx = ctx.Stack().Caller()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	}

	return ctx.Logger(), nil
}

// Init builds the logger from cfg and installs it as the global zerolog logger.
func Init(cfg Log) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}

	// attach pkg/errors stack traces when tracing
	if l.GetLevel() == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.ErrorHandler = ErrorHandler //nolint:reassign
	zerolog.SetGlobalLevel(l.GetLevel())
	log.Logger = l

	return nil
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
