package logger

import (
	"io"
	"os"
	"path"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter splits log output by level. See WriteLevel for the separation.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel writes p to the writer responsible for level l.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel: // error, fatal and panic
		w = lw.ErrorWriter
	default: // debug and info
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// NewConsoleWriter returns a LevelWriter printing info to stdout and everything else to stderr.
func NewConsoleWriter(cfg Log) *LevelWriter {
	lw := &LevelWriter{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		InfoWriter:  os.Stdout,
		TraceWriter: os.Stderr,
		WarnWriter:  os.Stderr,
	}

	if cfg.Console.UseConsoleWriter {
		pretty := func(out io.Writer) io.Writer {
			return zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFieldFormat}
		}

		lw.ErrorWriter = pretty(os.Stderr)
		lw.InfoWriter = pretty(os.Stdout)
		lw.TraceWriter = pretty(os.Stderr)
		lw.WarnWriter = pretty(os.Stderr)
	}

	return lw
}

// newRollingFileWriter returns a LevelWriter backed by one lumberjack file per level.
// Levels without a configured file name are dropped.
func newRollingFileWriter(cfg LogFile) (*LevelWriter, error) {
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil { //nolint:mnd
		log.Error().Err(err).Str("path", cfg.Path).Msg("can't create log directory")

		return nil, err //nolint:wrapcheck
	}

	rolling := func(f RollingFile) io.Writer {
		if f.Name == "" {
			return nil
		}

		return &lumberjack.Logger{
			Filename:   path.Join(cfg.Path, f.Name),
			MaxSize:    f.MaxSize,
			MaxAge:     f.MaxAge,
			MaxBackups: f.MaxBackups,
		}
	}

	return &LevelWriter{
		Writer:      io.Discard,
		ErrorWriter: rolling(cfg.Error),
		InfoWriter:  rolling(cfg.Info),
		TraceWriter: rolling(cfg.Trace),
		WarnWriter:  rolling(cfg.Warn),
	}, nil
}
