// Package logger provides the process-wide zerolog logger.
//
// Call Init once from main, then Get wherever a logger is needed outside of
// constructor injection.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Service is attached to every entry as the "service" field.
	Service string
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Development switches to the coloured console writer.
	Development bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// Init builds the process logger. Only the first call has any effect.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return *instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Development {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl := ParseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Development {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	instance = &l
	return l
}

// Get returns the process logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		panic("logger: Get() called before Init()")
	}
	return *instance
}

// Reset drops the process logger so the next Init rebuilds it. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

// ParseLevel maps a LOG_LEVEL value onto a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
