// Package logging builds the zerolog logger used by the command line tool.
// Library packages never construct loggers; they read one from the context
// with zerolog.Ctx.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// JSON writes one JSON object per line instead of console output.
	JSON  bool
	Color bool
	Out   io.Writer
	// RunID tags every line; a random UUID is used when empty.
	RunID string
}

// New returns a logger configured from opts.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), errors.Errorf("parsing log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    !opts.Color,
			PartsOrder: []string{"time", "level", "caller", "message"},
		}
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := zerolog.New(out).
		Level(level).
		Hook(TimeHook{}).
		Hook(CallerHook{WithColor: opts.Color && !opts.JSON}).
		With().
		Str("run", runID).
		Logger()

	return logger, nil
}

// WithContext is New followed by attaching the logger to ctx.
func WithContext(ctx context.Context, opts Options) (context.Context, error) {
	logger, err := New(opts)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx), nil
}
