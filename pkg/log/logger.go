package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// Options controls where and how verbosely the process logs.
type Options struct {
	Debug bool
	// Out defaults to stdout. Transports that own stdout (MCP stdio) pass stderr.
	Out io.Writer
}

func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	return NewContext(ctx, Options{Debug: debug})
}

// NewContext installs a console logger behind a diode ring buffer and returns
// a flush func that must run before the process exits.
func NewContext(ctx context.Context, opts Options) (context.Context, func()) {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return ""
	}

	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	wr := diode.NewWriter(out, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "Logger Dropped %d messages\n", missed)
	})

	output := zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.MessageFieldName,
		},
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Logger()

	log.Logger = logger

	return logger.WithContext(ctx), func() {
		_ = wr.Close()
	}
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// With returns a context whose logger carries an extra string field.
func With(ctx context.Context, key, value string) context.Context {
	logger := FromCtx(ctx).With().Str(key, value).Logger()
	return logger.WithContext(ctx)
}
