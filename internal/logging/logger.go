package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the root logger.
type Options struct {
	ServiceName string
	Level       string
	Format      string // json or console
	Output      io.Writer
}

// New builds the root logger. Request scoped loggers are derived from it
// with WithField and travel on the context.
func New(opts Options) zerolog.Logger {
	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(ParseLevel(opts.Level))
}

func ParseLevel(value string) zerolog.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(levelString); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

// FromContext returns the logger attached to ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithField returns a copy of ctx whose logger carries key=value.
func WithField(ctx context.Context, key string, value any) context.Context {
	l := zerolog.Ctx(ctx).With().Interface(key, value).Logger()
	return l.WithContext(ctx)
}

// WithFields is WithField for several pairs.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	l := zerolog.Ctx(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return WithField(ctx, "request_id", requestID)
}

func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return WithField(ctx, "tenant_id", tenantID)
}
