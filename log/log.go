package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// NewHandler sets up a new slog.Handler with the service name
// as an attribute
func NewHandler(name string) slog.Handler {
	return newHandler(os.Stdout, name, slog.LevelInfo)
}

func newHandler(w io.Writer, name string, level slog.Level) slog.Handler {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return handler.WithAttrs([]slog.Attr{slog.String("service", name)})
}

func New(name string) *slog.Logger {
	return slog.New(NewHandler(name))
}

// NewDebug is New with debug records enabled.
func NewDebug(name string) *slog.Logger {
	return slog.New(newHandler(os.Stdout, name, slog.LevelDebug))
}

type ctxKey struct{}

// IntoContext adds a logger to a context. Use FromContext to
// pull the logger out.
func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns a logger from a context.Context;
// if the passed context is nil, we return the default slog
// logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		v := ctx.Value(ctxKey{})
		if v == nil {
			return slog.Default()
		}
		return v.(*slog.Logger)
	}

	return slog.Default()
}
