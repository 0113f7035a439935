package basex

import (
	"io"
	"log/slog"
	"os"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if o.Debug {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return nopLogger()
}

// prepareConnLogger enriches the base logger with connection context.
func prepareConnLogger(base *slog.Logger, addr string) *slog.Logger {
	return base.With(
		slog.String("addr", addr),
		slog.String("protocol", "basex"),
	)
}
