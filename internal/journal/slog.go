package journal

import (
	"context"
	"log/slog"
)

// SlogSink mirrors entries into a structured logger. Error entries are
// logged at error level, everything else at info.
func SlogSink(logger *slog.Logger) Sink {
	return SinkFunc(func(e Entry) {
		level := slog.LevelInfo
		if e.Type == Error {
			level = slog.LevelError
		}
		logger.LogAttrs(context.Background(), level, e.Message,
			slog.String("type", string(e.Type)),
			slog.Uint64("seq", e.Seq),
		)
	})
}
