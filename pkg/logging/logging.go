package logging

import (
	"log/slog"
	"os"

	"github.com/tixoraa/tixoraa-backend/pkg/env"
)

// Setup builds the process-wide slog logger: human-readable text in
// test/local/dev, JSON in prod. The returned cleanup is a no-op today but
// keeps the call sites stable if a file sink comes back.
func Setup(mode env.Mode) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: mode.SlogLevel()}

	var handler slog.Handler
	if mode == env.Prod {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler), func() {}
}
