package http

import (
	"log/slog"

	"github.com/aretw0/tandem/internal/logging"
)

type handlerConfig struct {
	logger *slog.Logger
}

// HandlerOption configures the HTTP handlers.
type HandlerOption func(*handlerConfig)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(c *handlerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newHandlerConfig(opts []HandlerOption) handlerConfig {
	cfg := handlerConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
