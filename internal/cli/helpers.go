package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/tandem/internal/config"
	"github.com/aretw0/tandem/internal/logging"
)

// createLogger configures the application logger. Debug forces the debug
// level; quiet discards everything else so the list view owns the terminal.
func createLogger(cfg config.Config, debug, quiet bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	if quiet {
		return logging.NewNop(), nil
	}
	level, err := logging.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("server.log_level: %w", err)
	}
	return logging.New(level), nil
}
