package runner

import (
	"context"

	"github.com/aretw0/tandem/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents a published snapshot. Handlers may skip snapshots that
	// carry no visible change.
	Output(ctx context.Context, snap *domain.Snapshot) error

	// Input reads the next command. It returns io.EOF when the input ends.
	Input(ctx context.Context) (Command, error)

	// SystemOutput presents a meta-message (help, errors, status).
	SystemOutput(ctx context.Context, msg string) error
}

// Renderer turns a snapshot into displayable text.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type Renderer func(*domain.Snapshot) (string, error)
