package ports

import (
	"context"

	"github.com/aretw0/tandem/pkg/domain"
)

// Coordinator is the event-dispatch surface used by adapters (HTTP, MCP, CLI).
type Coordinator interface {
	// Dispatch processes the event to completion and returns the resulting snapshot.
	// Events that are invalid for the current state are ignored, not reported as errors.
	Dispatch(ctx context.Context, event domain.Event) (*domain.Snapshot, error)

	// Snapshot returns the last published snapshot.
	Snapshot() *domain.Snapshot

	// Watch streams every published snapshot until ctx is done.
	// Slow readers only observe the most recent one.
	Watch(ctx context.Context) <-chan *domain.Snapshot
}
