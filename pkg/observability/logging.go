package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tandem/pkg/domain"
)

// LogHooks returns lifecycle hooks that log fetches and combinations.
// Events are logged at debug level only.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvent: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.DebugContext(ctx, "event", "kind", e.Kind, "applied", e.Applied, "coordinator", e.CoordinatorID)
		},
		OnFetch: func(ctx context.Context, e *domain.FetchEvent) {
			attrs := []any{
				"region", e.Region,
				"mode", e.Mode,
				"term", e.Term,
				"page", e.Page,
				"outcome", e.Outcome(),
				"count", e.Count,
				"duration", e.Duration,
			}
			if e.Err != nil {
				logger.WarnContext(ctx, "fetch", append(attrs, "err", e.Err)...)
				return
			}
			logger.InfoContext(ctx, "fetch", attrs...)
		},
		OnCombine: func(ctx context.Context, e *domain.CombineEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "combine", "first", e.First, "second", e.Second, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "combine", "first", e.First, "second", e.Second, "message", e.Message, "duration", e.Duration)
		},
	}
}
