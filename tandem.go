package tandem

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tandem/internal/runtime"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
)

// Coordinator is the high-level entry point for the tandem library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Coordinator struct {
	runtime     *runtime.Coordinator
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.Option
}

// Ensure Coordinator satisfies the adapter-facing port.
var _ ports.Coordinator = (*Coordinator)(nil)

// Option defines a functional option for configuring the Coordinator.
type Option func(*Coordinator)

// WithLifecycleHooks registers observability hooks. Multiple calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Coordinator) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithMessageTTL sets how long the combination message stays in snapshots.
func WithMessageTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithMessageTTL(ttl))
	}
}

// WithQueueSize sets the buffer of the event queue.
func WithQueueSize(n int) Option {
	return func(c *Coordinator) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithQueueSize(n))
	}
}

// WithID overrides the generated coordinator ID carried by snapshots.
func WithID(id string) Option {
	return func(c *Coordinator) {
		c.runtimeOpts = append(c.runtimeOpts, runtime.WithID(id))
	}
}

// New initializes a Coordinator over two page sources and a combiner.
// Both lists start loading page zero immediately.
func New(a, b ports.PageSource, combiner ports.Combiner, opts ...Option) (*Coordinator, error) {
	if a == nil || b == nil {
		return nil, errors.New("both page sources are required")
	}
	if combiner == nil {
		return nil, errors.New("combiner is required")
	}

	c := &Coordinator{}
	for _, opt := range opts {
		opt(c)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithLogger(c.logger),
	}
	runtimeOpts = append(runtimeOpts, c.runtimeOpts...)

	c.runtime = runtime.NewCoordinator(a, b, combiner, runtimeOpts...)
	return c, nil
}

// ID returns the coordinator identifier.
func (c *Coordinator) ID() string {
	return c.runtime.ID()
}

// Dispatch processes an event and returns the resulting snapshot.
func (c *Coordinator) Dispatch(ctx context.Context, event domain.Event) (*domain.Snapshot, error) {
	return c.runtime.Dispatch(ctx, event)
}

// Snapshot returns the last published snapshot.
func (c *Coordinator) Snapshot() *domain.Snapshot {
	return c.runtime.Snapshot()
}

// Watch streams published snapshots until ctx is done or the coordinator closes.
func (c *Coordinator) Watch(ctx context.Context) <-chan *domain.Snapshot {
	return c.runtime.Watch(ctx)
}

// Close stops the coordinator. It is safe to call more than once.
func (c *Coordinator) Close() error {
	return c.runtime.Close()
}

// Search sets the search term of a list and reloads it.
func (c *Coordinator) Search(ctx context.Context, region domain.Region, term string) (*domain.Snapshot, error) {
	return c.Dispatch(ctx, domain.Search{Region: region, Term: term})
}

// LoadMore fetches the next page of a list.
func (c *Coordinator) LoadMore(ctx context.Context, region domain.Region) (*domain.Snapshot, error) {
	return c.Dispatch(ctx, domain.LoadMore{Region: region})
}

// PickFirst commits a value of list A.
func (c *Coordinator) PickFirst(ctx context.Context, code string) (*domain.Snapshot, error) {
	return c.Dispatch(ctx, domain.PickFirst{Code: code})
}

// PickSecond commits a value of list B, starting the combination.
func (c *Coordinator) PickSecond(ctx context.Context, code string) (*domain.Snapshot, error) {
	return c.Dispatch(ctx, domain.PickSecond{Code: code})
}

// RetryCombine re-runs a failed combination.
func (c *Coordinator) RetryCombine(ctx context.Context) (*domain.Snapshot, error) {
	return c.Dispatch(ctx, domain.RetryCombine{})
}

// CancelSelection drops the committed picks.
func (c *Coordinator) CancelSelection(ctx context.Context) (*domain.Snapshot, error) {
	return c.Dispatch(ctx, domain.CancelSelection{})
}
