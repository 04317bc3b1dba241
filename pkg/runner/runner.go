package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/tandem/internal/logging"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
)

// Runner pairs the snapshot stream of a coordinator with an input loop.
type Runner struct {
	Handler IOHandler
	Logger  *slog.Logger
	Signals bool
	Banner  string
}

// NewRunner creates a Runner. Without a handler it uses text IO on
// Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run shows every published snapshot and dispatches the commands read from
// the handler until the input ends, a quit command is read or ctx is done.
// Reaching the end of input or quitting is not an error.
func (r *Runner) Run(ctx context.Context, c ports.Coordinator) error {
	var signals *SignalManager
	if r.Signals {
		signals = NewSignalManager(ctx)
		defer signals.Stop()
		ctx = signals.Context()
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if r.Banner != "" {
		_ = r.Handler.SystemOutput(ctx, r.Banner)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for snap := range c.Watch(ctx) {
			if err := r.Handler.Output(ctx, snap); err != nil {
				r.Logger.Warn("output failed", "err", err)
			}
		}
	}()

	for {
		cmd, err := r.Handler.Input(ctx)
		if err != nil {
			if signals != nil {
				signals.CheckRace()
			}
			switch {
			case errors.Is(err, io.EOF):
				r.Logger.Debug("input closed")
				return nil
			case ctx.Err() != nil:
				r.Logger.Debug("runner stopped", "err", ctx.Err())
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch {
		case cmd.Quit:
			return nil
		case cmd.Help:
			_ = r.Handler.SystemOutput(ctx, Help)
			continue
		case cmd.Event == nil:
			continue
		}

		snap, err := c.Dispatch(ctx, cmd.Event)
		if err != nil {
			if errors.Is(err, domain.ErrCoordinatorClosed) {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("dispatch %s: %w", cmd.Event.Kind(), err)
		}
		r.Logger.Debug("event dispatched", "kind", cmd.Event.Kind(), "version", snap.Version)
	}
}
