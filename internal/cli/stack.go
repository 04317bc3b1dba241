package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tandem"
	"github.com/aretw0/tandem/internal/config"
	tandemhttp "github.com/aretw0/tandem/pkg/adapters/http"
	"github.com/aretw0/tandem/pkg/adapters/memory"
	"github.com/aretw0/tandem/pkg/adapters/redis"
	"github.com/aretw0/tandem/pkg/observability"
	"github.com/aretw0/tandem/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Stack is a running coordinator together with the sources it reads and the
// registry its metrics are recorded in.
type Stack struct {
	Coordinator *tandem.Coordinator
	Catalogs    map[string]ports.PageSource
	Registry    *prometheus.Registry

	closers []io.Closer
}

// NewStack builds the sources named by cfg and starts a coordinator over
// them. Redis catalogs are seeded from the configured values when empty.
func NewStack(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stack, error) {
	s := &Stack{
		Catalogs: make(map[string]ports.PageSource, len(cfg.Lists)),
		Registry: prometheus.NewRegistry(),
	}

	sources := make([]ports.PageSource, 0, len(cfg.Lists))
	for _, l := range cfg.Lists {
		src, err := s.newSource(ctx, cfg, l, logger)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Catalogs[l.Name] = src
		sources = append(sources, src)
	}
	if len(sources) != 2 {
		_ = s.Close()
		return nil, fmt.Errorf("need exactly 2 catalogs, got %d", len(sources))
	}

	metrics := observability.NewMetrics(s.Registry)
	opts := []tandem.Option{
		tandem.WithLogger(logger),
		tandem.WithLifecycleHooks(metrics.Hooks().Merge(observability.LogHooks(logger))),
		tandem.WithMessageTTL(cfg.Coordinator.MessageTTL),
	}
	if cfg.Coordinator.QueueSize > 0 {
		opts = append(opts, tandem.WithQueueSize(cfg.Coordinator.QueueSize))
	}

	combiner := memory.NewCombiner(memory.WithDelay(cfg.Coordinator.CombineDelay))
	c, err := tandem.New(sources[0], sources[1], combiner, opts...)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("error initializing coordinator: %w", err)
	}
	s.Coordinator = c

	logger.Info("coordinator started", "id", c.ID(), "source", cfg.Source.Kind, "lists", cfg.ListNames())
	return s, nil
}

func (s *Stack) newSource(ctx context.Context, cfg config.Config, l config.Catalog, logger *slog.Logger) (ports.PageSource, error) {
	switch cfg.Source.Kind {
	case config.SourceRedis:
		src, err := redis.New(cfg.Source.RedisURL, l.Name,
			redis.WithPrefix(cfg.Source.RedisPrefix),
			redis.WithPageSize(cfg.Coordinator.PageSize),
		)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", l.Name, err)
		}
		s.closers = append(s.closers, src)

		seeded, err := src.SeedIfEmpty(ctx, l.Values)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", l.Name, err)
		}
		if seeded {
			logger.Info("catalog seeded", "list", l.Name, "count", len(l.Values))
		}
		return src, nil
	case config.SourceHTTP:
		return tandemhttp.NewClient(cfg.Source.UpstreamURL, l.Name), nil
	default:
		return memory.NewSource(l.Values, memory.WithPageSize(cfg.Coordinator.PageSize)), nil
	}
}

// Close stops the coordinator and releases the sources.
func (s *Stack) Close() error {
	var errs []error
	if s.Coordinator != nil {
		errs = append(errs, s.Coordinator.Close())
	}
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
