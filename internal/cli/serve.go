package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tandem/internal/config"
	tandemhttp "github.com/aretw0/tandem/pkg/adapters/http"
	"github.com/aretw0/tandem/pkg/observability"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the serve command.
type ServeOptions struct {
	ConfigPath  string
	Addr        string // overrides server.addr when set
	MetricsAddr string // overrides server.metrics_addr when set
	Debug       bool
}

// NewServeHandler mounts the coordinator API, the catalog server under
// /catalogs and, when withMetrics is set, the Prometheus endpoint.
func NewServeHandler(s *Stack, logger *slog.Logger, withMetrics bool) http.Handler {
	r := tandemhttp.NewCoordinatorHandler(s.Coordinator, tandemhttp.WithLogger(logger))
	r.Mount("/catalogs", tandemhttp.NewCatalogHandler(s.Catalogs, tandemhttp.WithLogger(logger)))
	if withMetrics {
		r.Handle("/metrics", observability.Handler(s.Registry))
	}
	return r
}

// Serve runs the HTTP servers until ctx is done.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	if opts.MetricsAddr != "" {
		cfg.Server.MetricsAddr = opts.MetricsAddr
	}

	logger, err := createLogger(cfg, opts.Debug, false)
	if err != nil {
		return err
	}

	stack, err := NewStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	separateMetrics := cfg.Server.MetricsAddr != "" && cfg.Server.MetricsAddr != cfg.Server.Addr
	servers := []*http.Server{{
		Addr:    cfg.Server.Addr,
		Handler: NewServeHandler(stack, logger, !separateMetrics),
	}}
	if separateMetrics {
		servers = append(servers, &http.Server{
			Addr:    cfg.Server.MetricsAddr,
			Handler: observability.Handler(stack.Registry),
		})
	}

	return runServers(ctx, logger, servers...)
}

// runServers serves until ctx is done or one server fails, then shuts all
// of them down.
func runServers(ctx context.Context, logger *slog.Logger, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "addr", srv.Addr, "err", err)
				errs = append(errs, srv.Close())
			}
		}
		logger.Info("servers stopped")
		return errors.Join(errs...)
	})

	return g.Wait()
}
