package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/tandem/internal/config"
	"github.com/aretw0/tandem/pkg/adapters/redis"
)

// Seed writes the configured catalogs to Redis. Without force, catalogs
// that already hold values are left alone.
func Seed(ctx context.Context, path string, force bool, w io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg.Source.RedisURL == "" {
		return fmt.Errorf("source.redis_url is not set")
	}

	for _, l := range cfg.Lists {
		src, err := redis.New(cfg.Source.RedisURL, l.Name, redis.WithPrefix(cfg.Source.RedisPrefix))
		if err != nil {
			return fmt.Errorf("catalog %s: %w", l.Name, err)
		}

		seeded := true
		if force {
			err = src.Seed(ctx, l.Values)
		} else {
			seeded, err = src.SeedIfEmpty(ctx, l.Values)
		}
		_ = src.Close()
		if err != nil {
			return fmt.Errorf("catalog %s: %w", l.Name, err)
		}

		if seeded {
			fmt.Fprintf(w, "%s: %d values written\n", l.Name, len(l.Values))
		} else {
			fmt.Fprintf(w, "%s: already populated, skipped\n", l.Name)
		}
	}
	return nil
}
