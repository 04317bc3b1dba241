package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/tandem/internal/config"
	tandemhttp "github.com/aretw0/tandem/pkg/adapters/http"
)

// Validate checks the configuration at path and the embedded OpenAPI
// document, writing a short report to w.
func Validate(ctx context.Context, path string, w io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	for i, l := range cfg.Lists {
		fmt.Fprintf(w, "list %s: %s (%d values)\n", string(rune('a'+i)), l.Name, len(l.Values))
	}
	fmt.Fprintf(w, "source: %s, page size %d\n", cfg.Source.Kind, cfg.Coordinator.PageSize)

	doc, err := tandemhttp.Spec(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "openapi: %s %s\n", doc.Info.Title, doc.Info.Version)
	return nil
}
