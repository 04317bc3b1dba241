package tui

import (
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// RendererOption configures NewRenderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	style string
	width int
}

// WithStyle selects a glamour standard style ("dark", "light", "notty").
// Without it the style is detected from the terminal background.
func WithStyle(style string) RendererOption {
	return func(c *rendererConfig) {
		c.style = style
	}
}

// WithWordWrap sets the wrap width.
func WithWordWrap(width int) RendererOption {
	return func(c *rendererConfig) {
		c.width = width
	}
}

// NewRenderer returns a snapshot renderer that formats Markdown(s) with glamour.
func NewRenderer(opts ...RendererOption) (func(*domain.Snapshot) (string, error), error) {
	cfg := rendererConfig{width: 80}
	for _, opt := range opts {
		opt(&cfg)
	}

	termOpts := []glamour.TermRendererOption{glamour.WithWordWrap(cfg.width)}
	if cfg.style != "" {
		termOpts = append(termOpts, glamour.WithStandardStyle(cfg.style))
	} else {
		termOpts = append(termOpts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(termOpts...)
	if err != nil {
		return nil, err
	}
	return func(s *domain.Snapshot) (string, error) {
		return r.Render(Markdown(s))
	}, nil
}
