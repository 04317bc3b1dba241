package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/tandem/pkg/domain"
)

// TextHandler implements the interactive text interface.
type TextHandler struct {
	Writer   io.Writer
	Renderer Renderer
	Prompt   string

	input *linePump

	mu   sync.Mutex
	last *domain.Snapshot
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the snapshot renderer.
func WithTextHandlerRenderer(renderer Renderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt sets the input prompt. An empty prompt disables it.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer:   w,
		input:    newLinePump(r),
		Renderer: FormatSnapshot,
		Prompt:   "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Output renders the snapshot unless nothing visible changed since the last one.
func (h *TextHandler) Output(ctx context.Context, snap *domain.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if snap == nil {
		return nil
	}
	if h.last != nil && domain.Diff(h.last, snap) == nil {
		return nil
	}
	h.last = snap

	out, err := h.Renderer(snap)
	if err != nil {
		out, _ = FormatSnapshot(snap)
	}
	_, err = fmt.Fprintln(h.Writer, strings.TrimRight(out, "\n"))
	return err
}

// Input reads and parses the next command. Invalid lines are reported and
// the user is asked again.
func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Command{}, err
		}
		if h.Prompt != "" {
			h.write(h.Prompt)
		}

		line, err := h.input.next(ctx)
		if err != nil {
			return Command{}, err
		}

		clean, err := SanitizeInput(strings.TrimSpace(line))
		if err != nil {
			h.write(fmt.Sprintf("Error: %v. Please try again.\n", err))
			continue
		}
		cmd, err := ParseCommand(clean)
		if err != nil {
			h.write(fmt.Sprintf("Error: %v. Type help for commands.\n", err))
			continue
		}
		if cmd.Event == nil && !cmd.Quit && !cmd.Help {
			continue
		}
		return cmd, nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	h.write(fmt.Sprintf("[System] %s\n", msg))
	return nil
}

func (h *TextHandler) write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprint(h.Writer, s)
}
