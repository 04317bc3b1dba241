package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/tandem/pkg/domain"
)

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Each input line is a domain.EventRequest (or {"type":"quit"}); each
// published snapshot is written as one line.
type JSONHandler struct {
	Encoder *json.Encoder

	input *linePump

	mu          sync.Mutex
	lastVersion uint64
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Encoder: json.NewEncoder(w),
		input:   newLinePump(r),
	}
}

type jsonEnvelope struct {
	Type     string           `json:"type"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// Output writes each snapshot version once.
func (h *JSONHandler) Output(ctx context.Context, snap *domain.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if snap == nil || (h.lastVersion != 0 && snap.Version <= h.lastVersion) {
		return nil
	}
	h.lastVersion = snap.Version
	return h.Encoder.Encode(jsonEnvelope{Type: "snapshot", Snapshot: snap})
}

// Input reads one event request per line. Blank lines are skipped.
func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	for {
		line, err := h.input.next(ctx)
		if err != nil {
			return Command{}, err
		}
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		clean, serr := SanitizeInput(text)
		if serr != nil {
			_ = h.SystemOutput(ctx, serr.Error())
			continue
		}

		var req domain.EventRequest
		if jerr := json.Unmarshal([]byte(clean), &req); jerr != nil {
			_ = h.SystemOutput(ctx, fmt.Sprintf("invalid request: %v", jerr))
			continue
		}

		switch strings.ToLower(string(req.Type)) {
		case "quit", "exit":
			return Command{Quit: true}, nil
		case "help":
			return Command{Help: true}, nil
		}

		event, eerr := req.Event()
		if eerr != nil {
			_ = h.SystemOutput(ctx, eerr.Error())
			continue
		}
		return Command{Event: event}, nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(jsonEnvelope{Type: "system", Message: msg})
}
