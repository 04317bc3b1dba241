package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/tandem"
	"github.com/aretw0/tandem/internal/presentation/graph"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
	"github.com/aretw0/tandem/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// CoordinatorServer exposes one coordinator over HTTP.
type CoordinatorServer struct {
	Coordinator ports.Coordinator
	Logger      *slog.Logger
}

// NewCoordinatorHandler creates the handler for the coordinator endpoints.
// Extra routes (such as a catalog handler) can be mounted on the returned
// router by the caller.
func NewCoordinatorHandler(c ports.Coordinator, opts ...HandlerOption) chi.Router {
	cfg := newHandlerConfig(opts)
	s := &CoordinatorServer{Coordinator: c, Logger: cfg.logger}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Get("/health", health(s.Logger))
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", serveSpec)
	r.Get("/swagger", serveSwaggerUI)
	r.Post("/events", s.DispatchEvent)
	r.Get("/snapshot", s.GetSnapshot)
	r.Get("/stream", s.SubscribeSnapshots)
	r.Get("/graph", s.GetGraph)
	return r
}

// DispatchEvent handles POST /events.
func (s *CoordinatorServer) DispatchEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.Logger, http.StatusBadRequest, "invalid request body")
		s.Logger.Warn("DispatchEvent: invalid request body", "err", err)
		return
	}

	for _, field := range []*string{&req.Term, &req.Code} {
		clean, err := runner.SanitizeInput(*field)
		if err != nil {
			writeError(w, s.Logger, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
			s.Logger.Warn("DispatchEvent: input rejected", "err", err, "size", len(*field))
			return
		}
		*field = clean
	}

	event, err := req.Event()
	if err != nil {
		writeError(w, s.Logger, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.Coordinator.Dispatch(r.Context(), event)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrCoordinatorClosed):
			status = http.StatusServiceUnavailable
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusRequestTimeout
		}
		writeError(w, s.Logger, status, err.Error())
		s.Logger.Error("dispatch failed", "err", err, "kind", event.Kind())
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, snap)
}

// GetSnapshot handles GET /snapshot.
func (s *CoordinatorServer) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, s.Coordinator.Snapshot())
}

// GetGraph handles GET /graph.
func (s *CoordinatorServer) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Coordinator.Snapshot()))
}

// GetInfo handles GET /info.
func (s *CoordinatorServer) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":         "tandem-http",
		"version":     strings.TrimSpace(tandem.Version),
		"api_version": apiVersion(r.Context()),
	})
}

// SubscribeSnapshots handles GET /stream (SSE). The first message carries the
// full current snapshot as a diff against nothing; later ones carry only what
// changed. The optional watch parameter (lists, selection, message) drops
// diffs that do not touch the watched parts.
func (s *CoordinatorServer) SubscribeSnapshots(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, s.Logger, http.StatusInternalServerError, "streaming not supported")
		s.Logger.Error("SubscribeSnapshots: streaming not supported")
		return
	}

	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			watch = append(watch, strings.TrimSpace(f))
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Info("SSE: client subscribed")

	var last *domain.Snapshot
	for snap := range s.Coordinator.Watch(r.Context()) {
		diff := domain.Diff(last, snap)
		last = snap
		if diff == nil || !watched(diff, watch) {
			continue
		}
		payload, err := json.Marshal(diff)
		if err != nil {
			s.Logger.Error("SSE: diff encode failed", "err", err)
			continue
		}
		fmt.Fprintf(w, "id: %d\ndata: %s\n\n", snap.Version, payload)
		flusher.Flush()
	}
	s.Logger.Info("SSE: client disconnected")
}

func watched(diff *domain.SnapshotDiff, fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		switch f {
		case "lists":
			if len(diff.Lists) > 0 {
				return true
			}
		case "selection":
			if diff.Selection != nil || diff.SecondSelectable != nil {
				return true
			}
		case "message":
			if diff.MessageChanged {
				return true
			}
		}
	}
	return false
}
