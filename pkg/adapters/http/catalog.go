package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
	"github.com/aretw0/tandem/pkg/runner"
	"github.com/go-chi/chi/v5"
)

// CatalogServer serves pages of named catalogs.
type CatalogServer struct {
	Catalogs map[string]ports.PageSource
	Logger   *slog.Logger
}

// NewCatalogHandler creates the handler for GET /{list}?pageNumber=N&search=T.
func NewCatalogHandler(catalogs map[string]ports.PageSource, opts ...HandlerOption) http.Handler {
	cfg := newHandlerConfig(opts)
	s := &CatalogServer{Catalogs: catalogs, Logger: cfg.logger}

	r := chi.NewRouter()
	r.Get("/health", health(s.Logger))
	r.Get("/{list}", s.GetPage)
	return enableCORS(r)
}

// GetPage handles GET /{list}.
func (s *CatalogServer) GetPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "list")
	source, ok := s.Catalogs[name]
	if !ok {
		writeError(w, s.Logger, http.StatusNotFound, fmt.Sprintf("%v: %q", domain.ErrUnknownList, name))
		return
	}

	page := 0
	if raw := r.URL.Query().Get("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, s.Logger, http.StatusBadRequest, fmt.Sprintf("%v: %q", domain.ErrInvalidPage, raw))
			return
		}
		page = n
	}

	term, err := runner.SanitizeInput(r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, s.Logger, http.StatusBadRequest, err.Error())
		s.Logger.Warn("search rejected", "err", err, "list", name)
		return
	}

	p, err := source.FetchPage(r.Context(), term, page)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidPage) {
			status = http.StatusBadRequest
		}
		writeError(w, s.Logger, status, err.Error())
		s.Logger.Error("fetch page failed", "err", err, "list", name, "page", page)
		return
	}

	s.Logger.Debug("page served", "list", name, "page", page, "term", term, "count", len(p.Values))
	writeJSON(w, s.Logger, http.StatusOK, p)
}
