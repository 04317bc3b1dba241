package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/tandem/pkg/domain"
)

// Source implements ports.PageSource over an in-memory slice.
// Safe for concurrent use.
type Source struct {
	mu       sync.RWMutex
	values   []domain.Value
	pageSize int
	latency  time.Duration
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithPageSize sets the number of values per page (default domain.DefaultPageSize).
func WithPageSize(n int) SourceOption {
	return func(s *Source) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLatency delays every fetch, to mimic a remote backend.
func WithLatency(d time.Duration) SourceOption {
	return func(s *Source) {
		s.latency = d
	}
}

// NewSource creates a new in-memory source.
func NewSource(values []domain.Value, opts ...SourceOption) *Source {
	s := &Source{
		values:   slices.Clone(values),
		pageSize: domain.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Values builds values whose code and label are both the given string.
func Values(codes ...string) []domain.Value {
	out := make([]domain.Value, len(codes))
	for i, c := range codes {
		out[i] = domain.Value{Code: c, Label: c}
	}
	return out
}

// FetchPage filters the values by term and returns the requested page.
func (s *Source) FetchPage(ctx context.Context, term string, page int) (domain.Page, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Page{}, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Page{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Paginate(domain.Filter(s.values, term), page, s.pageSize)
}

// Replace swaps the backing values. Fetches already in flight are unaffected.
func (s *Source) Replace(values []domain.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = slices.Clone(values)
}

// Len returns the number of values held.
func (s *Source) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
