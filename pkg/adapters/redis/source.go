package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/tandem/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is the key prefix of catalog lists.
const DefaultPrefix = "tandem:catalog:"

// Source implements ports.PageSource over a Redis list holding one JSON
// encoded value per element, in catalog order.
type Source struct {
	client   *backend.Client
	prefix   string
	name     string
	pageSize int
}

type Option func(*Source)

// WithPrefix sets the key prefix for catalogs.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// WithPageSize sets the number of values per page.
func WithPageSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New creates a Source for the named catalog, connecting to the Redis server
// described by url (redis://[:password@]host:port/db).
func New(url, name string, opts ...Option) (*Source, error) {
	o, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(o), name, opts...), nil
}

// NewFromClient creates a Source for the named catalog from an existing client.
func NewFromClient(client *backend.Client, name string, opts ...Option) *Source {
	s := &Source{
		client:   client,
		prefix:   DefaultPrefix,
		name:     name,
		pageSize: domain.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) key() string {
	return s.prefix + s.name
}

// FetchPage returns one page of the catalog. Without a term only the
// requested range is read; a term requires a scan of the whole list.
func (s *Source) FetchPage(ctx context.Context, term string, page int) (domain.Page, error) {
	if page < 0 {
		return domain.Page{}, fmt.Errorf("%w: %d", domain.ErrInvalidPage, page)
	}
	if term != "" {
		all, err := s.load(ctx, 0, -1)
		if err != nil {
			return domain.Page{}, err
		}
		return domain.Paginate(domain.Filter(all, term), page, s.pageSize)
	}

	// An offset past MaxInt64 is past the end of any list.
	if page > (math.MaxInt64-s.pageSize)/s.pageSize {
		return domain.Page{Values: []domain.Value{}}, nil
	}

	start := int64(page) * int64(s.pageSize)
	pipe := s.client.TxPipeline()
	rng := pipe.LRange(ctx, s.key(), start, start+int64(s.pageSize)-1)
	size := pipe.LLen(ctx, s.key())
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, backend.Nil) {
		return domain.Page{}, fmt.Errorf("failed to read catalog %q: %w", s.name, err)
	}

	values, err := decode(rng.Val())
	if err != nil {
		return domain.Page{}, fmt.Errorf("catalog %q: %w", s.name, err)
	}

	total := int(size.Val())
	p := domain.Page{Values: values}
	if lastPage := (total+s.pageSize-1)/s.pageSize - 1; lastPage > page {
		p.NextPage = domain.PageIndex(page + 1)
	}
	return p, nil
}

func (s *Source) load(ctx context.Context, start, stop int64) ([]domain.Value, error) {
	raw, err := s.client.LRange(ctx, s.key(), start, stop).Result()
	if err != nil && !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("failed to read catalog %q: %w", s.name, err)
	}
	values, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %q: %w", s.name, err)
	}
	return values, nil
}

// Values returns the whole catalog.
func (s *Source) Values(ctx context.Context) ([]domain.Value, error) {
	return s.load(ctx, 0, -1)
}

// Seed replaces the catalog with values in a single transaction.
func (s *Source) Seed(ctx context.Context, values []domain.Value) error {
	encoded := make([]any, 0, len(values))
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value %q: %w", v.Code, err)
		}
		encoded = append(encoded, data)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key())
	if len(encoded) > 0 {
		pipe.RPush(ctx, s.key(), encoded...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog %q: %w", s.name, err)
	}
	return nil
}

// Close closes the redis client.
func (s *Source) Close() error {
	return s.client.Close()
}

func decode(raw []string) ([]domain.Value, error) {
	values := make([]domain.Value, 0, len(raw))
	for i, item := range raw {
		var v domain.Value
		if err := json.Unmarshal([]byte(item), &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal value at %d: %w", i, err)
		}
		values = append(values, v)
	}
	return values, nil
}
