package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tandem/pkg/domain"
)

// Client implements ports.PageSource against a catalog server.
type Client struct {
	baseURL string
	list    string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.http = &http.Client{Timeout: d}
	}
}

// NewClient creates a PageSource reading the named list from baseURL.
func NewClient(baseURL, list string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		list:    list,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage requests one page. Non-2xx responses become errors carrying the
// server message.
func (c *Client) FetchPage(ctx context.Context, term string, page int) (domain.Page, error) {
	if page < 0 {
		return domain.Page{}, fmt.Errorf("%w: %d", domain.ErrInvalidPage, page)
	}

	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(page))
	if term != "" {
		q.Set("search", term)
	}
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(c.list), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("fetch %s page %d: %w", c.list, page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(body))
		}
		return domain.Page{}, fmt.Errorf("fetch %s page %d: status %d: %s", c.list, page, resp.StatusCode, e.Error)
	}

	var p domain.Page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.Page{}, fmt.Errorf("failed to decode page: %w", err)
	}
	if p.Values == nil {
		p.Values = []domain.Value{}
	}
	return p, nil
}
