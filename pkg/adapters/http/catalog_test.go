package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tandemhttp "github.com/aretw0/tandem/pkg/adapters/http"
	"github.com/aretw0/tandem/pkg/adapters/memory"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var articles = memory.Values("one", "two", "three", "four", "five", "six", "seven")

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(tandemhttp.NewCatalogHandler(map[string]ports.PageSource{
		"articles":   memory.NewSource(articles),
		"categories": memory.NewSource(memory.Values("red", "green")),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Contract(t *testing.T) {
	srv := newCatalogServer(t)
	ports.RunPageSourceContract(t, tandemhttp.NewClient(srv.URL, "articles"), articles)
}

func TestCatalogHandler_GetPage(t *testing.T) {
	srv := newCatalogServer(t)

	tests := []struct {
		name     string
		path     string
		status   int
		codes    []string
		nextPage *int
	}{
		{"First Page", "/articles", http.StatusOK, []string{"one", "two", "three"}, domain.PageIndex(1)},
		{"Middle Page", "/articles?pageNumber=1", http.StatusOK, []string{"four", "five", "six"}, domain.PageIndex(2)},
		{"Last Page", "/articles?pageNumber=2", http.StatusOK, []string{"seven"}, nil},
		{"Search", "/articles?search=O", http.StatusOK, []string{"one", "two", "four"}, nil},
		{"Past The End", "/articles?pageNumber=3", http.StatusOK, []string{}, nil},
		{"Huge Page", "/articles?pageNumber=3074457345618258603", http.StatusOK, []string{}, nil},
		{"Unknown List", "/nothing", http.StatusNotFound, nil, nil},
		{"Bad Page", "/articles?pageNumber=x", http.StatusBadRequest, nil, nil},
		{"Negative Page", "/articles?pageNumber=-1", http.StatusBadRequest, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				var e map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
				assert.NotEmpty(t, e["error"])
				return
			}

			var page domain.Page
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
			got := make([]string, len(page.Values))
			for i, v := range page.Values {
				got[i] = v.Code
			}
			assert.Equal(t, tt.codes, got)
			assert.Equal(t, tt.nextPage, page.NextPage)
		})
	}
}

func TestClient_ServerErrors(t *testing.T) {
	srv := newCatalogServer(t)

	_, err := tandemhttp.NewClient(srv.URL, "nothing").FetchPage(context.Background(), "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "unknown list")
}

func TestClient_HonorsContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tandemhttp.NewClient(srv.URL, "articles").FetchPage(ctx, "", 0)
	assert.ErrorIs(t, err, context.Canceled)
}
