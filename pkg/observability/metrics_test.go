package observability_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnEvent(ctx, &domain.DispatchEvent{Kind: domain.EventSearch, Applied: true})
	hooks.OnEvent(ctx, &domain.DispatchEvent{Kind: domain.EventLoadMore, Applied: false})
	hooks.OnFetch(ctx, &domain.FetchEvent{Region: domain.RegionA, Mode: domain.FetchLoad, Duration: 10 * time.Millisecond})
	hooks.OnFetch(ctx, &domain.FetchEvent{Region: domain.RegionA, Mode: domain.FetchLoadMore, Stale: true})
	hooks.OnFetch(ctx, &domain.FetchEvent{Region: domain.RegionB, Mode: domain.FetchLoad, Err: errors.New("boom")})
	hooks.OnCombine(ctx, &domain.CombineEvent{First: "a", Second: "b"})
	hooks.OnCombine(ctx, &domain.CombineEvent{Err: errors.New("down")})

	body := scrape(t, reg)
	for _, want := range []string{
		`tandem_events_total{applied="true",kind="search"} 1`,
		`tandem_events_total{applied="false",kind="load_more"} 1`,
		`tandem_fetches_total{mode="load",outcome="ok",region="a"} 1`,
		`tandem_fetches_total{mode="load_more",outcome="stale",region="a"} 1`,
		`tandem_fetches_total{mode="load",outcome="error",region="b"} 1`,
		`tandem_combinations_total{outcome="ok"} 1`,
		`tandem_combinations_total{outcome="error"} 1`,
		`tandem_fetch_duration_seconds_count{region="a"} 2`,
		`tandem_combine_duration_seconds_count 2`,
	} {
		assert.Contains(t, body, want)
	}
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	srv := httptest.NewServer(observability.Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewMetrics_Unregistered(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnCombine(context.Background(), &domain.CombineEvent{})

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.Combinations))
	assert.Contains(t, scrape(t, reg), `tandem_combinations_total{outcome="ok"} 1`)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnEvent(ctx, &domain.DispatchEvent{Kind: domain.EventSearch})
	hooks.OnFetch(ctx, &domain.FetchEvent{Region: domain.RegionB, Mode: domain.FetchLoad, Err: errors.New("refused")})
	hooks.OnCombine(ctx, &domain.CombineEvent{First: "x", Second: "y", Message: "mapped"})

	out := buf.String()
	assert.NotContains(t, out, "msg=event", "events are debug only")
	assert.Contains(t, out, "level=WARN msg=fetch region=b")
	assert.Contains(t, out, "outcome=error")
	assert.True(t, strings.Contains(out, "msg=combine first=x second=y message=mapped"))
}
