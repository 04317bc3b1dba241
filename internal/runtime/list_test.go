package runtime

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vals(codes ...string) []domain.Value {
	out := make([]domain.Value, len(codes))
	for i, c := range codes {
		out[i] = domain.Value{Code: c, Label: c}
	}
	return out
}

func done(req fetchRequest, next *int, codes ...string) fetchDone {
	return fetchDone{req: req, page: domain.Page{Values: vals(codes...), NextPage: next}}
}

func TestListRegion_LoadThenLoadMore(t *testing.T) {
	l := newListRegion(domain.RegionA, nil)

	req := l.load()
	assert.Equal(t, domain.FetchLoad, req.mode)
	assert.Equal(t, 0, req.page)

	require.True(t, l.apply(done(req, domain.PageIndex(1), "one", "two", "three")))
	st := l.state()
	assert.Equal(t, domain.ListReady, st.Status)
	assert.Equal(t, vals("one", "two", "three"), st.Items)
	assert.Equal(t, 1, *st.NextPage)

	more, ok := l.loadMore()
	require.True(t, ok)
	assert.Equal(t, 1, more.page)
	assert.Equal(t, domain.ListLoadingMore, l.status)
	assert.Equal(t, 1, *l.nextPage, "cursor must not move when the fetch starts")

	require.True(t, l.apply(done(more, nil, "four")))
	st = l.state()
	assert.Equal(t, vals("one", "two", "three", "four"), st.Items)
	assert.Nil(t, st.NextPage)
	assert.False(t, st.HasNextPage())
}

func TestListRegion_LoadMoreWithoutCursorIsNoop(t *testing.T) {
	l := newListRegion(domain.RegionA, nil)
	require.True(t, l.apply(done(l.load(), nil, "one", "two", "three")))

	before := l.state()
	gen := l.gen

	_, ok := l.loadMore()
	assert.False(t, ok)
	assert.Equal(t, before, l.state())
	assert.Equal(t, gen, l.gen)
}

func TestListRegion_LoadMoreOnlyFromReady(t *testing.T) {
	l := newListRegion(domain.RegionA, nil)
	first := l.load()
	require.True(t, l.apply(done(first, domain.PageIndex(1), "one")))

	_, ok := l.loadMore()
	require.True(t, ok)

	// A second LoadMore while the first is in flight is rejected.
	_, ok = l.loadMore()
	assert.False(t, ok)
}

func TestListRegion_StaleLoadMoreAfterSearch(t *testing.T) {
	l := newListRegion(domain.RegionA, nil)
	require.True(t, l.apply(done(l.load(), domain.PageIndex(1), "one", "two", "three")))

	more, ok := l.loadMore()
	require.True(t, ok)

	search := l.search("x")
	assert.Equal(t, "x", search.term)
	assert.Empty(t, l.state().Items, "a new term discards the old items")

	require.True(t, l.apply(done(search, nil, "x1")))
	before := l.state()

	assert.False(t, l.apply(done(more, domain.PageIndex(2), "four", "five", "six")), "old completion must be discarded")
	assert.Equal(t, before, l.state())
	assert.Equal(t, vals("x1"), l.state().Items)
}

func TestListRegion_FailureKeepsStatus(t *testing.T) {
	l := newListRegion(domain.RegionB, nil)
	req := l.load()

	require.True(t, l.apply(fetchDone{req: req, err: errors.New("connection refused")}))
	st := l.state()
	assert.Equal(t, domain.ListLoading, st.Status)
	assert.Equal(t, "connection refused", st.Fault)

	// Re-sending the search re-triggers the fetch.
	retry := l.search("")
	assert.Empty(t, l.fault)
	require.True(t, l.apply(done(retry, nil, "ok")))
	assert.Equal(t, domain.ListReady, l.status)
}

func TestListRegion_LoadMoreFailureCanBeRetried(t *testing.T) {
	l := newListRegion(domain.RegionA, nil)
	require.True(t, l.apply(done(l.load(), domain.PageIndex(1), "one")))

	more, ok := l.loadMore()
	require.True(t, ok)
	require.True(t, l.apply(fetchDone{req: more, err: errors.New("timeout")}))
	assert.Equal(t, domain.ListLoadingMore, l.status)
	assert.Equal(t, 1, *l.nextPage)

	again, ok := l.loadMore()
	require.True(t, ok)
	assert.Equal(t, 1, again.page)
	assert.Greater(t, again.gen, more.gen)

	require.True(t, l.apply(done(again, nil, "two")))
	assert.Equal(t, vals("one", "two"), l.state().Items)
}

// For any sequence of searches whose completions arrive in any order, the
// region ends up holding exactly the last term's page zero.
func TestListRegion_SearchSequencesKeepLastTerm(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		l := newListRegion(domain.RegionA, nil)
		pending := []fetchRequest{l.load()}

		n := 1 + rng.Intn(6)
		for i := 0; i < n; i++ {
			pending = append(pending, l.search(fmt.Sprintf("term-%d", i)))
		}
		last := pending[len(pending)-1]

		rng.Shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })
		for _, req := range pending {
			l.apply(done(req, nil, req.term+"-result"))
		}

		st := l.state()
		require.Equal(t, domain.ListReady, st.Status, "round %d", round)
		require.Equal(t, vals(last.term+"-result"), st.Items, "round %d", round)
		require.Equal(t, last.term, st.SearchTerm, "round %d", round)
	}
}

func TestListRegion_StateIsACopy(t *testing.T) {
	l := newListRegion(domain.RegionA, nil)
	require.True(t, l.apply(done(l.load(), domain.PageIndex(1), "one")))

	st := l.state()
	st.Items[0].Code = "mutated"
	*st.NextPage = 9

	assert.Equal(t, "one", l.items[0].Code)
	assert.Equal(t, 1, *l.nextPage)
}
