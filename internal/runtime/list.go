package runtime

import (
	"slices"
	"time"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
)

// fetchRequest describes a page fetch started by a list region.
type fetchRequest struct {
	region domain.Region
	mode   domain.FetchMode
	term   string
	page   int
	gen    uint64
}

// fetchDone is posted back to the loop when a fetch completes.
type fetchDone struct {
	req      fetchRequest
	page     domain.Page
	err      error
	duration time.Duration
}

func (fetchDone) Kind() domain.EventKind { return "fetch_done" }

// listRegion owns the loading, pagination and search state of one list.
// It never touches the other list or the selection.
type listRegion struct {
	id     domain.Region
	source ports.PageSource

	status   domain.ListStatus
	items    []domain.Value
	nextPage *int
	term     string
	fault    string

	// gen identifies the most recently started fetch. Completions carrying
	// any other generation are stale and dropped.
	gen uint64
}

func newListRegion(id domain.Region, source ports.PageSource) *listRegion {
	return &listRegion{id: id, source: source, status: domain.ListLoading}
}

// load enters loading and returns the page-zero fetch to start.
// Items and cursor of the previous term are discarded immediately.
func (l *listRegion) load() fetchRequest {
	l.status = domain.ListLoading
	l.items = nil
	l.nextPage = nil
	l.fault = ""
	l.gen++
	return fetchRequest{region: l.id, mode: domain.FetchLoad, term: l.term, page: 0, gen: l.gen}
}

// search sets the term and reloads from page zero. It is accepted in every
// status: a search supersedes whatever fetch is in flight.
func (l *listRegion) search(term string) fetchRequest {
	l.term = term
	return l.load()
}

// loadMore enters loadingMore when a next page exists. It is also accepted
// from a faulted loadingMore, which re-issues the failed fetch.
func (l *listRegion) loadMore() (fetchRequest, bool) {
	if l.nextPage == nil {
		return fetchRequest{}, false
	}
	switch {
	case l.status == domain.ListReady:
	case l.status == domain.ListLoadingMore && l.fault != "":
	default:
		return fetchRequest{}, false
	}

	l.status = domain.ListLoadingMore
	l.fault = ""
	l.gen++
	return fetchRequest{region: l.id, mode: domain.FetchLoadMore, term: l.term, page: *l.nextPage, gen: l.gen}, true
}

// apply folds a completed fetch into the region.
// It returns false when the result is stale and was discarded.
func (l *listRegion) apply(res fetchDone) bool {
	if res.req.gen != l.gen {
		return false
	}

	if res.err != nil {
		// Stay in the originating status until the consumer re-sends the event.
		l.fault = res.err.Error()
		return true
	}

	switch res.req.mode {
	case domain.FetchLoad:
		l.items = slices.Clone(res.page.Values)
	case domain.FetchLoadMore:
		l.items = append(slices.Clip(l.items), res.page.Values...)
	}

	// The cursor only moves on success.
	l.nextPage = nil
	if res.page.NextPage != nil {
		l.nextPage = domain.PageIndex(*res.page.NextPage)
	}
	l.status = domain.ListReady
	l.fault = ""
	return true
}

func (l *listRegion) state() domain.ListState {
	st := domain.ListState{
		Status:     l.status,
		Items:      slices.Clone(l.items),
		SearchTerm: l.term,
		Fault:      l.fault,
	}
	if st.Items == nil {
		st.Items = []domain.Value{}
	}
	if l.nextPage != nil {
		st.NextPage = domain.PageIndex(*l.nextPage)
	}
	return st
}
