package domain

import (
	"slices"
	"time"
)

// Region identifies one of the two list regions.
type Region string

const (
	RegionA Region = "a" // First list (articles in the demo catalog)
	RegionB Region = "b" // Second list (categories in the demo catalog)
)

// Regions lists the list regions in display order.
var Regions = [...]Region{RegionA, RegionB}

// ParseRegion maps user input ("a", "B", "1", "2") to a Region.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "a", "A", "1", "first":
		return RegionA, nil
	case "b", "B", "2", "second":
		return RegionB, nil
	}
	return "", ErrUnknownRegion
}

// Index returns the position of the region in Regions, or -1.
func (r Region) Index() int {
	switch r {
	case RegionA:
		return 0
	case RegionB:
		return 1
	}
	return -1
}

// ListStatus defines the current mode of a list region.
type ListStatus string

const (
	ListLoading     ListStatus = "loading"      // Fetching page zero for the current search term
	ListLoadingMore ListStatus = "loading_more" // Fetching the next page
	ListReady       ListStatus = "ready"        // Idle, accepting LoadMore
)

// SelectionStatus defines the current mode of the selection region.
type SelectionStatus string

const (
	SelectionInit           SelectionStatus = "init"
	SelectionFirstCommitted SelectionStatus = "first_committed"
	SelectionCombining      SelectionStatus = "combining"

	// Transient states. They run their entry action and advance within the
	// same step, so they never appear in a published Snapshot.
	SelectionAwaitingFirst  SelectionStatus = "awaiting_first_commit"
	SelectionAwaitingSecond SelectionStatus = "awaiting_second_commit"
)

// ListState is the published state of one list region.
type ListState struct {
	Status ListStatus `json:"status"`

	// Items is the concatenation of every page fetched since the last search.
	Items []Value `json:"items"`

	// NextPage is the cursor of the next page, nil when the source is exhausted.
	NextPage *int `json:"nextPage,omitempty"`

	SearchTerm string `json:"searchTerm"`

	// Fault holds the last fetch error while the region is stuck loading.
	Fault string `json:"fault,omitempty"`
}

// Loading reports whether page zero is being fetched.
func (l ListState) Loading() bool { return l.Status == ListLoading }

// LoadingMore reports whether a further page is being fetched.
func (l ListState) LoadingMore() bool { return l.Status == ListLoadingMore }

// HasNextPage reports whether LoadMore would fetch anything.
func (l ListState) HasNextPage() bool { return l.NextPage != nil }

// Clone returns a deep copy.
func (l ListState) Clone() ListState {
	out := l
	out.Items = slices.Clone(l.Items)
	if l.NextPage != nil {
		out.NextPage = PageIndex(*l.NextPage)
	}
	return out
}

// SelectionState is the published state of the selection region.
// An empty pick means no value is held.
type SelectionState struct {
	Status     SelectionStatus `json:"status"`
	FirstPick  string          `json:"firstPick,omitempty"`
	SecondPick string          `json:"secondPick,omitempty"`

	// Fault holds the last combination error. Both picks are retained.
	Fault string `json:"fault,omitempty"`
}

// Message is the transient result of the last combination.
type Message struct {
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Snapshot represents the atomic view of the coordinator after an event.
// Consumers must treat it as immutable; every step publishes a new one.
type Snapshot struct {
	// ID identifies the coordinator instance that published the snapshot.
	ID string `json:"id"`

	// Version increases by one for every published snapshot.
	Version uint64 `json:"version"`

	Lists     [2]ListState   `json:"lists"`
	Selection SelectionState `json:"selection"`
	Message   *Message       `json:"message,omitempty"`

	// SecondSelectable is derived from the selection region: items of list B
	// may only be picked while a first value is committed.
	SecondSelectable bool `json:"secondSelectable"`
}

// List returns the state of the given region.
func (s *Snapshot) List(r Region) ListState {
	i := r.Index()
	if i < 0 {
		return ListState{}
	}
	return s.Lists[i]
}

// Selectable reports whether items of the given region accept picks.
func (s *Snapshot) Selectable(r Region) bool {
	switch r {
	case RegionA:
		return s.Selection.Status != SelectionCombining
	case RegionB:
		return s.SecondSelectable
	}
	return false
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	for i := range s.Lists {
		out.Lists[i] = s.Lists[i].Clone()
	}
	if s.Message != nil {
		msg := *s.Message
		out.Message = &msg
	}
	return &out
}
