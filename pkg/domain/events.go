package domain

import (
	"context"
	"fmt"
	"time"
)

// EventKind names an event accepted by the coordinator.
type EventKind string

const (
	EventSearch          EventKind = "search"
	EventLoadMore        EventKind = "load_more"
	EventPickFirst       EventKind = "pick_first"
	EventPickSecond      EventKind = "pick_second"
	EventRetryCombine    EventKind = "retry_combine"
	EventCancelSelection EventKind = "cancel_selection"
)

// Event is a discrete input to the coordinator.
type Event interface {
	Kind() EventKind
}

// Search replaces the search term of a region and reloads it from page zero.
type Search struct {
	Region Region
	Term   string
}

// LoadMore fetches the next page of a region.
type LoadMore struct {
	Region Region
}

// PickFirst commits a value from list A.
type PickFirst struct {
	Code string
}

// PickSecond commits a value from list B and starts the combination.
type PickSecond struct {
	Code string
}

// RetryCombine re-runs a failed combination with the retained picks.
type RetryCombine struct{}

// CancelSelection drops both picks and returns the selection to init.
type CancelSelection struct{}

func (Search) Kind() EventKind          { return EventSearch }
func (LoadMore) Kind() EventKind        { return EventLoadMore }
func (PickFirst) Kind() EventKind       { return EventPickFirst }
func (PickSecond) Kind() EventKind      { return EventPickSecond }
func (RetryCombine) Kind() EventKind    { return EventRetryCombine }
func (CancelSelection) Kind() EventKind { return EventCancelSelection }

// EventRequest is the wire representation of an Event (HTTP, MCP, NDJSON).
type EventRequest struct {
	Type   EventKind `json:"type"`
	Region string    `json:"region,omitempty"`
	Term   string    `json:"term,omitempty"`
	Code   string    `json:"code,omitempty"`
}

// Event converts the request into a typed Event.
func (r EventRequest) Event() (Event, error) {
	switch r.Type {
	case EventSearch, EventLoadMore:
		region, err := ParseRegion(r.Region)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q", r.Type, err, r.Region)
		}
		if r.Type == EventSearch {
			return Search{Region: region, Term: r.Term}, nil
		}
		return LoadMore{Region: region}, nil
	case EventPickFirst:
		return PickFirst{Code: r.Code}, nil
	case EventPickSecond:
		return PickSecond{Code: r.Code}, nil
	case EventRetryCombine:
		return RetryCombine{}, nil
	case EventCancelSelection:
		return CancelSelection{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, r.Type)
}

// HookType defines the category of a lifecycle notification.
type HookType string

const (
	HookEvent   HookType = "event"
	HookFetch   HookType = "fetch"
	HookCombine HookType = "combine"
)

// FetchMode tells whether a fetch reloads page zero or appends a page.
type FetchMode string

const (
	FetchLoad     FetchMode = "load"
	FetchLoadMore FetchMode = "load_more"
)

// HookBase contains common fields for all lifecycle notifications.
type HookBase struct {
	Timestamp     time.Time `json:"timestamp"`
	Type          HookType  `json:"type"`
	CoordinatorID string    `json:"coordinator_id"`
}

// DispatchEvent reports an event processed by the coordinator loop.
type DispatchEvent struct {
	HookBase
	Kind EventKind `json:"kind"`

	// Applied is false when the event was ignored (invalid for the current state).
	Applied bool `json:"applied"`
}

// FetchEvent reports the completion of a page fetch.
type FetchEvent struct {
	HookBase
	Region     Region        `json:"region"`
	Mode       FetchMode     `json:"mode"`
	Term       string        `json:"term"`
	Page       int           `json:"page"`
	Generation uint64        `json:"generation"`
	Count      int           `json:"count"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`

	// Stale is true when the result was discarded because a newer fetch superseded it.
	Stale bool `json:"stale"`
}

// Outcome summarizes the fetch result as "ok", "error" or "stale".
func (e *FetchEvent) Outcome() string {
	switch {
	case e.Stale:
		return "stale"
	case e.Err != nil:
		return "error"
	}
	return "ok"
}

// CombineEvent reports the completion of a combination.
type CombineEvent struct {
	HookBase
	First    string        `json:"first"`
	Second   string        `json:"second"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for coordinator observability.
// Hooks run on the coordinator loop and must not block.
type LifecycleHooks struct {
	OnEvent   func(context.Context, *DispatchEvent)
	OnFetch   func(context.Context, *FetchEvent)
	OnCombine func(context.Context, *CombineEvent)
}

// Merge returns hooks calling h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEvent:   chain(h.OnEvent, other.OnEvent),
		OnFetch:   chain(h.OnFetch, other.OnFetch),
		OnCombine: chain(h.OnCombine, other.OnCombine),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, v T) {
		a(ctx, v)
		b(ctx, v)
	}
}
