package tandem

import (
	"context"

	"github.com/aretw0/tandem/pkg/domain"
)

// Condition is a predicate over a published snapshot.
type Condition func(*domain.Snapshot) bool

// ListsReady is satisfied once neither list is fetching.
func ListsReady(s *domain.Snapshot) bool {
	return s.Lists[0].Status == domain.ListReady && s.Lists[1].Status == domain.ListReady
}

// RegionReady is satisfied once the given list is not fetching.
func RegionReady(r domain.Region) Condition {
	return func(s *domain.Snapshot) bool {
		return s.List(r).Status == domain.ListReady
	}
}

// RegionSettled is satisfied once the given list is ready or its last fetch failed.
func RegionSettled(r domain.Region) Condition {
	return func(s *domain.Snapshot) bool {
		l := s.List(r)
		return l.Status == domain.ListReady || l.Fault != ""
	}
}

// HasMessage is satisfied while a combination message is visible.
func HasMessage(s *domain.Snapshot) bool {
	return s.Message != nil
}

// SelectionSettled is satisfied when no combination is in flight.
func SelectionSettled(s *domain.Snapshot) bool {
	return s.Selection.Status != domain.SelectionCombining
}

// WaitFor blocks until a published snapshot satisfies cond and returns it.
func (c *Coordinator) WaitFor(ctx context.Context, cond Condition) (*domain.Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for snap := range c.Watch(ctx) {
		if cond(snap) {
			return snap, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, domain.ErrCoordinatorClosed
}
