package runtime

import (
	"time"

	"github.com/aretw0/tandem/pkg/domain"
)

// combineRequest describes a combination started by the selection region.
type combineRequest struct {
	first  string
	second string
	gen    uint64
}

// combineDone is posted back to the loop when a combination completes.
type combineDone struct {
	req      combineRequest
	message  string
	err      error
	duration time.Duration
}

func (combineDone) Kind() domain.EventKind { return "combine_done" }

// selectionRegion sequences the first and second pick and owns the single
// in-flight combination.
type selectionRegion struct {
	status domain.SelectionStatus
	first  string
	second string
	fault  string
	gen    uint64
}

func newSelectionRegion() *selectionRegion {
	return &selectionRegion{status: domain.SelectionInit}
}

// enter moves to next, running the entry actions of transient states until a
// stable state is reached. code is the pick carried by the triggering event.
// A combination request is returned when the stable state is combining.
func (s *selectionRegion) enter(next domain.SelectionStatus, code string) *combineRequest {
	for {
		switch next {
		case domain.SelectionAwaitingFirst:
			s.first, s.second, s.fault = code, "", ""
			next = domain.SelectionFirstCommitted
		case domain.SelectionAwaitingSecond:
			s.second, s.fault = code, ""
			next = domain.SelectionCombining
		case domain.SelectionCombining:
			s.status = next
			s.fault = ""
			s.gen++
			return &combineRequest{first: s.first, second: s.second, gen: s.gen}
		default:
			s.status = next
			return nil
		}
	}
}

func (s *selectionRegion) pickFirst(code string) bool {
	if code == "" {
		return false
	}
	switch s.status {
	case domain.SelectionInit, domain.SelectionFirstCommitted:
		s.enter(domain.SelectionAwaitingFirst, code)
		return true
	}
	return false
}

func (s *selectionRegion) pickSecond(code string) *combineRequest {
	if code == "" || s.status != domain.SelectionFirstCommitted {
		return nil
	}
	return s.enter(domain.SelectionAwaitingSecond, code)
}

// retry re-runs a failed combination with the retained picks.
func (s *selectionRegion) retry() *combineRequest {
	if s.status != domain.SelectionFirstCommitted || s.second == "" {
		return nil
	}
	return s.enter(domain.SelectionCombining, "")
}

func (s *selectionRegion) cancel() bool {
	if s.status != domain.SelectionFirstCommitted {
		return false
	}
	s.first, s.second, s.fault = "", "", ""
	s.enter(domain.SelectionInit, "")
	return true
}

// apply folds a completed combination into the region.
// It returns false when the result does not belong to the current combination.
func (s *selectionRegion) apply(res combineDone) bool {
	if s.status != domain.SelectionCombining || res.req.gen != s.gen {
		return false
	}

	if res.err != nil {
		// Keep both picks so the consumer can retry or cancel.
		s.fault = res.err.Error()
		s.enter(domain.SelectionFirstCommitted, "")
		return true
	}

	s.first, s.second, s.fault = "", "", ""
	s.enter(domain.SelectionInit, "")
	return true
}

func (s *selectionRegion) state() domain.SelectionState {
	return domain.SelectionState{
		Status:     s.status,
		FirstPick:  s.first,
		SecondPick: s.second,
		Fault:      s.fault,
	}
}
