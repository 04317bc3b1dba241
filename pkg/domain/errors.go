package domain

import "errors"

// ErrCoordinatorClosed is returned when an event is dispatched to a closed coordinator.
var ErrCoordinatorClosed = errors.New("coordinator closed")

// ErrUnknownRegion is returned when an event names a region other than A or B.
var ErrUnknownRegion = errors.New("unknown region")

// ErrUnknownEvent is returned when an event request cannot be mapped to an Event.
var ErrUnknownEvent = errors.New("unknown event")

// ErrUnknownList is returned by catalog adapters when a list name is not served.
var ErrUnknownList = errors.New("unknown list")

// ErrInvalidPage is returned by sources for negative page indexes.
var ErrInvalidPage = errors.New("invalid page index")
