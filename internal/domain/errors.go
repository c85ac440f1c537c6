package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownState rejects a transition request naming none of the five
	// recognized states. Expected operator error, recoverable.
	ErrUnknownState = errors.New("unknown match state")

	// ErrIllegalTransition rejects a request that is not the permitted
	// successor of the effective current state. Expected operator error,
	// recoverable.
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrMatchNotFound reports a missing match record.
	ErrMatchNotFound = errors.New("match not found")

	// ErrPlayerNotFound reports a missing roster record.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrInvalidEvent rejects a malformed externally reported event.
	ErrInvalidEvent = errors.New("invalid match event")
)

// InconsistencyError reports that the transition table and the event
// derivation disagree about a state. It indicates corrupted data or a
// programming error, never a merely illegal request, and must not be
// swallowed.
type InconsistencyError struct {
	From MatchState
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent state tables: no event derivable from %q", e.From)
}
