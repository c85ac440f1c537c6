// Package store persists match records and their timelines. The live engine
// only needs a narrow contract: a fetch-latest read, a partial online_state
// update, event inserts, the ordered timeline, and a combined commit that
// keeps the state update and its synthesized event in one atomic unit.
package store

import (
	"context"

	"github.com/litovel-minicup/matchlive/internal/domain"
)

// Store is the persistence contract for the live match engine. Reads must be
// strongly consistent with prior writes so the re-read-before-validate step
// in the state machine observes committed state.
type Store interface {
	// GetMatch fetches the latest persisted record for a match.
	GetMatch(ctx context.Context, id int64) (domain.Match, error)

	// GetMatchDetail fetches a match hydrated with its team and category
	// records for serialization.
	GetMatchDetail(ctx context.Context, id int64) (domain.MatchDetail, error)

	// ListMatchDetails returns all matches hydrated for serialization.
	ListMatchDetails(ctx context.Context) ([]domain.MatchDetail, error)

	// UpdateOnlineState persists only the online_state field of a match.
	UpdateOnlineState(ctx context.Context, id int64, state domain.MatchState) error

	// InsertEvent appends an event to a match timeline and fills in its
	// assigned identity.
	InsertEvent(ctx context.Context, ev *domain.MatchEvent) error

	// ListEvents returns the timeline for a match ordered by
	// (half_index, time_offset), insertion order as tie-break, with players
	// hydrated.
	ListEvents(ctx context.Context, matchID int64) ([]domain.TimelineEvent, error)

	// GetPlayer fetches a roster record for event serialization.
	GetPlayer(ctx context.Context, id int64) (domain.Player, error)

	// CommitTransition atomically advances a match from the observed raw
	// state prev to next and appends the synthesized event. When the stored
	// state no longer equals prev (a concurrent writer advanced it first)
	// the commit fails with domain.ErrIllegalTransition and nothing is
	// written. A committed start event also stamps the matching half-start
	// timestamp when still unset.
	CommitTransition(ctx context.Context, matchID int64, prev, next domain.MatchState, ev *domain.MatchEvent) error

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
