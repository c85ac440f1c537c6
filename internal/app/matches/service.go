// Package matches hosts the live match engine: the state machine that
// validates and applies transitions, the timeline reads, and the append path
// for externally reported goal/info events.
package matches

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/litovel-minicup/matchlive/internal/domain"
	"github.com/litovel-minicup/matchlive/internal/logging"
	"github.com/litovel-minicup/matchlive/internal/metrics"
	"github.com/litovel-minicup/matchlive/internal/snapshot"
	"github.com/litovel-minicup/matchlive/internal/store"
)

// Observer is notified after an event has been committed to a timeline:
// synthesized transition events and externally reported goal/info entries
// alike. Notification runs on the transition caller's goroutine, so
// implementations must return quickly.
type Observer interface {
	MatchEventCommitted(ctx context.Context, detail domain.MatchDetail, event domain.TimelineEvent)
}

// Service coordinates live match operations against a Store.
type Service struct {
	store      store.Store
	logger     *slog.Logger
	metrics    *metrics.Recorder
	halfLength int
	observers  []Observer
}

// NewService constructs a Service. halfLength is in seconds; zero or negative
// falls back to the default.
func NewService(st store.Store, logger *slog.Logger, recorder *metrics.Recorder, halfLength int, observers ...Observer) *Service {
	if halfLength <= 0 {
		halfLength = domain.DefaultHalfLength
	}
	return &Service{
		store:      st,
		logger:     logger,
		metrics:    recorder,
		halfLength: halfLength,
		observers:  observers,
	}
}

// HalfLength returns the configured half duration in seconds.
func (s *Service) HalfLength() int {
	return s.halfLength
}

// ChangeState drives a match one step along the state chain and returns the
// synthesized timeline event. The match record is re-read before validating,
// so a caller holding a stale copy cannot advance a match a concurrent writer
// already moved; the commit itself re-checks under the store's guard and the
// loser is rejected.
//
// Rejections (ErrUnknownState, ErrIllegalTransition) are expected operator
// errors: nothing is mutated and no event is appended. An
// InconsistencyError means the transition and derivation tables disagree and
// is never masked.
func (s *Service) ChangeState(ctx context.Context, matchID int64, target domain.MatchState) (*domain.MatchEvent, error) {
	start := time.Now()
	logger := logging.FromContext(ctx, s.logger)

	if !target.Known() {
		logging.Warn(logger, "rejected unknown target state",
			slog.Int64(logging.FieldMatchID, matchID),
			slog.String(logging.FieldState, string(target)))
		s.metrics.RecordTransitionRejected(metrics.ReasonUnknownState, time.Since(start))
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownState, target)
	}

	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	current := m.EffectiveState()
	if !current.CanReach(target) {
		logging.Warn(logger, "rejected illegal transition",
			slog.Int64(logging.FieldMatchID, matchID),
			slog.String(logging.FieldFromState, string(current)),
			slog.String(logging.FieldToState, string(target)))
		s.metrics.RecordTransitionRejected(metrics.ReasonIllegalTransition, time.Since(start))
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, current, target)
	}

	ev, err := domain.SynthesizeEvent(matchID, current, s.halfLength)
	if err != nil {
		logging.Error(logger, "state tables are inconsistent", err,
			slog.Int64(logging.FieldMatchID, matchID))
		return nil, err
	}

	if err := s.store.CommitTransition(ctx, matchID, m.OnlineState, target, &ev); err != nil {
		if errors.Is(err, domain.ErrIllegalTransition) {
			logging.Warn(logger, "transition lost to concurrent writer",
				slog.Int64(logging.FieldMatchID, matchID),
				slog.String(logging.FieldToState, string(target)))
			s.metrics.RecordTransitionRejected(metrics.ReasonConflict, time.Since(start))
		}
		return nil, err
	}

	logging.Info(logger, "match state changed",
		slog.Int64(logging.FieldMatchID, matchID),
		slog.String(logging.FieldFromState, string(current)),
		slog.String(logging.FieldToState, string(target)),
		slog.String(logging.FieldEventType, string(ev.Type)))
	s.metrics.RecordTransitionAccepted(time.Since(start))
	s.metrics.RecordEventAppended(string(ev.Type))

	s.notify(ctx, matchID, domain.TimelineEvent{Event: ev})
	return &ev, nil
}

// AddEventParams carries an externally reported goal or info entry.
type AddEventParams struct {
	Type       domain.EventType
	HalfIndex  int
	TimeOffset int
	Message    *string
	ScoreHome  *int
	ScoreAway  *int
	PlayerID   *int64
	TeamID     *int64
}

// AddEvent appends a goal or info entry from the score-reporting flow to a
// match timeline. Start and end events are reserved for the state machine.
func (s *Service) AddEvent(ctx context.Context, matchID int64, params AddEventParams) (*domain.MatchEvent, error) {
	if params.Type != domain.EventGoal && params.Type != domain.EventInfo {
		return nil, fmt.Errorf("%w: type %q is not reportable", domain.ErrInvalidEvent, params.Type)
	}
	if params.HalfIndex != domain.HalfIndexFirst && params.HalfIndex != domain.HalfIndexSecond {
		return nil, fmt.Errorf("%w: half_index %d", domain.ErrInvalidEvent, params.HalfIndex)
	}
	if params.TimeOffset < 0 {
		return nil, fmt.Errorf("%w: negative time_offset %d", domain.ErrInvalidEvent, params.TimeOffset)
	}

	ev := domain.MatchEvent{
		MatchID:    matchID,
		ScoreHome:  params.ScoreHome,
		ScoreAway:  params.ScoreAway,
		Message:    params.Message,
		Type:       params.Type,
		HalfIndex:  params.HalfIndex,
		TimeOffset: params.TimeOffset,
		PlayerID:   params.PlayerID,
		TeamID:     params.TeamID,
	}
	if err := s.store.InsertEvent(ctx, &ev); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx, s.logger)
	logging.Info(logger, "match event reported",
		slog.Int64(logging.FieldMatchID, matchID),
		slog.String(logging.FieldEventType, string(ev.Type)))
	s.metrics.RecordEventAppended(string(ev.Type))

	s.notify(ctx, matchID, s.hydrate(ctx, ev))
	return &ev, nil
}

// Timeline returns the ordered event list for a match.
func (s *Service) Timeline(ctx context.Context, matchID int64) ([]domain.TimelineEvent, error) {
	if _, err := s.store.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, matchID)
}

// Snapshot produces the scoreboard payload for a match with its timeline
// embedded under the events key.
func (s *Service) Snapshot(ctx context.Context, matchID int64) (map[string]any, error) {
	detail, err := s.store.GetMatchDetail(ctx, matchID)
	if err != nil {
		return nil, err
	}
	events, err := s.store.ListEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}
	extra := map[string]any{
		"events": snapshot.Timeline(events, detail.HomeTeam, detail.AwayTeam),
	}
	return snapshot.Match(detail, s.halfLength, extra), nil
}

// ListSnapshots produces scoreboard payloads for every match, without
// timelines.
func (s *Service) ListSnapshots(ctx context.Context) ([]map[string]any, error) {
	details, err := s.store.ListMatchDetails(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(details))
	for _, d := range details {
		out = append(out, snapshot.Match(d, s.halfLength, nil))
	}
	return out, nil
}

// EventSnapshot projects a single event against its owning match.
func (s *Service) EventSnapshot(ctx context.Context, ev domain.MatchEvent) (map[string]any, error) {
	detail, err := s.store.GetMatchDetail(ctx, ev.MatchID)
	if err != nil {
		return nil, err
	}
	te := s.hydrate(ctx, ev)
	return snapshot.Event(te.Event, te.Player, detail.HomeTeam, detail.AwayTeam), nil
}

// Ready reports whether the backing store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) notify(ctx context.Context, matchID int64, te domain.TimelineEvent) {
	if len(s.observers) == 0 {
		return
	}
	detail, err := s.store.GetMatchDetail(ctx, matchID)
	if err != nil {
		logging.Error(logging.FromContext(ctx, s.logger), "skipping observer fan-out", err,
			slog.Int64(logging.FieldMatchID, matchID))
		return
	}
	for _, obs := range s.observers {
		obs.MatchEventCommitted(ctx, detail, te)
	}
}

// hydrate attaches the player record to an event when one is referenced.
// Lookup is best-effort; serialization degrades to null player fields.
func (s *Service) hydrate(ctx context.Context, ev domain.MatchEvent) domain.TimelineEvent {
	te := domain.TimelineEvent{Event: ev}
	if ev.PlayerID == nil {
		return te
	}
	if p, err := s.store.GetPlayer(ctx, *ev.PlayerID); err == nil {
		te.Player = &p
	}
	return te
}
