package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/litovel-minicup/matchlive/internal/domain"
)

// MemoryStore keeps matches, reference records and timelines in memory behind
// a single RWMutex. It backs tests and DB-less development runs; per-match
// commit atomicity follows from holding the write lock across the whole
// transition.
type MemoryStore struct {
	mu         sync.RWMutex
	matches    map[int64]domain.Match
	teams      map[int64]domain.TeamInfo
	players    map[int64]domain.Player
	categories map[int64]domain.Category
	events     []domain.MatchEvent
	nextEvent  int64
	now        func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches:    make(map[int64]domain.Match),
		teams:      make(map[int64]domain.TeamInfo),
		players:    make(map[int64]domain.Player),
		categories: make(map[int64]domain.Category),
		nextEvent:  1,
		now:        time.Now,
	}
}

// PutMatch stores or replaces a match record. Seeding hook for the external
// scheduling workflow.
func (s *MemoryStore) PutMatch(m domain.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = m
}

// PutTeamInfo stores or replaces a team record.
func (s *MemoryStore) PutTeamInfo(t domain.TeamInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
}

// PutPlayer stores or replaces a player record.
func (s *MemoryStore) PutPlayer(p domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

// PutCategory stores or replaces a category record.
func (s *MemoryStore) PutCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// GetMatch fetches the latest record for a match.
func (s *MemoryStore) GetMatch(ctx context.Context, id int64) (domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return domain.Match{}, fmt.Errorf("match %d: %w", id, domain.ErrMatchNotFound)
	}
	return m, nil
}

// GetMatchDetail fetches a match hydrated with reference records.
func (s *MemoryStore) GetMatchDetail(ctx context.Context, id int64) (domain.MatchDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[id]
	if !ok {
		return domain.MatchDetail{}, fmt.Errorf("match %d: %w", id, domain.ErrMatchNotFound)
	}
	return s.detailLocked(m), nil
}

// ListMatchDetails returns all matches hydrated for serialization.
func (s *MemoryStore) ListMatchDetails(ctx context.Context) ([]domain.MatchDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MatchDetail, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, s.detailLocked(m))
	}
	return out, nil
}

// UpdateOnlineState persists only the online_state field.
func (s *MemoryStore) UpdateOnlineState(ctx context.Context, id int64, state domain.MatchState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[id]
	if !ok {
		return fmt.Errorf("match %d: %w", id, domain.ErrMatchNotFound)
	}
	m.OnlineState = state
	s.matches[id] = m
	return nil
}

// InsertEvent appends an event and assigns its identity.
func (s *MemoryStore) InsertEvent(ctx context.Context, ev *domain.MatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[ev.MatchID]; !ok {
		return fmt.Errorf("match %d: %w", ev.MatchID, domain.ErrMatchNotFound)
	}
	s.insertEventLocked(ev)
	return nil
}

// ListEvents returns the ordered timeline for a match.
func (s *MemoryStore) ListEvents(ctx context.Context, matchID int64) ([]domain.TimelineEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TimelineEvent, 0)
	for _, ev := range s.events {
		if ev.MatchID != matchID {
			continue
		}
		te := domain.TimelineEvent{Event: ev}
		if ev.PlayerID != nil {
			if p, ok := s.players[*ev.PlayerID]; ok {
				player := p
				te.Player = &player
			}
		}
		out = append(out, te)
	}
	domain.OrderTimeline(out)
	return out, nil
}

// GetPlayer fetches a roster record.
func (s *MemoryStore) GetPlayer(ctx context.Context, id int64) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return domain.Player{}, fmt.Errorf("player %d: %w", id, domain.ErrPlayerNotFound)
	}
	return p, nil
}

// CommitTransition advances the match and appends the event under one lock
// hold. The guard re-checks the raw stored state against prev so only the
// first of two racing writers succeeds.
func (s *MemoryStore) CommitTransition(ctx context.Context, matchID int64, prev, next domain.MatchState, ev *domain.MatchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[matchID]
	if !ok {
		return fmt.Errorf("match %d: %w", matchID, domain.ErrMatchNotFound)
	}
	if m.OnlineState != prev {
		return fmt.Errorf("match %d advanced concurrently: %w", matchID, domain.ErrIllegalTransition)
	}

	m.OnlineState = next
	if ev.Type == domain.EventStart {
		now := s.now()
		switch {
		case ev.HalfIndex == domain.HalfIndexFirst && m.FirstHalfStart == nil:
			m.FirstHalfStart = &now
		case ev.HalfIndex == domain.HalfIndexSecond && m.SecondHalfStart == nil:
			m.SecondHalfStart = &now
		}
	}
	s.matches[matchID] = m
	s.insertEventLocked(ev)
	return nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) detailLocked(m domain.Match) domain.MatchDetail {
	return domain.MatchDetail{
		Match:    m,
		HomeTeam: s.teams[m.HomeTeamID],
		AwayTeam: s.teams[m.AwayTeamID],
		Category: s.categories[m.CategoryID],
	}
}

func (s *MemoryStore) insertEventLocked(ev *domain.MatchEvent) {
	ev.ID = s.nextEvent
	s.nextEvent++
	s.events = append(s.events, *ev)
}
