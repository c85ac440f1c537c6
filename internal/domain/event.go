package domain

import "sort"

// EventType tags timeline entries. Start and end events are synthesized by
// the state machine; goal and info events come from the external
// score-reporting flow.
type EventType string

const (
	EventStart EventType = "start"
	EventGoal  EventType = "goal"
	EventEnd   EventType = "end"
	EventInfo  EventType = "info"
)

const (
	HalfIndexFirst  = 0
	HalfIndexSecond = 1
)

// MatchEvent is one immutable entry on a match timeline.
type MatchEvent struct {
	ID         int64
	MatchID    int64
	ScoreHome  *int
	ScoreAway  *int
	Message    *string
	Type       EventType
	HalfIndex  int
	TimeOffset int // seconds from the start of the half
	PlayerID   *int64
	TeamID     *int64
}

// Score returns the score snapshot with absent sides defaulted to 0.
func (e MatchEvent) Score() (home, away int) {
	if e.ScoreHome != nil {
		home = *e.ScoreHome
	}
	if e.ScoreAway != nil {
		away = *e.ScoreAway
	}
	return home, away
}

// TimelineEvent pairs an event with its hydrated player, when one is set.
type TimelineEvent struct {
	Event  MatchEvent
	Player *Player
}

// OrderTimeline sorts events by (half_index, time_offset) ascending, keeping
// insertion order between equal entries.
func OrderTimeline(events []TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].Event, events[j].Event
		if a.HalfIndex != b.HalfIndex {
			return a.HalfIndex < b.HalfIndex
		}
		return a.TimeOffset < b.TimeOffset
	})
}

// SynthesizeEvent derives the single timeline event recorded for an accepted
// transition out of prev. A prev that matches none of the four known
// predecessors means the transition table and this derivation disagree; that
// returns an InconsistencyError rather than a silently wrong event.
func SynthesizeEvent(matchID int64, prev MatchState, halfLength int) (MatchEvent, error) {
	ev := MatchEvent{MatchID: matchID}
	switch prev {
	case "", StateInit:
		ev.Type = EventStart
		ev.HalfIndex = HalfIndexFirst
		ev.TimeOffset = 0
	case StateHalfFirst:
		ev.Type = EventEnd
		ev.HalfIndex = HalfIndexFirst
		ev.TimeOffset = halfLength
	case StateHalfPause:
		ev.Type = EventStart
		ev.HalfIndex = HalfIndexSecond
		ev.TimeOffset = 0
	case StateHalfSecond:
		ev.Type = EventEnd
		ev.HalfIndex = HalfIndexSecond
		ev.TimeOffset = halfLength
	default:
		return MatchEvent{}, &InconsistencyError{From: prev}
	}
	return ev, nil
}
