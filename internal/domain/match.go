package domain

import "time"

// MatchState is the live progress of a match.
type MatchState string

const (
	StateInit       MatchState = "init"
	StateHalfFirst  MatchState = "half_first"
	StateHalfPause  MatchState = "half_pause"
	StateHalfSecond MatchState = "half_second"
	StateEnd        MatchState = "end"
)

// DefaultHalfLength is the configured half duration in seconds. It stamps
// synthesized end events; it does not enforce real-time timing.
const DefaultHalfLength = 600

// Transitions maps each state to its permitted successors. The chain is
// strictly linear today; validation stays data-driven so branching states can
// be added without touching control flow.
var Transitions = map[MatchState][]MatchState{
	StateInit:       {StateHalfFirst},
	StateHalfFirst:  {StateHalfPause},
	StateHalfPause:  {StateHalfSecond},
	StateHalfSecond: {StateEnd},
	StateEnd:        {},
}

// Known reports whether s is one of the five recognized states.
func (s MatchState) Known() bool {
	_, ok := Transitions[s]
	return ok
}

// CanReach reports whether target is a permitted successor of s.
func (s MatchState) CanReach(target MatchState) bool {
	for _, next := range Transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Match is the persisted record for a scheduled match. The live engine only
// ever mutates OnlineState and the two half-start timestamps; everything else
// is written by the external scheduling and confirmation workflows.
type Match struct {
	ID              int64
	CategoryID      int64
	HomeTeamID      int64
	AwayTeamID      int64
	ScoreHome       *int
	ScoreAway       *int
	Confirmed       *time.Time
	ConfirmedAs     *int
	OnlineState     MatchState // empty until the first transition is committed
	FirstHalfStart  *time.Time
	SecondHalfStart *time.Time
	FacebookVideoID *string
}

// EffectiveState resolves the state used for transition validation and
// display. Legacy records carry no online_state; those default to end when
// the result is confirmed and init otherwise, so they can be transitioned
// without a prior explicit initialization.
func (m Match) EffectiveState() MatchState {
	if m.OnlineState != "" {
		return m.OnlineState
	}
	if m.Confirmed != nil {
		return StateEnd
	}
	return StateInit
}

// TeamInfo is the display record for a team: name and dress colors. Read-only
// for the live engine.
type TeamInfo struct {
	ID                  int64
	CategoryID          int64
	Name                string
	Slug                string
	DressColor          string
	DressColorSecondary string
}

// Player is the roster record referenced by goal events.
type Player struct {
	ID      int64
	TeamID  int64
	Name    string
	Surname string
	Number  int
}

// Category groups matches within a tournament year.
type Category struct {
	ID   int64
	Name string
	Slug string
}

// MatchDetail bundles a match with the reference records the snapshot
// serializer needs for display.
type MatchDetail struct {
	Match    Match
	HomeTeam TeamInfo
	AwayTeam TeamInfo
	Category Category
}

// Teams returns the (home, away) pair.
func (d MatchDetail) Teams() (TeamInfo, TeamInfo) {
	return d.HomeTeam, d.AwayTeam
}
