// Package snapshot projects matches and timeline events into the flat,
// display-ready payloads consumed by the live scoreboard. Projections are
// pure: missing optional data degrades to null, never to an error.
package snapshot

import (
	"time"

	"github.com/litovel-minicup/matchlive/internal/domain"
)

// Fixed scoreboard display colors for the home and away side.
const (
	HomeColor = "#ff8574"
	AwayColor = "#88dd12"
)

// Match projects a match plus its reference records into the scoreboard
// payload. Caller-supplied extras are merged in and win on key collision.
func Match(d domain.MatchDetail, halfLength int, extra map[string]any) map[string]any {
	out := map[string]any{
		"id":                   d.Match.ID,
		"home_team_name":       d.HomeTeam.Name,
		"home_team_id":         d.HomeTeam.ID,
		"away_team_name":       d.AwayTeam.Name,
		"away_team_id":         d.AwayTeam.ID,
		"home_team_color":      HomeColor,
		"away_team_color":      AwayColor,
		"home_team_color_name": colorName(d.HomeTeam),
		"away_team_color_name": colorName(d.AwayTeam),
		"category_name":        d.Category.Name,
		"first_half_start":     epochSeconds(d.Match.FirstHalfStart),
		"second_half_start":    epochSeconds(d.Match.SecondHalfStart),
		"score":                []any{nullableInt(d.Match.ScoreHome), nullableInt(d.Match.ScoreAway)},
		"confirmed":            epochSeconds(d.Match.Confirmed),
		"half_length":          halfLength,
		"state":                string(d.Match.EffectiveState()),
		"facebook_video_id":    nullableString(d.Match.FacebookVideoID),
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Event projects a timeline event against its owning match's (home, away)
// pair. An event whose team matches neither side yields team_index -1.
func Event(e domain.MatchEvent, player *domain.Player, home, away domain.TeamInfo) map[string]any {
	teamIndex := -1
	if e.TeamID != nil {
		switch *e.TeamID {
		case home.ID:
			teamIndex = 0
		case away.ID:
			teamIndex = 1
		}
	}

	scoreHome, scoreAway := e.Score()

	out := map[string]any{
		"id":            e.ID,
		"time_offset":   e.TimeOffset,
		"half_index":    e.HalfIndex,
		"message":       nullableString(e.Message),
		"score":         []int{scoreHome, scoreAway},
		"type":          string(e.Type),
		"team_index":    teamIndex,
		"player_name":   nil,
		"player_number": nil,
	}
	if player != nil {
		out["player_name"] = player.Name + " " + player.Surname
		out["player_number"] = player.Number
	}
	return out
}

// Timeline projects an ordered event list for a match.
func Timeline(events []domain.TimelineEvent, home, away domain.TeamInfo) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, te := range events {
		out = append(out, Event(te.Event, te.Player, home, away))
	}
	return out
}

func colorName(team domain.TeamInfo) string {
	if team.DressColorSecondary != "" {
		return team.DressColor + " / " + team.DressColorSecondary
	}
	return team.DressColor
}

// epochSeconds serializes timestamps as epoch seconds, fractional allowed.
func epochSeconds(t *time.Time) any {
	if t == nil {
		return nil
	}
	return float64(t.UnixMicro()) / 1e6
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
