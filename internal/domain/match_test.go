package domain

import (
	"testing"
	"time"
)

func TestTransitionsFormLinearChain(t *testing.T) {
	chain := []MatchState{StateInit, StateHalfFirst, StateHalfPause, StateHalfSecond, StateEnd}

	for i, state := range chain {
		next := Transitions[state]
		if state == StateEnd {
			if len(next) != 0 {
				t.Fatalf("expected no successors for %s, got %v", state, next)
			}
			continue
		}
		if len(next) != 1 || next[0] != chain[i+1] {
			t.Fatalf("expected %s -> %s, got %v", state, chain[i+1], next)
		}
	}
}

func TestCanReachOnlyDirectSuccessor(t *testing.T) {
	if !StateInit.CanReach(StateHalfFirst) {
		t.Fatalf("expected init to reach half_first")
	}
	for _, target := range []MatchState{StateInit, StateHalfPause, StateHalfSecond, StateEnd} {
		if StateInit.CanReach(target) {
			t.Fatalf("expected init not to reach %s", target)
		}
	}
	if StateEnd.CanReach(StateInit) || StateEnd.CanReach(StateEnd) {
		t.Fatalf("expected end to be terminal")
	}
}

func TestKnownStates(t *testing.T) {
	for _, s := range []MatchState{StateInit, StateHalfFirst, StateHalfPause, StateHalfSecond, StateEnd} {
		if !s.Known() {
			t.Fatalf("expected %s to be known", s)
		}
	}
	if MatchState("overtime").Known() {
		t.Fatalf("expected overtime to be unknown")
	}
	if MatchState("").Known() {
		t.Fatalf("expected empty state to be unknown")
	}
}

func TestEffectiveStateResolution(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		match Match
		want  MatchState
	}{
		{"unset and unconfirmed", Match{}, StateInit},
		{"unset and confirmed", Match{Confirmed: &now}, StateEnd},
		{"explicit state wins over confirmation", Match{OnlineState: StateHalfPause, Confirmed: &now}, StateHalfPause},
		{"explicit state", Match{OnlineState: StateHalfFirst}, StateHalfFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match.EffectiveState(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
