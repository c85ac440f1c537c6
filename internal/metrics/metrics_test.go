package metrics

import (
	"context"
	"testing"
	"time"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.RecordTransitionAccepted(5 * time.Millisecond)
	r.RecordTransitionAccepted(5 * time.Millisecond)
	r.RecordTransitionRejected(ReasonIllegalTransition, time.Millisecond)
	r.RecordEventAppended("goal")
	r.RecordBroadcast()

	if got := r.TransitionsAccepted(); got != 2 {
		t.Fatalf("expected 2 accepted, got %d", got)
	}
	if got := r.TransitionsRejected(ReasonIllegalTransition); got != 1 {
		t.Fatalf("expected 1 rejection, got %d", got)
	}
	if got := r.TransitionsRejected(ReasonUnknownState); got != 0 {
		t.Fatalf("expected 0 rejections for unknown_state, got %d", got)
	}
	if got := r.EventsAppended("goal"); got != 1 {
		t.Fatalf("expected 1 goal event, got %d", got)
	}
	if got := r.Broadcasts(); got != 1 {
		t.Fatalf("expected 1 broadcast, got %d", got)
	}
}

func TestRecorderNilSafe(t *testing.T) {
	var r *Recorder

	// Must not panic.
	r.RecordTransitionAccepted(0)
	r.RecordTransitionRejected(ReasonConflict, 0)
	r.RecordEventAppended("info")
	r.RecordBroadcast()
	r.RecordHTTPRequest("GET", "/api/matches", 200, 0)

	if r.TransitionsAccepted() != 0 || r.Broadcasts() != 0 {
		t.Fatalf("expected zero counts from nil recorder")
	}
}

func TestSetupDisabledReturnsRecorder(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder")
	}
	if handler != nil {
		t.Fatalf("expected no handler when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestSetupEnabledBuildsPrometheusHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true, ServiceName: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer shutdown(context.Background())

	if rec == nil || handler == nil {
		t.Fatalf("expected recorder and prometheus handler")
	}

	rec.RecordTransitionAccepted(time.Millisecond)
	if got := rec.TransitionsAccepted(); got != 1 {
		t.Fatalf("expected 1 accepted, got %d", got)
	}
}
