package metrics

import (
	"sync"
	"time"
)

type transitionStats struct {
	accepted int
	rejected map[string]int
}

// Recorder captures lightweight, in-memory metrics about the live engine.
// All methods are nil-safe so call sites never have to guard. When built with
// an OTel backend it forwards every observation there as well.
type Recorder struct {
	mu          sync.Mutex
	transitions transitionStats
	events      map[string]int
	broadcasts  int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		transitions: transitionStats{rejected: make(map[string]int)},
		events:      make(map[string]int),
		otel:        otel,
	}
}

// RecordTransitionAccepted counts a committed state transition.
func (r *Recorder) RecordTransitionAccepted(duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.transitions.accepted++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordTransition(ResultAccepted, "", duration)
	}
}

// RecordTransitionRejected counts a rejected transition attempt by reason.
func (r *Recorder) RecordTransitionRejected(reason string, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.transitions.rejected[reason]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordTransition(ResultRejected, reason, duration)
	}
}

// RecordEventAppended counts a timeline event by type.
func (r *Recorder) RecordEventAppended(eventType string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.events[eventType]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordEvent(eventType)
	}
}

// RecordBroadcast counts one payload fanned out to scoreboard consumers.
func (r *Recorder) RecordBroadcast() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.broadcasts++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordBroadcast()
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// TransitionsAccepted returns the total committed transitions recorded.
func (r *Recorder) TransitionsAccepted() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitions.accepted
}

// TransitionsRejected returns the total rejections recorded for a reason.
func (r *Recorder) TransitionsRejected(reason string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitions.rejected[reason]
}

// EventsAppended returns events recorded for a type.
func (r *Recorder) EventsAppended(eventType string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[eventType]
}

// Broadcasts returns the total broadcasts recorded.
func (r *Recorder) Broadcasts() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.broadcasts
}
