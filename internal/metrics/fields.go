package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod = "method"
	AttrPath   = "path"
	AttrStatus = "status"
	AttrResult = "result"
	AttrReason = "reason"
	AttrType   = "type"
)

// Transition results recorded by the state machine.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// Rejection reasons.
const (
	ReasonUnknownState      = "unknown_state"
	ReasonIllegalTransition = "illegal_transition"
	ReasonConflict          = "conflict"
)
