package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"
	FieldMatchID    = "match_id"
	FieldState      = "state"
	FieldFromState  = "from_state"
	FieldToState    = "to_state"
	FieldEventType  = "event_type"
	FieldCount      = "count"
)
