package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Realtime
	FieldClientID = "client_id"
	FieldPartyID  = "party_id"
	FieldUserKey  = "user_key"
	FieldEvent    = "event"

	// Service
	FieldService = "service"
)
