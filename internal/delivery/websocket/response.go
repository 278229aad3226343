package websocket

// EventEnvelope is the wire framing of every realtime event.
type EventEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
