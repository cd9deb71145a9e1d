package models

// APIError is the error payload inside every non-2xx response.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Event is pushed to connected clients over the websocket hub.
type Event struct {
	Type    string      `json:"type"` // "generation_complete" | "course_created"
	Payload interface{} `json:"payload,omitempty"`
}
