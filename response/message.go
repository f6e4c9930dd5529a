// Package response contains the response types the handlers encode to clients.
package response

// A struct type that represents a message with a status and body.
// Message has the following properties:
// - Status: The status of the message.
// - Body: The body of the message.
type Message struct {
	Status string `json:"status"`
	Body   string `json:"body"`
}

// Response represents an acknowledgment message, such as the one
// returned after a successful delete.
type Response struct {
	Message string `json:"message"`
}

// ErrorResponse represents a client-visible error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health represents the health check payload.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
