package graphql

import (
	"fmt"
	"strings"
)

// APIError is a transport or protocol fault reported by the Nebulon ON API:
// a non-2xx HTTP status, or a response carrying a top-level errors list. It
// is immutable once constructed and is never retried automatically.
type APIError struct {
	// StatusCode is the HTTP status of the response; zero when unknown.
	StatusCode int
	// Messages holds the server-reported error messages, if any.
	Messages []string
	// Request is the operation string that was sent to the server.
	Request string
}

func (e *APIError) Error() string {
	var sb strings.Builder
	sb.WriteString("graphql: request failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", e.StatusCode)
	}
	if len(e.Messages) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Request != "" {
		fmt.Fprintf(&sb, " [request: %s]", e.Request)
	}
	return sb.String()
}
