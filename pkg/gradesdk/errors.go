package gradesdk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusError is returned when the server answers with an unexpected status.
// Health holds the decoded body when the server sent one, which /readyz does
// on 503.
type StatusError struct {
	StatusCode int
	Body       string
	Health     *HealthResponse
}

func (e *StatusError) Error() string {
	if e.Health != nil && e.Health.Checks != nil {
		return fmt.Sprintf("unexpected status %d: %s (database: %s)", e.StatusCode, e.Health.Status, e.Health.Checks.Database)
	}
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

func parseErrorResponse(statusCode int, body []byte) error {
	se := &StatusError{StatusCode: statusCode, Body: strings.TrimSpace(string(body))}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err == nil && health.Status != "" {
		se.Health = &health
	}
	return se
}
