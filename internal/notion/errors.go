package notion

import (
	"encoding/json"
	"fmt"
)

// UpstreamError is a non-2xx response from the Notion API. The gateway
// surfaces its status and message instead of relaying the raw body.
type UpstreamError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion api %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("notion api %d: %s", e.StatusCode, e.Message)
}

// newUpstreamError parses the upstream error body, which carries a message
// and an error code on well-formed failures.
func newUpstreamError(status int, body []byte) *UpstreamError {
	parsed := struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{}
	_ = json.Unmarshal(body, &parsed)

	message := parsed.Message
	if message == "" {
		message = "Failed to fetch from Notion API"
	}
	return &UpstreamError{
		StatusCode: status,
		Code:       parsed.Code,
		Message:    message,
	}
}
