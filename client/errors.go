package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// errorBody covers both {"error": "msg"} and {"error": {"code", "message"}}.
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Error) > 0 {
		var msg string
		if err := json.Unmarshal(eb.Error, &msg); err == nil {
			apiErr.Message = msg
		} else {
			var env errorEnvelope
			if err := json.Unmarshal(eb.Error, &env); err == nil {
				apiErr.Message = env.Message
			}
		}
	}

	if strings.TrimSpace(apiErr.Message) == "" {
		apiErr.Message = strings.ToLower(http.StatusText(status))
	}
	return apiErr
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// Message returns the API-provided message of err, or fallback when err
// did not come from the API.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != strings.ToLower(http.StatusText(apiErr.StatusCode)) {
		return apiErr.Message
	}
	return fallback
}
