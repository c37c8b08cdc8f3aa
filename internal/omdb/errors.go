package omdb

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	defaultErrorMessage = "An unexpected error occurred"
	defaultErrorCode    = "UNKNOWN_ERROR"
)

// APIError is a normalised failure reported by the catalogue
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("omdb: %s (%s, status %d)", e.Message, e.Code, e.Status)
}

// Temporary reports whether retrying the request may succeed
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"Error"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: defaultErrorMessage, Code: defaultErrorCode}

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil {
		switch {
		case env.Message != "":
			apiErr.Message = env.Message
		case env.Error != "":
			apiErr.Message = env.Error
		}
		if env.Code != "" {
			apiErr.Code = env.Code
		}
	}
	return apiErr
}
