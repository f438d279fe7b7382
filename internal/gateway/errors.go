package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError carries a non-2xx backend response as-is. Message is the payload's
// "message" field when the backend sent one, otherwise empty.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: body}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend responded %d", e.Status)
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func StatusOf(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return StatusOf(err) == http.StatusConflict
}

func IsValidation(err error) bool {
	return StatusOf(err) == http.StatusBadRequest
}
