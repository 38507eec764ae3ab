package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider returned %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("provider returned %d", e.StatusCode)
}

// Unwrap lets callers match any provider failure with errors.Is(err, ErrFetchFailed).
func (e *APIError) Unwrap() error {
	return ErrFetchFailed
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

const maxMessageRunes = 200

// ParseAPIError builds an APIError from a Google-style error body:
// {"error":{"code":401,"message":"...","status":"UNAUTHENTICATED"}}
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Error.Message
		apiErr.Status = payload.Error.Status
	}
	if apiErr.Status == "" {
		apiErr.Status = http.StatusText(statusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		if runes := []rune(apiErr.Message); len(runes) > maxMessageRunes {
			apiErr.Message = string(runes[:maxMessageRunes])
		}
	}
	return apiErr
}

// ExtractErrorMessage returns a short message suitable for the status bar.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsUnauthorized() {
			return "Authorization rejected by provider, reconnect to continue"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	}

	if errors.Is(err, ErrNoCredential) {
		return "Not connected: press c to connect"
	}

	return err.Error()
}
