package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Google API error with message",
			err:      ParseAPIError(400, []byte(`{"error":{"code":400,"message":"Invalid page size","status":"INVALID_ARGUMENT"}}`)),
			expected: "Invalid page size",
		},
		{
			name:     "Unauthorized",
			err:      ParseAPIError(401, []byte(`{"error":{"code":401,"message":"Request had invalid authentication credentials.","status":"UNAUTHENTICATED"}}`)),
			expected: "Authorization rejected by provider, reconnect to continue",
		},
		{
			name:     "Wrapped API error with plain body",
			err:      fmt.Errorf("list media: %w", ParseAPIError(502, []byte("bad gateway"))),
			expected: "bad gateway",
		},
		{
			name:     "No credential",
			err:      fmt.Errorf("fetch: %w", ErrNoCredential),
			expected: "Not connected: press c to connect",
		},
		{
			name:     "Simple error message",
			err:      errors.New("connection timeout"),
			expected: "connection timeout",
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractErrorMessage(tt.err)
			if result != tt.expected {
				t.Errorf("ExtractErrorMessage() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAPIErrorMatchesFetchFailed(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ParseAPIError(500, nil))
	if !errors.Is(err, ErrFetchFailed) {
		t.Error("expected APIError to match ErrFetchFailed")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected errors.As to find APIError")
	}
	if apiErr.Status != "Internal Server Error" {
		t.Errorf("expected status text fallback, got %q", apiErr.Status)
	}
}

func TestParseAPIErrorTruncatesPlainBodyByRune(t *testing.T) {
	body := []byte(strings.Repeat("é", 150) + strings.Repeat("写", 150))

	apiErr := ParseAPIError(502, body)

	if !utf8.ValidString(apiErr.Message) {
		t.Fatalf("message is not valid UTF-8: %q", apiErr.Message)
	}
	if n := utf8.RuneCountInString(apiErr.Message); n != 200 {
		t.Errorf("expected 200 runes, got %d", n)
	}
	if !strings.HasSuffix(apiErr.Message, strings.Repeat("写", 50)) {
		t.Errorf("unexpected truncation: %q", apiErr.Message)
	}
}

func TestParseAPIErrorGoogleEnvelope(t *testing.T) {
	apiErr := ParseAPIError(403, []byte(`{"error":{"code":403,"message":"Request had insufficient authentication scopes.","status":"PERMISSION_DENIED"}}`))

	if apiErr.Status != "PERMISSION_DENIED" {
		t.Errorf("Status = %q", apiErr.Status)
	}
	if apiErr.Message != "Request had insufficient authentication scopes." {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
