package common

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johanforsgren/mediavault/internal/logger"
)

func TestLoggingTransportRedactsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	logger.SetDebug(true)
	defer logger.SetDebug(false)

	client := &http.Client{Transport: NewLoggingTransport(nil)}
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/v1/mediaItems", nil)
	req.Header.Set("Authorization", "Bearer secret-token")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"ok":true}` {
		t.Errorf("response body not restored, got %q", body)
	}

	sawHTTP := false
	for _, entry := range logger.GetLogs() {
		if strings.Contains(entry.Message, "secret-token") {
			t.Fatalf("bearer token leaked into logs: %q", entry.Message)
		}
		if strings.Contains(entry.Message, "[HTTP] GET") && strings.Contains(entry.Message, "/v1/mediaItems -> 200") {
			sawHTTP = true
		}
	}
	if !sawHTTP {
		t.Error("expected an [HTTP] log line for the request")
	}
}

func TestIsSensitiveHeader(t *testing.T) {
	for _, name := range []string{"Authorization", "authorization", "Cookie", "X-Api-Key"} {
		if !isSensitiveHeader(name) {
			t.Errorf("expected %s to be sensitive", name)
		}
	}
	if isSensitiveHeader("Content-Type") {
		t.Error("Content-Type should not be sensitive")
	}
}
