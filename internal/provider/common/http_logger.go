package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johanforsgren/mediavault/internal/logger"
)

const maxLoggedBody = 4096

// LoggingTransport logs every round trip. Full headers and bodies are only
// dumped when debug logging is enabled.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if logger.IsDebug() {
		logger.Debug("%s", dumpRequest(req))
	}

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		logger.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, req.URL.Redacted()), err)
		return nil, err
	}

	logger.LogHTTP(req.Method, req.URL.Redacted(), resp.StatusCode, duration)
	if logger.IsDebug() {
		logger.Debug("%s", dumpResponse(resp))
	}

	return resp, nil
}

func dumpRequest(req *http.Request) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "=== HTTP REQUEST ===\n%s %s %s\n", req.Method, req.URL.Redacted(), req.Proto)
	writeHeaders(&buf, req.Header)
	return buf.String()
}

func dumpResponse(resp *http.Response) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "=== HTTP RESPONSE ===\n%s\n", resp.Status)
	writeHeaders(&buf, resp.Header)

	if resp.Body == nil || resp.ContentLength == 0 {
		return buf.String()
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return buf.String()
	}
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	if len(bodyBytes) <= maxLoggedBody {
		fmt.Fprintf(&buf, "Body (%d bytes):\n%s\n", len(bodyBytes), bodyBytes)
	} else {
		fmt.Fprintf(&buf, "Body: (%d bytes, too large to log)\n", len(bodyBytes))
	}
	return buf.String()
}

func writeHeaders(buf *bytes.Buffer, header http.Header) {
	buf.WriteString("Headers:\n")
	for name, values := range header {
		if isSensitiveHeader(name) {
			fmt.Fprintf(buf, "  %s: [REDACTED]\n", name)
			continue
		}
		for _, value := range values {
			fmt.Fprintf(buf, "  %s: %s\n", name, value)
		}
	}
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "x-api-key", "api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}
