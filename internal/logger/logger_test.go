package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitWritesToFileAndBuffer(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mediavault.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Close()

	Log("fetched %d media items", 2)
	LogError("FETCH_MEDIA", "mediaItems", errors.New("boom"))
	LogHTTP("GET", "https://example.test/v1/mediaItems", 200, 15*time.Millisecond)
	LogAuth("authorization started")

	logs := GetLogs()
	want := []string{
		"[INFO] fetched 2 media items",
		"[ERROR] FETCH_MEDIA: mediaItems - boom",
		"[HTTP] GET https://example.test/v1/mediaItems -> 200",
		"[AUTH] authorization started",
	}
	for _, w := range want {
		found := false
		for _, entry := range logs {
			if strings.Contains(entry.Message, w) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected buffer to contain %q", w)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "fetched 2 media items") {
		t.Errorf("log file missing info entry, got:\n%s", data)
	}
	if !strings.Contains(string(data), "FETCH_MEDIA") {
		t.Errorf("log file missing error entry, got:\n%s", data)
	}
}

func TestBufferIsBounded(t *testing.T) {
	EnsureInit()
	for i := 0; i < maxBufferSize+50; i++ {
		Log("entry %d", i)
	}

	logs := GetLogs()
	if len(logs) != maxBufferSize {
		t.Fatalf("expected %d entries, got %d", maxBufferSize, len(logs))
	}
	if !strings.HasSuffix(logs[len(logs)-1].Message, "entry 1049") {
		t.Errorf("expected newest entry last, got %q", logs[len(logs)-1].Message)
	}
}

func TestDebugOnlyWhenEnabled(t *testing.T) {
	EnsureInit()
	SetDebug(false)
	Debug("hidden-%s", "entry")
	for _, entry := range GetLogs() {
		if strings.Contains(entry.Message, "hidden-entry") {
			t.Fatal("debug entry logged while debug disabled")
		}
	}

	SetDebug(true)
	defer SetDebug(false)
	Debug("visible-%s", "entry")

	logs := GetLogs()
	if !strings.Contains(logs[len(logs)-1].Message, "[DEBUG] visible-entry") {
		t.Errorf("expected debug entry, got %q", logs[len(logs)-1].Message)
	}
}
