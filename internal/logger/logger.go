package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const maxBufferSize = 1000

var (
	instance *Logger
	once     sync.Once
	initMu   sync.Mutex
)

type LogEntry struct {
	Timestamp time.Time
	Message   string
}

type Logger struct {
	file    *os.File
	sink    *slog.Logger
	level   *slog.LevelVar
	mu      sync.Mutex
	buffer  []LogEntry
	enabled bool
}

func Init(logPath string) error {
	var initErr error
	once.Do(func() {
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		level := new(slog.LevelVar)
		level.Set(slog.LevelInfo)

		initMu.Lock()
		defer initMu.Unlock()
		instance = &Logger{
			file:    file,
			sink:    slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})),
			level:   level,
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: true,
		}
	})

	if instance == nil && initErr == nil {
		EnsureInit()
	}

	return initErr
}

// EnsureInit installs a buffer-only logger when Init was never called or failed.
func EnsureInit() {
	initMu.Lock()
	defer initMu.Unlock()
	if instance == nil {
		level := new(slog.LevelVar)
		level.Set(slog.LevelInfo)
		instance = &Logger{
			level:   level,
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: false,
		}
	}
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

func SetDebug(debug bool) {
	EnsureInit()
	if debug {
		instance.level.Set(slog.LevelDebug)
		Log("Debug logging enabled")
		return
	}
	instance.level.Set(slog.LevelInfo)
}

func IsDebug() bool {
	EnsureInit()
	return instance.level.Level() <= slog.LevelDebug
}

func addToBuffer(message string) {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	}

	if len(instance.buffer) >= maxBufferSize {
		instance.buffer = instance.buffer[1:]
	}
	instance.buffer = append(instance.buffer, entry)
}

func write(level slog.Level, message string, attrs ...slog.Attr) {
	if instance == nil || !instance.enabled || instance.sink == nil {
		return
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.sink.LogAttrs(context.Background(), level, message, attrs...)
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

func Log(message string, args ...interface{}) {
	formatted := fmt.Sprintf(message, args...)
	addToBuffer("[INFO] " + formatted)
	write(slog.LevelInfo, formatted)
}

func Debug(message string, args ...interface{}) {
	if !IsDebug() {
		return
	}
	formatted := fmt.Sprintf(message, args...)
	addToBuffer("[DEBUG] " + formatted)
	write(slog.LevelDebug, formatted)
}

func LogError(operation, target string, err error) {
	message := fmt.Sprintf("[ERROR] %s: %s - %v", operation, target, err)
	addToBuffer(message)
	write(slog.LevelError, operation,
		slog.String("target", target),
		slog.Any("error", err),
	)
}

func LogHTTP(method, url string, status int, duration time.Duration) {
	message := fmt.Sprintf("[HTTP] %s %s -> %d (%v)", method, url, status, duration.Round(time.Millisecond))
	addToBuffer(message)
	write(slog.LevelInfo, "http",
		slog.String("method", method),
		slog.String("url", url),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	)
}

func LogAuth(event string, args ...interface{}) {
	formatted := fmt.Sprintf(event, args...)
	addToBuffer("[AUTH] " + formatted)
	write(slog.LevelInfo, formatted, slog.String("component", "auth"))
}

func LogFileOpen(path string) {
	addToBuffer(fmt.Sprintf("[FILE_OPEN] %s", path))
	write(slog.LevelDebug, "file open", slog.String("path", path))
}

func LogFileWrite(path string) {
	addToBuffer(fmt.Sprintf("[FILE_WRITE] %s", path))
	write(slog.LevelInfo, "file write", slog.String("path", path))
}
