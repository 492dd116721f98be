package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry represents a single log entry
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

// Buffer is a ring buffer for storing recent log messages
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	size    int
	pos     int
}

func (b *Buffer) add(e Entry) {
	b.mu.Lock()
	b.entries[b.pos] = e
	b.pos = (b.pos + 1) % b.size
	b.mu.Unlock()
}

// Logger writes to the standard logger and records entries in a ring buffer.
// Loggers returned by Named share the buffer of their parent.
type Logger struct {
	buffer    *Buffer
	component string
}

// New creates a new Logger with the specified buffer size
func New(bufferSize int) *Logger {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Logger{
		buffer: &Buffer{
			entries: make([]Entry, bufferSize),
			size:    bufferSize,
		},
	}
}

// Named returns a logger that tags every entry with component
func (l *Logger) Named(component string) *Logger {
	return &Logger{buffer: l.buffer, component: component}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		log.Printf("[%s] [%s] %s", level, l.component, msg)
	} else {
		log.Printf("[%s] %s", level, msg)
	}

	l.buffer.add(Entry{
		Timestamp: time.Now().Format("2006-01-02 15:04:05.000"),
		Level:     level.String(),
		Component: l.component,
		Message:   msg,
	})
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// GetEntries returns all log entries in chronological order
func (l *Logger) GetEntries() []Entry {
	l.buffer.mu.RLock()
	defer l.buffer.mu.RUnlock()

	result := make([]Entry, 0, l.buffer.size)
	for i := 0; i < l.buffer.size; i++ {
		idx := (l.buffer.pos + i) % l.buffer.size
		if l.buffer.entries[idx].Timestamp != "" {
			result = append(result, l.buffer.entries[idx])
		}
	}
	return result
}
