// Package testutil holds in-memory fakes of the output ports.
package testutil

import (
	"fmt"
	"sync"

	"login-agent/internal/application/port/output"
)

var _ output.LoggerPort = (*Logger)(nil)

type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// Logger records entries instead of writing them.
type Logger struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  map[string]any
}

func NewLogger() *Logger {
	return &Logger{
		mu:      &sync.Mutex{},
		entries: &[]Entry{},
		fields:  map[string]any{},
	}
}

func (l *Logger) log(level, msg string, args ...any) {
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		fields[fmt.Sprint(args[i])] = args[i+1]
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, Entry{Level: level, Message: msg, Fields: fields})
}

func (l *Logger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }

func (l *Logger) WithField(key string, value any) output.LoggerPort {
	return l.WithFields(map[string]any{key: value})
}

func (l *Logger) WithFields(fields map[string]any) output.LoggerPort {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *Logger) Close() error { return nil }

func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

// HasMessage reports whether any entry at level has exactly msg.
func (l *Logger) HasMessage(level, msg string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
