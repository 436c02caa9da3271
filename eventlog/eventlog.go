// Package eventlog keeps the client's append-only diagnostic event log.
package eventlog

import (
	"sync"
	"time"

	"short-url-client/model"

	"github.com/rs/zerolog/log"
)

const timestampLayout = "15:04:05"

// Log is an ordered, append-only sequence of entries that lives as long as the session.
// Entries are never evicted or rewritten.
type Log struct {
	mu          sync.RWMutex
	entries     []model.LogEntry
	subscribers []func(model.LogEntry)
	now         func() time.Time
}

// New creates an empty log stamped with the wall clock
func New() *Log {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty log that reads time from now
func NewWithClock(now func() time.Time) *Log {
	return &Log{now: now}
}

// Append records message and notifies subscribers so views can scroll to it.
// latencyMs is 0 when the operation was not timed.
func (l *Log) Append(message string, kind model.LogKind, latencyMs int64) {
	if latencyMs < 0 {
		latencyMs = 0
	}
	entry := model.LogEntry{
		Message:   message,
		Kind:      kind,
		LatencyMs: latencyMs,
		Timestamp: l.now().Format(timestampLayout),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	subscribers := make([]func(model.LogEntry), len(l.subscribers))
	copy(subscribers, l.subscribers)
	l.mu.Unlock()

	log.Debug().
		Str("kind", string(kind)).
		Int64("latency_ms", latencyMs).
		Msg(message)

	for _, notify := range subscribers {
		notify(entry)
	}
}

func (l *Log) Info(message string)    { l.Append(message, model.KindInfo, 0) }
func (l *Log) System(message string)  { l.Append(message, model.KindSystem, 0) }
func (l *Log) Error(message string)   { l.Append(message, model.KindError, 0) }
func (l *Log) Warning(message string) { l.Append(message, model.KindWarning, 0) }

// Success records a successful operation together with its latency
func (l *Log) Success(message string, latencyMs int64) {
	l.Append(message, model.KindSuccess, latencyMs)
}

// Subscribe registers fn to be called after every append.
// fn runs on the appending goroutine and must not block.
func (l *Log) Subscribe(fn func(model.LogEntry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Entries returns a copy of every entry in insertion order
func (l *Log) Entries() []model.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Since returns a copy of the entries appended after the first n
func (l *Log) Since(n int) []model.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n >= len(l.entries) {
		return nil
	}
	out := make([]model.LogEntry, len(l.entries)-n)
	copy(out, l.entries[n:])
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
