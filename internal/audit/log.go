package audit

import (
	"sync"

	"k8s.io/utils/clock"

	"nurse-triage-backend/internal/model"
)

// DefaultMaxEntries is used when a non-positive maximum is configured.
const DefaultMaxEntries = 10

// Appender accepts audit messages.
type Appender interface {
	Append(message string)
}

// Log is a capped, newest-first audit log. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []model.AuditEntry
	max     int
	clock   clock.PassiveClock
}

// NewLog creates a log that keeps at most max entries.
func NewLog(max int, clk clock.PassiveClock) *Log {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Log{
		entries: make([]model.AuditEntry, 0, max),
		max:     max,
		clock:   clk,
	}
}

// Append stamps the message with the current time and puts it first.
// The oldest entries are dropped once the log is full.
func (l *Log) Append(message string) {
	entry := model.AuditEntry{
		Timestamp: l.clock.Now().Format(model.ClockLayout),
		Message:   message,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, model.AuditEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []model.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Max returns the configured capacity.
func (l *Log) Max() int {
	return l.max
}
