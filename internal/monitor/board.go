// Package monitor runs readings through classification and advisory, keeps
// the last presented frame and drives the periodic refresh.
package monitor

import (
	"sync"
	"time"

	"nurse-triage-backend/internal/advisory"
	"nurse-triage-backend/internal/model"
	"nurse-triage-backend/internal/vitals"
)

// Frame is everything the dashboard shows for one cycle.
type Frame struct {
	PatientID      string                 `json:"patient_id"`
	Reading        *model.VitalsReading   `json:"vitals"`
	Classification *vitals.Classification `json:"classification"`
	Advice         advisory.Advice        `json:"advisory"`
	Error          string                 `json:"error,omitempty"`
	PresentedAt    time.Time              `json:"presented_at"`
}

// Sink receives every presented frame.
type Sink interface {
	Present(f Frame)
}

// Board keeps the last presented frame for the API.
type Board struct {
	mu    sync.RWMutex
	frame Frame
	ok    bool
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Present implements Sink.
func (b *Board) Present(f Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame = f
	b.ok = true
}

// Snapshot returns the last frame and whether one was presented.
func (b *Board) Snapshot() (Frame, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame, b.ok
}
