package admin

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nurse-triage-backend/internal/metrics"
)

type recordingLog struct {
	messages []string
}

func (r *recordingLog) Append(message string) {
	r.messages = append(r.messages, message)
}

func TestGate_Attempt(t *testing.T) {
	gate := NewGate("admin123")

	testCases := []struct {
		password string
		expected bool
	}{
		{"admin123", true},
		{"Admin123", false},
		{"admin123 ", false},
		{"", false},
		{"wrong", false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, gate.Attempt(tc.password), "password=%q", tc.password)
	}
}

func newSessions(log *recordingLog, m *metrics.Metrics) *Sessions {
	return NewSessions(NewGate("admin123"), time.Minute, log, zap.NewNop(), m)
}

func TestSessions_UnlockAndConsume(t *testing.T) {
	log := &recordingLog{}
	s := newSessions(log, nil)

	id := s.Open()
	require.NotEmpty(t, id)
	assert.ErrorIs(t, s.Authorize(id), ErrSessionLocked)

	require.NoError(t, s.Unlock(id, "admin123"))
	assert.Equal(t, []string{MsgAdminAccessed}, log.messages)
	assert.NoError(t, s.Authorize(id))

	require.NoError(t, s.Consume(id))
	assert.ErrorIs(t, s.Consume(id), ErrSessionNotFound)
}

func TestSessions_WrongPasswordIsNotAudited(t *testing.T) {
	log := &recordingLog{}
	m := metrics.New()
	s := newSessions(log, m)

	id := s.Open()
	assert.ErrorIs(t, s.Unlock(id, "nope"), ErrWrongPassword)
	assert.Empty(t, log.messages)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AdminLoginFailures))
	assert.ErrorIs(t, s.Authorize(id), ErrSessionLocked)
}

func TestSessions_UnknownSession(t *testing.T) {
	s := newSessions(&recordingLog{}, nil)

	assert.ErrorIs(t, s.Unlock("missing", "admin123"), ErrSessionNotFound)
	assert.ErrorIs(t, s.Authorize("missing"), ErrSessionNotFound)
}

func TestSessions_IndependentSessions(t *testing.T) {
	s := newSessions(&recordingLog{}, nil)

	a, b := s.Open(), s.Open()
	assert.NotEqual(t, a, b)

	require.NoError(t, s.Unlock(a, "admin123"))
	assert.ErrorIs(t, s.Authorize(b), ErrSessionLocked)

	s.Close(a)
	assert.ErrorIs(t, s.Authorize(a), ErrSessionNotFound)
}
