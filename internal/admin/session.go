package admin

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/metrics"
)

// MsgAdminAccessed is audited on every successful unlock.
const MsgAdminAccessed = "Admin panel accessed"

var (
	ErrSessionNotFound = errors.New("admin session not found or expired")
	ErrSessionLocked   = errors.New("admin session is locked")
	ErrWrongPassword   = errors.New("incorrect admin password")
)

// Sessions tracks admin modal interactions. A session starts locked, is
// unlocked by the correct password and is consumed by a registration.
type Sessions struct {
	mu      sync.Mutex
	gate    *Gate
	cache   *cache.Cache
	log     audit.Appender
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSessions creates a session store whose entries expire after ttl.
func NewSessions(gate *Gate, ttl time.Duration, log audit.Appender, logger *zap.Logger, m *metrics.Metrics) *Sessions {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{
		gate:    gate,
		cache:   cache.New(ttl, 2*ttl),
		log:     log,
		logger:  logger.Named("admin"),
		metrics: m,
	}
}

// Open starts a new locked session and returns its id.
func (s *Sessions) Open() string {
	id := uuid.NewString()
	s.cache.SetDefault(id, false)
	return id
}

// Unlock unlocks the session when password is correct.
func (s *Sessions) Unlock(id, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.cache.Get(id); !found {
		return ErrSessionNotFound
	}
	if !s.gate.Attempt(password) {
		s.logger.Warn("admin unlock rejected", zap.String("session_id", id))
		s.metrics.AdminLoginFailed()
		return ErrWrongPassword
	}

	s.cache.SetDefault(id, true)
	s.log.Append(MsgAdminAccessed)
	return nil
}

// Authorize returns nil when the session exists and is unlocked.
func (s *Sessions) Authorize(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorize(id)
}

// Consume authorizes the session and removes it.
func (s *Sessions) Consume(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(id); err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}

// Close drops a session whether or not it was unlocked.
func (s *Sessions) Close(id string) {
	s.cache.Delete(id)
}

func (s *Sessions) authorize(id string) error {
	v, found := s.cache.Get(id)
	if !found {
		return ErrSessionNotFound
	}
	if unlocked, _ := v.(bool); !unlocked {
		return ErrSessionLocked
	}
	return nil
}
