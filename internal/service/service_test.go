package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nurse-triage-backend/config"
)

func TestNew_DefaultConfigUsesMockSource(t *testing.T) {
	svc, err := New(config.Default(), nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, svc.Store)
	assert.Nil(t, svc.pool)
	assert.NotNil(t, svc.Router)
}

func TestNew_PushRequiresKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Push.Enabled = true

	_, err := New(cfg, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestNew_PushEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Push.Enabled = true
	cfg.Push.PublicKey = "pub"
	cfg.Push.PrivateKey = "priv"
	cfg.Push.Subscribers = []config.PushSubscription{{Endpoint: "https://push.example/1", P256DH: "k", Auth: "a"}}

	svc, err := New(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, svc.pool)
}

func TestNew_UnknownSource(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Kind = "carrier-pigeon"

	_, err := New(cfg, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestRun_ShutdownEndsResumedRefreshLoop(t *testing.T) {
	svc, err := New(config.Default(), nil, zap.NewNop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	svc.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/monitor/start", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, svc.Scheduler.Running())

	svc.cancelRun()
	assert.Eventually(t, func() bool { return !svc.Scheduler.Running() }, time.Second, 10*time.Millisecond)
}
