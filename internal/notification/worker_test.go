package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nurse-triage-backend/config"
	"nurse-triage-backend/internal/metrics"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

func seededSubscriptions() *Subscriptions {
	return NewSubscriptions([]config.PushSubscription{
		{Endpoint: "https://example.com/push", P256DH: "test_p256dh", Auth: "test_auth"},
	})
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, seededSubscriptions(), &webpush.Options{}, zap.NewNop(), nil)

	wp.Dispatch(PageJob{Kind: KindPhysician, PatientID: "P405", Message: "critical"})

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "P405", job.PatientID)
		assert.Equal(t, KindPhysician, job.Kind)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	m := metrics.New()
	wp := NewWorkerPool(1, seededSubscriptions(), &webpush.Options{}, zap.NewNop(), m)

	for i := 0; i < cap(wp.Jobs())+3; i++ {
		wp.Dispatch(PageJob{Kind: KindSeniorNurse, PatientID: "P405"})
	}

	assert.Len(t, wp.Jobs(), cap(wp.Jobs()))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.PagesTotal.WithLabelValues("senior_nurse", "dropped")))
}

func TestWorkerPool_NilDispatchIsNoop(t *testing.T) {
	var wp *WorkerPool
	assert.NotPanics(t, func() { wp.Dispatch(PageJob{Kind: KindPhysician}) })
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	subs := seededSubscriptions()
	wp := NewWorkerPool(1, subs, &webpush.Options{}, zap.NewNop(), nil)

	t.Run("sends page to every subscription", func(t *testing.T) {
		subs.Put(Subscription{Endpoint: "https://example.com/second", P256DH: "k", Auth: "a"})
		defer subs.Delete("https://example.com/second")

		var mu sync.Mutex
		var endpoints []string
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				var body map[string]string
				require.NoError(t, json.Unmarshal(payload, &body))
				assert.Equal(t, "Physician page", body["title"])
				assert.Equal(t, "Patient P405 is critical", body["body"])
				assert.Equal(t, "P405", body["patient_id"])

				mu.Lock()
				endpoints = append(endpoints, sub.Endpoint)
				mu.Unlock()
				return response(http.StatusCreated), nil
			},
		}

		wp.deliver(PageJob{Kind: KindPhysician, PatientID: "P405", Message: "Patient P405 is critical"})
		assert.Equal(t, []string{"https://example.com/push", "https://example.com/second"}, endpoints)
	})

	t.Run("removes expired subscription", func(t *testing.T) {
		subs.Put(Subscription{Endpoint: "https://example.com/expired", P256DH: "k", Auth: "a"})

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				if sub.Endpoint == "https://example.com/expired" {
					return response(http.StatusGone), nil
				}
				return response(http.StatusCreated), nil
			},
		}

		wp.deliver(PageJob{Kind: KindSeniorNurse, PatientID: "P405", Message: "escalation"})

		_, ok := subs.Get("https://example.com/expired")
		assert.False(t, ok)
		_, ok = subs.Get("https://example.com/push")
		assert.True(t, ok)
	})

	t.Run("keeps subscription on send error", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}

		wp.deliver(PageJob{Kind: KindPhysician, PatientID: "P405"})
		assert.Equal(t, 1, subs.Len())
	})
}

func TestWorkerPool_StartProcessesJobs(t *testing.T) {
	wp := NewWorkerPool(2, seededSubscriptions(), &webpush.Options{}, zap.NewNop(), nil)

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			wg.Done()
			return response(http.StatusCreated), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(PageJob{Kind: KindPhysician, PatientID: "P405", Message: "critical"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for page delivery")
	}
}
