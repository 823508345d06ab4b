package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"nurse-triage-backend/internal/metrics"
)

// Kind selects who a page is addressed to.
type Kind string

const (
	KindPhysician   Kind = "physician"
	KindSeniorNurse Kind = "senior_nurse"
)

// PageJob is one page to deliver to every subscription.
type PageJob struct {
	Kind      Kind   `json:"kind"`
	PatientID string `json:"patient_id"`
	Message   string `json:"message"`
}

func (j PageJob) title() string {
	if j.Kind == KindSeniorNurse {
		return "Senior nurse escalation"
	}
	return "Physician page"
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool delivers pages on a fixed number of workers.
type WorkerPool struct {
	size    int
	jobs    chan PageJob
	subs    *Subscriptions
	webpush *webpush.Options
	sender  NotificationSender
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewWorkerPool creates a new worker pool. m may be nil.
func NewWorkerPool(size int, subs *Subscriptions, webpushOptions *webpush.Options, logger *zap.Logger, m *metrics.Metrics) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan PageJob, size*16),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		logger:  logger.Named("pager"),
		metrics: m,
	}
}

// Start launches the worker goroutines. They exit when ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Debug("worker started", zap.Int("worker", id))
	for {
		select {
		case job := <-wp.jobs:
			wp.deliver(job)
		case <-ctx.Done():
			wp.logger.Debug("worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a page. It never blocks the caller: when the queue is
// full the page is dropped and logged.
func (wp *WorkerPool) Dispatch(job PageJob) {
	if wp == nil {
		return
	}
	select {
	case wp.jobs <- job:
	default:
		wp.logger.Warn("page queue full, dropping page",
			zap.String("kind", string(job.Kind)), zap.String("patient_id", job.PatientID))
		wp.metrics.PageSent(string(job.Kind), "dropped")
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan PageJob {
	return wp.jobs
}

func (wp *WorkerPool) deliver(job PageJob) {
	subs := wp.subs.List()
	if len(subs) == 0 {
		wp.logger.Debug("no pager subscriptions", zap.String("kind", string(job.Kind)))
		return
	}

	payload, err := json.Marshal(map[string]string{
		"title":      job.title(),
		"body":       job.Message,
		"kind":       string(job.Kind),
		"patient_id": job.PatientID,
	})
	if err != nil {
		wp.logger.Error("failed to encode page", zap.Error(err))
		return
	}

	wp.logger.Info("sending page",
		zap.String("kind", string(job.Kind)),
		zap.String("patient_id", job.PatientID),
		zap.Int("subscriptions", len(subs)))
	for _, sub := range subs {
		wp.send(job, sub, payload)
	}
}

func (wp *WorkerPool) send(job PageJob, sub Subscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Warn("failed to send page", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		wp.metrics.PageSent(string(job.Kind), "error")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("subscription expired, removing", zap.String("endpoint", sub.Endpoint))
		wp.subs.Delete(sub.Endpoint)
		wp.metrics.PageSent(string(job.Kind), "expired")
		return
	}
	wp.metrics.PageSent(string(job.Kind), "sent")
}
