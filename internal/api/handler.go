package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nurse-triage-backend/internal/admin"
	"nurse-triage-backend/internal/advisory"
	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/metrics"
	"nurse-triage-backend/internal/monitor"
	"nurse-triage-backend/internal/notification"
	"nurse-triage-backend/internal/registry"
	"nurse-triage-backend/internal/store"
	"nurse-triage-backend/internal/vitals"
)

// Deps are the components the handlers operate on. Store, WebPush and
// Metrics may be nil.
type Deps struct {
	Board            *monitor.Board
	Advisor          *advisory.Engine
	Log              *audit.Log
	Scheduler        *monitor.Scheduler
	Actions          *monitor.Actions
	Registry         *registry.Registry
	Sessions         *admin.Sessions
	Subscriptions    *notification.Subscriptions
	Store            store.Store
	WebPush          *webpush.Options
	Metrics          *metrics.Metrics
	Logger           *zap.Logger
	DefaultPatientID string

	// RunCtx bounds the refresh loop when it is resumed over the API.
	RunCtx context.Context
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	Deps
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.RunCtx == nil {
		d.RunCtx = context.Background()
	}
	d.Logger = d.Logger.Named("api")
	return &Handler{Deps: d}
}

func (h *Handler) patientID() string {
	if h.Registry == nil {
		return h.DefaultPatientID
	}
	return h.Registry.PatientID(h.DefaultPatientID)
}

// abortWithError maps domain errors onto status codes.
func abortWithError(c *gin.Context, err error) {
	var (
		verr *registry.ValidationError
		ferr *vitals.InputFormatError
	)
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.As(err, &ferr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ferr.Error(), "field": ferr.Field})
	case errors.Is(err, admin.ErrSessionNotFound), errors.Is(err, admin.ErrWrongPassword):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, admin.ErrSessionLocked):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, monitor.ErrAlreadyRunning):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
