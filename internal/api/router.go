package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"nurse-triage-backend/config"
	"nurse-triage-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.Logger))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		r.GET("/metrics", h.Metrics.Handler())
	}
	r.GET("/healthz", h.Healthz)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	cacheStore := cache.New(ttl, 10*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Invalidate(cacheStore))
	{
		api.GET("/dashboard", caching, h.GetDashboard)
		api.GET("/audit", caching, h.GetAudit)
		api.GET("/thresholds", h.GetThresholds)
		api.GET("/vitals/history", caching, h.GetVitalsHistory)
		api.POST("/vitals/analyze", h.AnalyzeVitals)

		api.GET("/monitor", h.GetMonitor)
		api.POST("/monitor/start", h.StartMonitor)
		api.POST("/monitor/stop", h.StopMonitor)
		api.POST("/monitor/refresh", h.RefreshNow)

		api.POST("/actions/confirm", h.Confirm)
		api.POST("/actions/escalate", h.Escalate)
		api.POST("/actions/document", h.Document)

		api.POST("/admin/sessions", h.OpenAdminSession)
		api.POST("/admin/sessions/:id/unlock", h.UnlockAdminSession)
		api.DELETE("/admin/sessions/:id", h.CloseAdminSession)
		api.POST("/admin/patients", h.RegisterPatient)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
