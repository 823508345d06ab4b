// Package service wires the monitor components into a runnable service.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"nurse-triage-backend/config"
	"nurse-triage-backend/internal/admin"
	"nurse-triage-backend/internal/advisory"
	"nurse-triage-backend/internal/api"
	"nurse-triage-backend/internal/audit"
	"nurse-triage-backend/internal/db"
	"nurse-triage-backend/internal/metrics"
	"nurse-triage-backend/internal/monitor"
	"nurse-triage-backend/internal/notification"
	"nurse-triage-backend/internal/registry"
	"nurse-triage-backend/internal/source"
	"nurse-triage-backend/internal/store"
)

const (
	MsgSystemInitialized = "System initialized successfully"
	shutdownTimeout      = 5 * time.Second
)

// Service is the assembled monitor.
type Service struct {
	cfg    *config.Config
	logger *zap.Logger

	Log       *audit.Log
	Board     *monitor.Board
	Registry  *registry.Registry
	Scheduler *monitor.Scheduler
	Store     store.Store
	Router    *gin.Engine

	pool *notification.WorkerPool

	// runCtx outlives a single request and ends when Run shuts down.
	runCtx    context.Context
	cancelRun context.CancelFunc
}

// New builds every component from cfg. The clock drives audit stamps and
// the refresh ticker; nil means the wall clock.
func New(cfg *config.Config, clk clock.WithTicker, logger *zap.Logger) (*Service, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := metrics.New()
	auditLog := audit.NewLog(cfg.Monitor.LogMaxEntries, clk)

	var st store.Store
	if cfg.Database.DSN != "" {
		gormDB, err := db.Init(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		st = store.NewGormStore(gormDB)
		logger.Info("EHR database initialized")
	}

	src, err := source.New(cfg, st, clk, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create vitals source: %w", err)
	}

	subs := notification.NewSubscriptions(cfg.Push.Subscribers)
	var (
		pool     *notification.WorkerPool
		pager    monitor.Pager
		pushOpts *webpush.Options
	)
	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			return nil, errors.New("push is enabled but VAPID keys are not configured")
		}
		pushOpts = newWebPushOptions(cfg.Push)
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, subs, pushOpts, logger, m)
		pager = pool
	}

	board := monitor.NewBoard()
	engine := advisory.NewEngine(auditLog, cfg.Monitor.Physician)
	pipeline := monitor.NewPipeline(engine, auditLog, board, pager, clk, logger, m)
	reg := registry.New(pipeline, auditLog, clk, logger, m)
	patientID := func() string { return reg.PatientID(cfg.Monitor.PatientID) }
	sched := monitor.NewScheduler(src, pipeline, patientID, cfg.Monitor.Interval, clk, auditLog, logger)
	actions := monitor.NewActions(auditLog, pager, patientID, logger, m)
	sessions := admin.NewSessions(admin.NewGate(cfg.Admin.Password),
		time.Duration(cfg.Admin.SessionTTLMinutes)*time.Minute, auditLog, logger, m)

	runCtx, cancelRun := context.WithCancel(context.Background())
	s := &Service{
		runCtx:    runCtx,
		cancelRun: cancelRun,
		cfg:       cfg,
		logger:    logger,
		Log:       auditLog,
		Board:     board,
		Registry:  reg,
		Scheduler: sched,
		Store:     st,
		pool:      pool,
	}

	handler := api.NewHandler(api.Deps{
		Board:            board,
		Advisor:          engine,
		Log:              auditLog,
		Scheduler:        sched,
		Actions:          actions,
		Registry:         reg,
		Sessions:         sessions,
		Subscriptions:    subs,
		Store:            st,
		WebPush:          pushOpts,
		Metrics:          m,
		Logger:           logger,
		DefaultPatientID: cfg.Monitor.PatientID,
		RunCtx:           runCtx,
	})
	s.Router = api.NewRouter(cfg.Server, handler)
	return s, nil
}

func newWebPushOptions(cfg config.PushConfig) *webpush.Options {
	return &webpush.Options{
		VAPIDPublicKey:  cfg.PublicKey,
		VAPIDPrivateKey: cfg.PrivateKey,
		Subscriber:      cfg.Subject,
		TTL:             cfg.TTL,
	}
}

// Boot writes the start-up audit entries and starts the refresh loop.
func (s *Service) Boot(ctx context.Context) error {
	if s.pool != nil {
		s.pool.Start(ctx)
	}

	s.Log.Append(MsgSystemInitialized)
	s.Log.Append(fmt.Sprintf("Connected to patient %s", s.Registry.PatientID(s.cfg.Monitor.PatientID)))
	return s.Scheduler.Start(ctx)
}

// Run boots the monitor and serves HTTP until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if err := s.Boot(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.Router,
	}

	g.Go(func() error {
		s.logger.Info("HTTP server starting", zap.Int("port", s.cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutdown signal received, stopping services")
		s.cancelRun()
		s.Scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		s.logger.Info("server gracefully stopped")
		return nil
	})

	return g.Wait()
}
