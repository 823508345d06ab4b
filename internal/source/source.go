// Package source acquires vitals readings for the monitored patient.
package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"nurse-triage-backend/config"
	"nurse-triage-backend/internal/model"
	"nurse-triage-backend/internal/store"
)

// VitalsSource returns the latest reading for a patient.
type VitalsSource interface {
	Fetch(ctx context.Context, patientID string) (model.VitalsReading, error)
}

// NetworkError reports a failed acquisition.
type NetworkError struct {
	PatientID string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch vitals for patient %s: %v", e.PatientID, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// New builds the source selected by cfg.Source.Kind. The store is only
// required for the "database" kind.
func New(cfg *config.Config, st store.Store, clk clock.PassiveClock, logger *zap.Logger) (VitalsSource, error) {
	switch cfg.Source.Kind {
	case "", "mock":
		return NewMock(clk), nil
	case "http":
		if cfg.Source.BaseURL == "" {
			return nil, fmt.Errorf("source.base_url is required for the http source")
		}
		return NewHTTP(cfg.Source.BaseURL, cfg.Source.HTTPProxy, time.Duration(cfg.Source.TimeoutSeconds)*time.Second, logger), nil
	case "database":
		if st == nil {
			return nil, fmt.Errorf("database source requires a store")
		}
		return NewStoreSource(st), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
