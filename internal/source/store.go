package source

import (
	"context"

	"nurse-triage-backend/internal/model"
	"nurse-triage-backend/internal/store"
)

// StoreSource reads the most recent vital_signs row from the EHR database.
type StoreSource struct {
	store store.Store
}

// NewStoreSource creates a database-backed source.
func NewStoreSource(st store.Store) *StoreSource {
	return &StoreSource{store: st}
}

// Fetch implements VitalsSource.
func (s *StoreSource) Fetch(ctx context.Context, patientID string) (model.VitalsReading, error) {
	row, err := s.store.LatestVitals(ctx, patientID)
	if err != nil {
		return model.VitalsReading{}, &NetworkError{PatientID: patientID, Err: err}
	}
	return row.Reading(), nil
}
