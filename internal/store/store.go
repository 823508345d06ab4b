package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"nurse-triage-backend/internal/model"
)

// ErrNotFound is returned when a patient has no recorded vitals.
var ErrNotFound = errors.New("no vitals recorded")

// Store defines the read access the monitor needs to the EHR database.
type Store interface {
	LatestVitals(ctx context.Context, patientID string) (*model.VitalSigns, error)
	RecentVitals(ctx context.Context, patientID string, limit int) ([]model.VitalSigns, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// LatestVitals returns the most recently recorded row for the patient.
func (s *gormStore) LatestVitals(ctx context.Context, patientID string) (*model.VitalSigns, error) {
	var row model.VitalSigns
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("recorded_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest vitals for patient %s: %w", patientID, err)
	}
	return &row, nil
}

// RecentVitals returns up to limit rows for the patient, newest first.
func (s *gormStore) RecentVitals(ctx context.Context, patientID string, limit int) ([]model.VitalSigns, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []model.VitalSigns
	if err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query vitals history for patient %s: %w", patientID, err)
	}
	return rows, nil
}
