package model

import "time"

// VitalSigns is a vitals row recorded in the EHR database.
type VitalSigns struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	PatientID     string    `gorm:"size:50;not null;index"`
	HeartRate     int       `gorm:"not null"`
	BloodPressure string    `gorm:"size:20;not null"`
	Temperature   float64   `gorm:"not null"`
	RecordedBy    string    `gorm:"size:100"`
	RecordedAt    time.Time `gorm:"not null;index"`
}

// Reading converts the row into the reading shape used by the monitor.
func (v VitalSigns) Reading() VitalsReading {
	return VitalsReading{
		HeartRate:     v.HeartRate,
		BloodPressure: v.BloodPressure,
		Temperature:   v.Temperature,
		ObservedAt:    v.RecordedAt,
	}
}
