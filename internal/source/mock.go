package source

import (
	"context"

	"k8s.io/utils/clock"

	"nurse-triage-backend/internal/model"
)

// Mock returns a fixed, stable reading stamped with the current time.
type Mock struct {
	clock   clock.PassiveClock
	reading model.VitalsReading
}

// NewMock creates the default demo source: HR 90, BP 100/160, 100°F.
func NewMock(clk clock.PassiveClock) *Mock {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Mock{
		clock:   clk,
		reading: model.VitalsReading{HeartRate: 90, BloodPressure: "100/160", Temperature: 100},
	}
}

// Fetch implements VitalsSource.
func (m *Mock) Fetch(ctx context.Context, patientID string) (model.VitalsReading, error) {
	if err := ctx.Err(); err != nil {
		return model.VitalsReading{}, &NetworkError{PatientID: patientID, Err: err}
	}
	r := m.reading
	r.ObservedAt = m.clock.Now()
	return r, nil
}
