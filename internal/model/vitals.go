package model

import (
	"strconv"
	"time"
)

// ClockLayout is the HH:MM:SS 24h layout shown next to readings and audit entries.
const ClockLayout = "15:04:05"

// VitalsReading is one snapshot of the monitored patient's vital signs.
type VitalsReading struct {
	HeartRate     int       `json:"hr" validate:"gt=0"`
	BloodPressure string    `json:"bp" validate:"required"`
	Temperature   float64   `json:"temp" validate:"gt=0"`
	ObservedAt    time.Time `json:"observed_at"`
}

// TemperatureString formats the temperature without trailing zeros (100, 98.6).
func (r VitalsReading) TemperatureString() string {
	return FormatTemperature(r.Temperature)
}

// Time returns the observation time as shown on the dashboard.
func (r VitalsReading) Time() string {
	if r.ObservedAt.IsZero() {
		return ""
	}
	return r.ObservedAt.Format(ClockLayout)
}

// FormatTemperature renders a Fahrenheit value with the shortest exact representation.
func FormatTemperature(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
