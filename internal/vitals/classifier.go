// Package vitals maps a vitals reading to per-channel severity bands and an
// overall critical verdict.
package vitals

import (
	"fmt"
	"strings"

	"nurse-triage-backend/internal/model"
	"nurse-triage-backend/internal/parse"
)

// Band is the severity color of a single vital channel.
type Band string

const (
	Green  Band = "GREEN"
	Orange Band = "ORANGE"
	Red    Band = "RED"
)

// criticalBPPrefixes are matched against the raw blood pressure string, not the
// parsed systolic value. "90/60" is critical even though it bands ORANGE.
var criticalBPPrefixes = []string{"90", "80", "70"}

// InputFormatError reports a reading that cannot be classified.
type InputFormatError struct {
	Field string
	Value string
	Err   error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// Classification is the result of classifying one reading.
type Classification struct {
	HR       Band `json:"hr"`
	BP       Band `json:"bp"`
	Temp     Band `json:"temp"`
	Critical bool `json:"critical"`
}

// Classify bands every channel of the reading and derives the critical verdict.
func Classify(r model.VitalsReading) (Classification, error) {
	bp, err := BloodPressureBand(r.BloodPressure)
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		HR:       HeartRateBand(r.HeartRate),
		BP:       bp,
		Temp:     TemperatureBand(r.Temperature),
		Critical: IsCritical(r),
	}, nil
}

// HeartRateBand: RED above 110 or below 50, ORANGE above 100 or below 60.
func HeartRateBand(hr int) Band {
	if hr > 110 || hr < 50 {
		return Red
	}
	if hr > 100 || hr < 60 {
		return Orange
	}
	return Green
}

// BloodPressureBand bands on the systolic component only.
func BloodPressureBand(bp string) (Band, error) {
	parsed, err := parse.ParseBloodPressure(bp)
	if err != nil {
		return "", &InputFormatError{Field: "blood pressure", Value: bp, Err: err}
	}
	sys := parsed.Systolic
	if sys < 90 || sys > 180 {
		return Red, nil
	}
	if sys < 100 || sys > 140 {
		return Orange, nil
	}
	return Green, nil
}

// TemperatureBand: RED above 103°F or below 95°F, ORANGE above 101°F or below 97°F.
func TemperatureBand(temp float64) Band {
	if temp > 103 || temp < 95 {
		return Red
	}
	if temp > 101 || temp < 97 {
		return Orange
	}
	return Green
}

// IsCritical is true when heart rate or temperature is in the RED range, or
// the blood pressure string starts with 90, 80 or 70.
func IsCritical(r model.VitalsReading) bool {
	hrCritical := r.HeartRate > 110 || r.HeartRate < 50
	tempCritical := r.Temperature > 103 || r.Temperature < 95

	bpCritical := false
	for _, p := range criticalBPPrefixes {
		if strings.HasPrefix(r.BloodPressure, p) {
			bpCritical = true
			break
		}
	}

	return hrCritical || bpCritical || tempCritical
}

// Threshold describes the band limits of one channel for the dashboard legend.
type Threshold struct {
	Channel   string  `json:"channel"`
	Unit      string  `json:"unit"`
	RedBelow  float64 `json:"red_below"`
	RedAbove  float64 `json:"red_above"`
	OrangeLow float64 `json:"orange_below"`
	OrangeHi  float64 `json:"orange_above"`
}

// Thresholds returns the limits used by the band functions.
func Thresholds() []Threshold {
	return []Threshold{
		{Channel: "hr", Unit: "bpm", RedBelow: 50, RedAbove: 110, OrangeLow: 60, OrangeHi: 100},
		{Channel: "bp", Unit: "mmHg systolic", RedBelow: 90, RedAbove: 180, OrangeLow: 100, OrangeHi: 140},
		{Channel: "temp", Unit: "°F", RedBelow: 95, RedAbove: 103, OrangeLow: 97, OrangeHi: 101},
	}
}
