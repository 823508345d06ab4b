package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// BloodPressure holds the two components of a "systolic/diastolic" reading.
type BloodPressure struct {
	Systolic  int
	Diastolic int
}

func (bp BloodPressure) String() string {
	return fmt.Sprintf("%d/%d", bp.Systolic, bp.Diastolic)
}

// ParseBloodPressure splits a raw "S/D" string on the first slash.
// Both components must be integers.
func ParseBloodPressure(raw string) (BloodPressure, error) {
	s := strings.TrimSpace(raw)

	sys, dia, ok := strings.Cut(s, "/")
	if !ok {
		return BloodPressure{}, fmt.Errorf("blood pressure %q: missing '/'", raw)
	}

	systolic, err := strconv.Atoi(strings.TrimSpace(sys))
	if err != nil {
		return BloodPressure{}, fmt.Errorf("blood pressure %q: invalid systolic: %w", raw, err)
	}
	diastolic, err := strconv.Atoi(strings.TrimSpace(dia))
	if err != nil {
		return BloodPressure{}, fmt.Errorf("blood pressure %q: invalid diastolic: %w", raw, err)
	}

	return BloodPressure{Systolic: systolic, Diastolic: diastolic}, nil
}
