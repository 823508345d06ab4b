package vitals

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nurse-triage-backend/internal/model"
)

func TestHeartRateBand_Boundaries(t *testing.T) {
	testCases := []struct {
		hr       int
		expected Band
	}{
		{49, Red},
		{50, Orange},
		{59, Orange},
		{60, Green},
		{61, Green},
		{90, Green},
		{100, Green},
		{101, Orange},
		{110, Orange},
		{111, Red},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, HeartRateBand(tc.hr), "hr=%d", tc.hr)
	}
}

func TestHeartRateBand_Property(t *testing.T) {
	for hr := 0; hr <= 250; hr++ {
		got := HeartRateBand(hr)
		switch {
		case hr > 110 || hr < 50:
			assert.Equal(t, Red, got, "hr=%d", hr)
		case (hr > 100 && hr <= 110) || (hr >= 50 && hr < 60):
			assert.Equal(t, Orange, got, "hr=%d", hr)
		default:
			assert.Equal(t, Green, got, "hr=%d", hr)
		}
	}
}

func TestBloodPressureBand(t *testing.T) {
	testCases := []struct {
		bp       string
		expected Band
	}{
		{"89/60", Red},
		{"90/60", Orange},
		{"99/70", Orange},
		{"100/160", Green},
		{"120/80", Green},
		{"140/90", Green},
		{"141/90", Orange},
		{"180/100", Orange},
		{"181/100", Red},
		{"70/40", Red},
	}

	for _, tc := range testCases {
		got, err := BloodPressureBand(tc.bp)
		require.NoError(t, err, tc.bp)
		assert.Equal(t, tc.expected, got, "bp=%s", tc.bp)
	}
}

func TestBloodPressureBand_Malformed(t *testing.T) {
	for _, bp := range []string{"abc", "", "120", "x/80", "120/"} {
		_, err := BloodPressureBand(bp)
		var formatErr *InputFormatError
		assert.True(t, errors.As(err, &formatErr), "bp=%q should fail with InputFormatError", bp)
	}
}

func TestTemperatureBand(t *testing.T) {
	testCases := []struct {
		temp     float64
		expected Band
	}{
		{94.9, Red},
		{95, Orange},
		{96.9, Orange},
		{97, Green},
		{98.6, Green},
		{101, Green},
		{101.1, Orange},
		{103, Orange},
		{103.1, Red},
		{104, Red},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, TemperatureBand(tc.temp), "temp=%v", tc.temp)
	}
}

func TestIsCritical(t *testing.T) {
	testCases := []struct {
		name     string
		reading  model.VitalsReading
		expected bool
	}{
		{
			name:     "stable reading",
			reading:  model.VitalsReading{HeartRate: 90, BloodPressure: "100/160", Temperature: 100},
			expected: false,
		},
		{
			name:     "tachycardia",
			reading:  model.VitalsReading{HeartRate: 111, BloodPressure: "120/80", Temperature: 98.6},
			expected: true,
		},
		{
			name:     "bradycardia",
			reading:  model.VitalsReading{HeartRate: 49, BloodPressure: "120/80", Temperature: 98.6},
			expected: true,
		},
		{
			name:     "hr at orange edge is not critical",
			reading:  model.VitalsReading{HeartRate: 110, BloodPressure: "120/80", Temperature: 98.6},
			expected: false,
		},
		{
			name:     "bp prefix 90 is critical even though it bands orange",
			reading:  model.VitalsReading{HeartRate: 80, BloodPressure: "90/60", Temperature: 98.6},
			expected: true,
		},
		{
			name:     "bp prefix 80",
			reading:  model.VitalsReading{HeartRate: 80, BloodPressure: "80/50", Temperature: 98.6},
			expected: true,
		},
		{
			name:     "bp prefix 70",
			reading:  model.VitalsReading{HeartRate: 80, BloodPressure: "70/40", Temperature: 98.6},
			expected: true,
		},
		{
			name:     "bp 60/40 bands red but is not critical by prefix",
			reading:  model.VitalsReading{HeartRate: 80, BloodPressure: "60/40", Temperature: 98.6},
			expected: false,
		},
		{
			name:     "bp 800 matches the 80 prefix",
			reading:  model.VitalsReading{HeartRate: 80, BloodPressure: "800/60", Temperature: 98.6},
			expected: true,
		},
		{
			name:     "high fever",
			reading:  model.VitalsReading{HeartRate: 95, BloodPressure: "120/80", Temperature: 104},
			expected: true,
		},
		{
			name:     "hypothermia",
			reading:  model.VitalsReading{HeartRate: 95, BloodPressure: "120/80", Temperature: 94},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsCritical(tc.reading))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("all green and stable", func(t *testing.T) {
		c, err := Classify(model.VitalsReading{HeartRate: 90, BloodPressure: "100/160", Temperature: 100})
		require.NoError(t, err)
		assert.Equal(t, Classification{HR: Green, BP: Green, Temp: Green, Critical: false}, c)
	})

	t.Run("fever drives critical", func(t *testing.T) {
		c, err := Classify(model.VitalsReading{HeartRate: 95, BloodPressure: "120/80", Temperature: 104})
		require.NoError(t, err)
		assert.Equal(t, Classification{HR: Green, BP: Green, Temp: Red, Critical: true}, c)
	})

	t.Run("malformed blood pressure", func(t *testing.T) {
		_, err := Classify(model.VitalsReading{HeartRate: 90, BloodPressure: "abc", Temperature: 98.6})
		var formatErr *InputFormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, "abc", formatErr.Value)
	})
}

func TestThresholds(t *testing.T) {
	th := Thresholds()
	require.Len(t, th, 3)
	assert.Equal(t, "hr", th[0].Channel)
	assert.Equal(t, float64(110), th[0].RedAbove)
}
