package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBloodPressure(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  BloodPressure
		expectErr bool
	}{
		{
			name:     "Standard reading",
			raw:      "120/80",
			expected: BloodPressure{Systolic: 120, Diastolic: 80},
		},
		{
			name:     "Surrounding whitespace",
			raw:      "  100 / 160 ",
			expected: BloodPressure{Systolic: 100, Diastolic: 160},
		},
		{
			name:     "Low systolic",
			raw:      "90/60",
			expected: BloodPressure{Systolic: 90, Diastolic: 60},
		},
		{
			name:      "Missing slash",
			raw:       "abc",
			expectErr: true,
		},
		{
			name:      "Non-numeric systolic",
			raw:       "high/80",
			expectErr: true,
		},
		{
			name:      "Non-numeric diastolic",
			raw:       "120/low",
			expectErr: true,
		},
		{
			name:      "Empty systolic",
			raw:       "/80",
			expectErr: true,
		},
		{
			name:      "Extra slash",
			raw:       "120/80/60",
			expectErr: true,
		},
		{
			name:      "Empty string",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bp, err := ParseBloodPressure(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, bp)
		})
	}
}

func TestBloodPressure_String(t *testing.T) {
	assert.Equal(t, "118/76", BloodPressure{Systolic: 118, Diastolic: 76}.String())
}
