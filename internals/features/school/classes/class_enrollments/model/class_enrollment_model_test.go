package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name    string
		e       ClassEnrollmentModel
		mini    float64
		overall float64
		passed  bool
	}{
		{
			name: "partially graded mini tests count as zero",
			e: ClassEnrollmentModel{
				ClassEnrollmentMinitest1: f(8),
				ClassEnrollmentMinitest2: f(6),
				ClassEnrollmentMidterm:   f(7),
				ClassEnrollmentFinalTest: f(9),
			},
			mini:    3.5,
			overall: 7.3,
			passed:  true,
		},
		{
			name:    "nothing graded",
			e:       ClassEnrollmentModel{},
			mini:    0,
			overall: 0,
			passed:  false,
		},
		{
			name: "exactly on threshold passes",
			e: ClassEnrollmentModel{
				ClassEnrollmentFinalTest: f(8),
			},
			mini:    0,
			overall: 4.0,
			passed:  true,
		},
		{
			name: "just below threshold",
			e: ClassEnrollmentModel{
				ClassEnrollmentMinitest1: f(10),
				ClassEnrollmentMinitest2: f(10),
				ClassEnrollmentMinitest3: f(10),
				ClassEnrollmentMinitest4: f(10),
				ClassEnrollmentMidterm:   f(6),
			},
			mini:    10,
			overall: 3.8,
			passed:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.mini, tt.e.MiniTestAverage(), 1e-9)
			assert.InDelta(t, tt.overall, tt.e.OverallScore(), 1e-9)
			assert.Equal(t, tt.passed, tt.e.IsPassed())
		})
	}
}

func TestHasAnyScore(t *testing.T) {
	assert.False(t, (&ClassEnrollmentModel{}).HasAnyScore())
	assert.True(t, (&ClassEnrollmentModel{ClassEnrollmentMidterm: f(0)}).HasAnyScore())
}
