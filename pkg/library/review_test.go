package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewCategory(t *testing.T) {
	tests := []struct {
		name     string
		positive int
		negative int
		want     string
	}{
		{"below 10 reviews has no category", 8, 1, ""},
		{"exactly 9 total has no category", 9, 0, ""},
		{"exactly 10 total gets a category", 10, 0, ReviewPositive},
		{"overwhelmingly positive needs 500 and 95%", 480, 20, ReviewOverwhelminglyPositive},
		{"95% under 500 total is very positive", 95, 5, ReviewVeryPositive},
		{"exactly 80% of 100 is the positive tier", 80, 20, ReviewVeryPositive},
		{"80% under 50 total is positive", 16, 4, ReviewPositive},
		{"79% is mostly positive", 79, 21, ReviewMostlyPositive},
		{"exactly 70% is mostly positive", 70, 30, ReviewMostlyPositive},
		{"50% is mixed", 50, 50, ReviewMixed},
		{"exactly 40% is mixed", 40, 60, ReviewMixed},
		{"25% is mostly negative", 25, 75, ReviewMostlyNegative},
		{"10% under 50 total is negative", 2, 18, ReviewNegative},
		{"10% of 100 is very negative", 10, 90, ReviewVeryNegative},
		{"5% of 1000 is overwhelmingly negative", 50, 950, ReviewOverwhelminglyNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReviewCategory(tt.positive, tt.negative))
		})
	}
}

func TestWholeHours(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int
	}{
		{7199, 2},  // rounds to nearest, not floor
		{1800, 0},  // half rounds to even
		{5400, 2},  // 1.5h rounds up to the even hour
		{3600, 1},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WholeHours(tt.seconds), "seconds=%v", tt.seconds)
	}
}
