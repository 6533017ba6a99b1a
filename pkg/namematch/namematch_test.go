package namematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The matcher is a review-flagging heuristic, not a correctness guarantee;
// these tests pin the behavior we rely on, not an ideal similarity metric.
func TestSimilar(t *testing.T) {
	m := Default{}

	tests := []struct {
		a, b string
		want bool
	}{
		{"Portal 2", "Portal 2", true},
		{"PORTAL 2", "portal 2", true},
		{"Final Fantasy VII", "Final Fantasy 7", true},
		{"The Witcher 3: Wild Hunt", "The Witcher 3 Wild Hunt - Game of the Year Edition", true},
		{"DOOM (1993)", "DOOM 1993", true},
		{"Skyrim Special Edition", "Skyrim Special", true},
		{"Half-Life", "Half Life", true},
		{"Portal", "Portal 2", true}, // containment is accepted on purpose
		{"Factorio", "Stardew Valley", false},
		{"", "", true},
		{"Portal", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Similar(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "dark souls 3", Normalize("DARK SOULS III"))
	assert.Equal(t, "witcher 3 wild hunt", Normalize("Witcher III: Wild Hunt — Complete Edition"))
	assert.Equal(t, "", Normalize("  ::  "))
}
