package priority_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpaulsen/lawflow/internal/priority"
)

func TestComputePriority_Bounds(t *testing.T) {
	for _, w := range []float64{0, 0.1, 0.25, 0.5, 1.0} {
		for _, m := range []float64{0, 12.5, 50, 99, 100} {
			score := priority.ComputePriority(w, m)
			assert.GreaterOrEqual(t, score, 0.0, "priority must be non-negative (w=%v m=%v)", w, m)
		}
	}
}

func TestComputePriority_ZeroCases(t *testing.T) {
	assert.Equal(t, 0.0, priority.ComputePriority(0, 30), "zero exam weight yields zero priority")
	assert.Equal(t, 0.0, priority.ComputePriority(0.7, 100), "full mastery yields zero priority")
}

func TestComputePriority_DecreasingInMastery(t *testing.T) {
	prev := priority.ComputePriority(0.5, 0)
	for m := 10.0; m <= 100; m += 10 {
		cur := priority.ComputePriority(0.5, m)
		assert.Less(t, cur, prev, "priority must strictly decrease as mastery rises (m=%v)", m)
		prev = cur
	}
}

func TestComputePriority_IncreasingInWeight(t *testing.T) {
	assert.Greater(t,
		priority.ComputePriority(0.3, 10),
		priority.ComputePriority(0.1, 0),
		"heavier exam weight with some mastery can outrank zero-mastery light topic")
}

func TestDefaultWeight(t *testing.T) {
	assert.InDelta(t, 0.25, priority.DefaultWeight(4), 1e-9)
	assert.InDelta(t, 0.1, priority.DefaultWeight(0), 1e-9)
}

func TestSelectTeachingMode_Total(t *testing.T) {
	// Every mastery value in [0,100] must map to exactly one mode; walk the
	// whole range including band edges.
	valid := map[string]bool{
		priority.ModeExplain:   true,
		priority.ModeSocratic:  true,
		priority.ModeHypo:      true,
		priority.ModeIssueSpot: true,
		priority.ModeIRAC:      true,
	}
	for m := 0.0; m <= 100.0; m += 0.5 {
		for _, hasExam := range []bool{true, false} {
			mode, reason := priority.SelectTeachingMode(m, hasExam)
			assert.True(t, valid[mode], "unknown mode %q at mastery %v", mode, m)
			assert.NotEmpty(t, reason)
		}
	}
}

func TestSelectTeachingMode_Bands(t *testing.T) {
	tests := []struct {
		mastery     float64
		hasExamData bool
		want        string
	}{
		{0, false, priority.ModeExplain},
		{14.9, false, priority.ModeExplain},
		{15, false, priority.ModeExplain},
		{34.9, true, priority.ModeExplain},
		{35, false, priority.ModeSocratic},
		{54.9, false, priority.ModeSocratic},
		{55, false, priority.ModeHypo},
		{74.9, true, priority.ModeHypo},
		{75, true, priority.ModeIssueSpot},
		{89.9, true, priority.ModeIssueSpot},
		{75, false, priority.ModeIRAC},
		{90, true, priority.ModeIRAC},
		{100, false, priority.ModeIRAC},
	}
	for _, tt := range tests {
		mode, _ := priority.SelectTeachingMode(tt.mastery, tt.hasExamData)
		assert.Equal(t, tt.want, mode, "mastery=%v hasExamData=%v", tt.mastery, tt.hasExamData)
	}
}

func TestEstimateMinutes(t *testing.T) {
	tests := []struct {
		mastery float64
		want    int
	}{
		{0, 50},
		{50, 25},
		{90, 5},  // floor applies: round(5) == 5
		{95, 5},  // round(2.5) would be below floor
		{100, 5}, // floor
		{37, 32}, // round(31.5) == 32
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, priority.EstimateMinutes(tt.mastery), "mastery=%v", tt.mastery)
	}
}
