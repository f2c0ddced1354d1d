package domain

import "testing"

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name         string
		delta        int64
		deltaOfDelta int64
		want         Trend
	}{
		{"rising and speeding up", 100, 20, TrendWorseningAccelerating},
		{"rising at constant pace", 100, 0, TrendWorseningSteady},
		{"rising but slowing down", 100, -20, TrendWorseningDecelerating},
		{"falling and speeding up", -100, 20, TrendImprovingAccelerating},
		{"falling at constant pace", -100, 0, TrendImprovingSteady},
		{"falling and slowing down", -100, -20, TrendImprovingDecelerating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTrend(tt.delta, tt.deltaOfDelta)
			if got != tt.want {
				t.Fatalf("ClassifyTrend(%d, %d) = %s, want %s", tt.delta, tt.deltaOfDelta, got, tt.want)
			}
		})
	}
}

func TestClassifyTrend_FlatWeekIsImproving(t *testing.T) {
	// A zero delta counts as improving even when the second difference
	// points upward.
	if got := ClassifyTrend(0, 50); got != TrendImprovingAccelerating {
		t.Fatalf("ClassifyTrend(0, 50) = %s, want %s", got, TrendImprovingAccelerating)
	}
	if got := ClassifyTrend(0, 0); got != TrendImprovingSteady {
		t.Fatalf("ClassifyTrend(0, 0) = %s, want %s", got, TrendImprovingSteady)
	}
}
