package domain

// Trend classifies a (delta, delta-of-delta) pair into one of six states.
type Trend string

const (
	TrendWorseningAccelerating Trend = "worsening-accelerating"
	TrendWorseningSteady       Trend = "worsening-steady"
	TrendWorseningDecelerating Trend = "worsening-decelerating"
	TrendImprovingAccelerating Trend = "improving-accelerating"
	TrendImprovingSteady       Trend = "improving-steady"
	TrendImprovingDecelerating Trend = "improving-decelerating"
)

// ClassifyTrend maps the first and second weekly differences to a trend
// state. delta <= 0 counts as improving: a flat week is good news. The
// asymmetry with the strict three-way split on deltaOfDelta is intentional.
func ClassifyTrend(delta, deltaOfDelta int64) Trend {
	if delta > 0 {
		switch {
		case deltaOfDelta > 0:
			return TrendWorseningAccelerating
		case deltaOfDelta < 0:
			return TrendWorseningDecelerating
		default:
			return TrendWorseningSteady
		}
	}

	switch {
	case deltaOfDelta > 0:
		return TrendImprovingAccelerating
	case deltaOfDelta < 0:
		return TrendImprovingDecelerating
	default:
		return TrendImprovingSteady
	}
}
