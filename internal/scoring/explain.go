package scoring

import (
	"slices"

	"github.com/danielpatrickdp/fatafat-forecast/internal/analysis"
)

// trendTail is how far back the recent-trend label looks.
const trendTail = 3

// Explain picks the label for the top digit of dist. Hot membership wins
// over a recent appearance.
func Explain(dist Distribution, snap *analysis.Snapshot) Method {
	top := dist.TopDigit
	switch {
	case snap.Frequency.IsHot(top):
		return MethodHotNumber
	case slices.Contains(snap.Recent(trendTail), top):
		return MethodRecentTrend
	default:
		return MethodStatistical
	}
}
