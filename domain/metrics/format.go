package metrics

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration renders a duration in a human-readable form:
// sub-millisecond durations as fractional milliseconds, sub-second as
// whole milliseconds, sub-minute as seconds, and anything longer as
// minutes plus fractional seconds.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 0.001:
		return fmt.Sprintf("%.2fms", seconds*1000)
	case seconds < 1:
		return fmt.Sprintf("%.0fms", seconds*1000)
	case seconds < 60:
		return fmt.Sprintf("%.2fs", seconds)
	default:
		minutes := int(seconds) / 60
		return fmt.Sprintf("%dm %.1fs", minutes, seconds-float64(minutes*60))
	}
}

// Band is a qualitative rating for a metric value.
type Band string

// Qualitative bands. BandNone is returned for unknown metrics and for
// values outside every threshold range.
const (
	BandGood Band = "Good"
	BandFair Band = "Fair"
	BandPoor Band = "Poor"
	BandNone Band = ""
)

type bandRange struct {
	band Band
	min  float64
	max  float64
}

// Per-metric thresholds. Ranges are half-open [min, max).
var bandThresholds = map[string][]bandRange{
	"avg_similarity": {
		{BandGood, 0.7, math.Inf(1)},
		{BandFair, 0.5, 0.7},
		{BandPoor, 0, 0.5},
	},
	"diversity": {
		{BandGood, 0.6, math.Inf(1)},
		{BandFair, 0.4, 0.6},
		{BandPoor, 0, 0.4},
	},
	"vocabulary_richness": {
		{BandGood, 0.7, math.Inf(1)},
		{BandFair, 0.5, 0.7},
		{BandPoor, 0, 0.5},
	},
}

// QualitativeBand rates a metric value against the per-metric threshold
// table. Unknown metric names return BandNone, never an error.
func QualitativeBand(metricName string, value float64) Band {
	ranges, ok := bandThresholds[metricName]
	if !ok {
		return BandNone
	}
	for _, r := range ranges {
		if value >= r.min && value < r.max {
			return r.band
		}
	}
	return BandNone
}
