package traffic

import (
	"math"

	"bikeflow.bluebikes.org/internal/models"
)

// Radius ranges for the marker circles.
var (
	UnfilteredRadiusRange = [2]float64{0, 25}
	FilteredRadiusRange   = [2]float64{3, 50}
)

// FlowLevels are the quantized departure ratios used for marker color.
var FlowLevels = []float64{0, 0.5, 1}

// SqrtScale maps [0, DomainMax] onto [RangeMin, RangeMax] by square root.
type SqrtScale struct {
	DomainMax float64
	RangeMin  float64
	RangeMax  float64
}

// NewRadiusScale picks the radius range from the filter state.
func NewRadiusScale(maxTraffic int, filter models.TimeFilter) SqrtScale {
	r := UnfilteredRadiusRange
	if filter.IsActive() {
		r = FilteredRadiusRange
	}
	return SqrtScale{DomainMax: float64(maxTraffic), RangeMin: r[0], RangeMax: r[1]}
}

// Scale maps v. A degenerate domain maps everything to the middle of the range.
func (s SqrtScale) Scale(v float64) float64 {
	if s.DomainMax <= 0 {
		return (s.RangeMin + s.RangeMax) / 2
	}
	if v < 0 {
		v = 0
	}
	t := math.Sqrt(v) / math.Sqrt(s.DomainMax)
	return s.RangeMin + t*(s.RangeMax-s.RangeMin)
}

// QuantizeFlow splits [0, 1] into len(FlowLevels) equal buckets.
func QuantizeFlow(ratio float64) float64 {
	n := len(FlowLevels)
	i := int(math.Floor(ratio * float64(n)))
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	return FlowLevels[i]
}
