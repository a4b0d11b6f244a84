package analysis

import (
	"math"
	"sort"

	"github.com/mmcdole/kinostat/internal/domain"
)

// DefaultBins is the bin count of every duration histogram
const DefaultBins = 30

// whiskerIQR is the Tukey fence multiplier
const whiskerIQR = 1.5

// Quantile returns the p-quantile of sorted values using linear
// interpolation between closest ranks. sorted must be non-empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Box computes box-plot statistics for one group of samples. Whiskers
// reach the most extreme samples inside the fences; the rest are outliers.
// An empty sample yields N == 0 and zero statistics.
func Box(group string, unit domain.DurationUnit, samples []float64) domain.BoxStats {
	b := domain.BoxStats{Group: group, Unit: unit, N: len(samples)}
	if len(samples) == 0 {
		return b
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	b.Min = sorted[0]
	b.Max = sorted[len(sorted)-1]
	b.Q1 = Quantile(sorted, 0.25)
	b.Median = Quantile(sorted, 0.5)
	b.Q3 = Quantile(sorted, 0.75)

	iqr := b.Q3 - b.Q1
	b.LowerFence = b.Q1 - whiskerIQR*iqr
	b.UpperFence = b.Q3 + whiskerIQR*iqr

	b.WhiskerLow, b.WhiskerHigh = b.Max, b.Min
	for _, v := range sorted {
		if v < b.LowerFence || v > b.UpperFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.WhiskerLow = math.Min(b.WhiskerLow, v)
		b.WhiskerHigh = math.Max(b.WhiskerHigh, v)
	}

	return b
}

// HistogramOf bins values into equal-width bins over [min, max]. Every bin
// is half-open except the last, which includes max. When all values are
// equal the range is widened to [v-0.5, v+0.5]. bins < 1 uses DefaultBins.
func HistogramOf(values []int, bins int) domain.Histogram {
	if bins < 1 {
		bins = DefaultBins
	}
	if len(values) == 0 {
		return domain.Histogram{Edges: []float64{}, Counts: []int{}}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	first, last := float64(lo), float64(hi)
	if lo == hi {
		first, last = first-0.5, last+0.5
	}

	width := (last - first) / float64(bins)
	h := domain.Histogram{
		Edges:  make([]float64, bins+1),
		Counts: make([]int, bins),
	}
	for i := range h.Edges {
		h.Edges[i] = first + float64(i)*width
	}
	h.Edges[bins] = last

	for _, v := range values {
		i := int((float64(v) - first) / width)
		if i >= bins {
			i = bins - 1
		}
		h.Counts[i]++
	}

	return h
}

// meanStd returns the mean and the sample standard deviation. ok is false
// for the deviation when fewer than two values are given.
func meanStd(values []float64) (mean, std float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) < 2 {
		return mean, 0, false
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)-1)), true
}
