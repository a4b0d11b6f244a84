package analysis

import (
	"math"

	"github.com/mmcdole/kinostat/internal/domain"
)

// Numeric columns of the correlation matrix. Duration is split by unit so
// minutes and seasons are never correlated as one column.
var correlationColumns = []string{
	"release_year",
	"year_added",
	"month_added",
	"day_added",
	"duration_minutes",
	"duration_seasons",
}

// CorrelationNote labels the matrix wherever it is shown or exported
const CorrelationNote = "duration_minutes and duration_seasons replace a single duration_minutes_or_seasons column; minutes and seasons are not correlated as one unit"

// Correlation computes the pairwise Pearson matrix of the numeric columns.
// Each pair uses only the titles where both values are present. A pair
// with fewer than two observations or a constant side is NaN, so the
// diagonal is 1 exactly for the non-constant columns.
func Correlation(view []domain.Title) domain.CorrelationMatrix {
	k := len(correlationColumns)
	cols := make([][]float64, k)
	for i := range cols {
		cols[i] = make([]float64, len(view))
	}

	for r, t := range view {
		cols[0][r] = float64(t.ReleaseYear)
		cols[1][r] = float64(t.YearAdded)
		cols[2][r] = float64(t.MonthAdded)
		cols[3][r] = float64(t.DayAdded)
		cols[4][r] = math.NaN()
		cols[5][r] = math.NaN()
		if d, err := t.ParsedDuration(); err == nil {
			if d.Unit == domain.UnitMinutes {
				cols[4][r] = float64(d.Value)
			} else {
				cols[5][r] = float64(d.Value)
			}
		}
	}

	m := domain.CorrelationMatrix{
		Labels: append([]string(nil), correlationColumns...),
		Values: make([][]float64, k),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			r := pearson(cols[i], cols[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	return m
}

// pearson correlates x and y over the indexes where neither is NaN
func pearson(x, y []float64) float64 {
	var n, sx, sy float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		n++
		sx += x[i]
		sy += y[i]
	}
	if n < 2 {
		return math.NaN()
	}
	mx, my := sx/n, sy/n

	var cov, vx, vy float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}

	r := cov / math.Sqrt(vx*vy)
	return math.Max(-1, math.Min(1, r))
}
