package domain

import "math"

// YearRange is an inclusive release-year window
type YearRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether year lies in the range
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Predicates is the user-adjustable filter set. All predicates are ANDed.
// A nil slice or nil range matches everything; a non-nil empty slice
// matches nothing, like a multiselect with every option cleared.
type Predicates struct {
	Types     []ContentType `json:"types,omitempty" yaml:"types,omitempty"`
	Countries []string      `json:"countries,omitempty" yaml:"countries,omitempty"`
	Years     *YearRange    `json:"years,omitempty" yaml:"years,omitempty"`
}

// FilterOptions lists the values a filter control can offer
type FilterOptions struct {
	Types     []ContentType
	Countries []string
	Genres    []string
	MinYear   int
	MaxYear   int
}

// LabelCount is one (label, count) pair of a ranked sequence
type LabelCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// YearCount is one (year, count) pair of a year-ordered sequence
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// KeyMetrics backs the headline metric cards
type KeyMetrics struct {
	Total   int `json:"total" yaml:"total"`
	Movies  int `json:"movies" yaml:"movies"`
	TVShows int `json:"tv_shows" yaml:"tv_shows"`
}

// CrossTab is a zero-filled contingency table
type CrossTab struct {
	Rows  []string `json:"rows" yaml:"rows"`
	Cols  []string `json:"cols" yaml:"cols"`
	Cells [][]int  `json:"cells" yaml:"cells"`
}

// Cell returns the count at (row, col), or 0 when either label is absent
func (c CrossTab) Cell(row, col string) int {
	ri, ci := indexOf(c.Rows, row), indexOf(c.Cols, col)
	if ri < 0 || ci < 0 {
		return 0
	}
	return c.Cells[ri][ci]
}

// RowTotal sums row i
func (c CrossTab) RowTotal(i int) int {
	total := 0
	for _, v := range c.Cells[i] {
		total += v
	}
	return total
}

// ColTotal sums column j
func (c CrossTab) ColTotal(j int) int {
	total := 0
	for _, row := range c.Cells {
		total += row[j]
	}
	return total
}

// Total sums every cell
func (c CrossTab) Total() int {
	total := 0
	for i := range c.Cells {
		total += c.RowTotal(i)
	}
	return total
}

// DurationSeries holds raw magnitudes for histogram rendering.
// Skipped lists records left out because their duration did not parse.
type DurationSeries struct {
	Unit    DurationUnit              `json:"unit" yaml:"unit"`
	Values  []int                     `json:"values" yaml:"values"`
	Skipped []*MalformedDurationError `json:"-" yaml:"-"`
}

// Histogram is a set of equal-width bins. Edges has len(Counts)+1 entries.
type Histogram struct {
	Edges  []float64 `json:"edges" yaml:"edges"`
	Counts []int     `json:"counts" yaml:"counts"`
}

// BoxStats summarizes one group for a box plot (Tukey fences at 1.5 IQR)
type BoxStats struct {
	Group       string       `json:"group" yaml:"group"`
	Unit        DurationUnit `json:"unit" yaml:"unit"`
	N           int          `json:"n" yaml:"n"`
	Min         float64      `json:"min" yaml:"min"`
	Q1          float64      `json:"q1" yaml:"q1"`
	Median      float64      `json:"median" yaml:"median"`
	Q3          float64      `json:"q3" yaml:"q3"`
	Max         float64      `json:"max" yaml:"max"`
	LowerFence  float64      `json:"lower_fence" yaml:"lower_fence"`
	UpperFence  float64      `json:"upper_fence" yaml:"upper_fence"`
	WhiskerLow  float64      `json:"whisker_low" yaml:"whisker_low"`
	WhiskerHigh float64      `json:"whisker_high" yaml:"whisker_high"`
	Outliers    []float64    `json:"outliers,omitempty" yaml:"outliers,omitempty"`
}

// CorrelationMatrix is a square Pearson matrix. Undefined cells are NaN.
type CorrelationMatrix struct {
	Labels []string    `json:"labels" yaml:"labels"`
	Values [][]float64 `json:"-" yaml:"-"`
}

// At returns the coefficient for labels i and j
func (m CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Defined reports whether the (i, j) coefficient exists
func (m CorrelationMatrix) Defined(i, j int) bool {
	return !math.IsNaN(m.Values[i][j])
}

// Rows returns the matrix with undefined cells as nil, for serializers
// that cannot carry NaN.
func (m CorrelationMatrix) Rows() [][]*float64 {
	rows := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		rows[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				rows[i][j] = &v
			}
		}
	}
	return rows
}

// ScatterPoint is one title plotted as duration against release year
type ScatterPoint struct {
	ReleaseYear int         `json:"release_year" yaml:"release_year"`
	Duration    Duration    `json:"duration" yaml:"duration"`
	Type        ContentType `json:"type" yaml:"type"`
}

// ColumnSummary is one row of a describe-style statistical summary.
// Text columns fill Unique/Top/Freq; numeric columns fill the moments.
type ColumnSummary struct {
	Column  string   `json:"column" yaml:"column"`
	Count   int      `json:"count" yaml:"count"`
	Numeric bool     `json:"numeric" yaml:"numeric"`
	Unique  int      `json:"unique,omitempty" yaml:"unique,omitempty"`
	Top     string   `json:"top,omitempty" yaml:"top,omitempty"`
	Freq    int      `json:"freq,omitempty" yaml:"freq,omitempty"`
	Mean    *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Std     *float64 `json:"std,omitempty" yaml:"std,omitempty"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	P25     *float64 `json:"p25,omitempty" yaml:"p25,omitempty"`
	P50     *float64 `json:"p50,omitempty" yaml:"p50,omitempty"`
	P75     *float64 `json:"p75,omitempty" yaml:"p75,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
