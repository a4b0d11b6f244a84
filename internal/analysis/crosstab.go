package analysis

import (
	"sort"

	"github.com/mmcdole/kinostat/internal/domain"
)

// CountryTypeCrossTab splits each top country by content type
func CountryTypeCrossTab(view []domain.Title, top []domain.LabelCount) domain.CrossTab {
	return crossTab(view, top, func(t domain.Title) []string { return []string{t.Country} })
}

// GenreTypeCrossTab counts genre occurrences by content type, restricted
// to the top genres.
func GenreTypeCrossTab(view []domain.Title, top []domain.LabelCount) domain.CrossTab {
	return crossTab(view, top, func(t domain.Title) []string { return t.Genres })
}

// RatingTypeCrossTab splits each top rating by content type
func RatingTypeCrossTab(view []domain.Title, top []domain.LabelCount) domain.CrossTab {
	return crossTab(view, top, func(t domain.Title) []string { return []string{t.Rating} })
}

// crossTab builds a zero-filled label x content-type table. Rows follow
// the rank order of top; columns are the sorted content types present in
// the restricted subset.
func crossTab(view []domain.Title, top []domain.LabelCount, labels func(domain.Title) []string) domain.CrossTab {
	rowIdx := make(map[string]int, len(top))
	ct := domain.CrossTab{
		Rows: make([]string, 0, len(top)),
		Cols: []string{},
	}
	for _, lc := range top {
		if _, dup := rowIdx[lc.Label]; dup {
			continue
		}
		rowIdx[lc.Label] = len(ct.Rows)
		ct.Rows = append(ct.Rows, lc.Label)
	}

	type hit struct {
		row int
		col string
	}
	var hits []hit
	present := make(map[string]bool)
	for _, t := range view {
		for _, label := range labels(t) {
			i, ok := rowIdx[label]
			if !ok {
				continue
			}
			col := t.Type.String()
			hits = append(hits, hit{row: i, col: col})
			if !present[col] {
				present[col] = true
				ct.Cols = append(ct.Cols, col)
			}
		}
	}
	sort.Strings(ct.Cols)

	colIdx := make(map[string]int, len(ct.Cols))
	for j, col := range ct.Cols {
		colIdx[col] = j
	}
	ct.Cells = make([][]int, len(ct.Rows))
	for i := range ct.Cells {
		ct.Cells[i] = make([]int, len(ct.Cols))
	}
	for _, h := range hits {
		ct.Cells[h.row][colIdx[h.col]]++
	}

	return ct
}
