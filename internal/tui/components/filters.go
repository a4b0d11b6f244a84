package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinostat/internal/analysis"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/search"
	"github.com/mmcdole/kinostat/internal/tui/styles"
)

// Section is one filter control in the sidebar
type Section int

const (
	SectionTypes Section = iota
	SectionCountries
	SectionYears
	SectionGenres
	sectionCount
)

// String returns the section heading
func (s Section) String() string {
	switch s {
	case SectionTypes:
		return "Type"
	case SectionCountries:
		return "Country"
	case SectionYears:
		return "Release year"
	case SectionGenres:
		return "Genre"
	default:
		return ""
	}
}

// FilterPanel is the sidebar holding every filter control: a type
// multiselect, a fuzzy-findable country multiselect, the release-year
// range and the genre picker.
type FilterPanel struct {
	opts      domain.FilterOptions
	types     map[domain.ContentType]bool
	countries map[string]bool
	years     domain.YearRange

	genres []string // genres offered by the current view
	genre  string

	section Section
	cursor  [sectionCount]int

	index     *search.Index
	matches   []search.Match
	query     textinput.Model
	filtering bool
}

// NewFilterPanel creates a panel with every option selected
func NewFilterPanel(opts domain.FilterOptions) FilterPanel {
	all := analysis.AllOf(opts)

	ti := textinput.New()
	ti.Placeholder = "Find country..."
	ti.CharLimit = 60
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	p := FilterPanel{
		opts:      opts,
		types:     make(map[domain.ContentType]bool, len(all.Types)),
		countries: make(map[string]bool, len(all.Countries)),
		years:     *all.Years,
		genres:    opts.Genres,
		index:     search.NewIndex(opts.Countries),
		query:     ti,
	}
	for _, t := range all.Types {
		p.types[t] = true
	}
	for _, c := range all.Countries {
		p.countries[c] = true
	}
	p.matches = p.index.Filter("")
	return p
}

// Predicates returns the active filter set. A control with every option
// selected contributes no predicate.
func (p FilterPanel) Predicates() domain.Predicates {
	var pred domain.Predicates

	if types := p.selectedTypes(); len(types) != len(p.opts.Types) {
		pred.Types = types
	}
	if countries := p.selectedCountries(); len(countries) != len(p.opts.Countries) {
		pred.Countries = countries
	}
	if p.years.Min != p.opts.MinYear || p.years.Max != p.opts.MaxYear {
		years := p.years
		pred.Years = &years
	}
	return pred
}

func (p FilterPanel) selectedTypes() []domain.ContentType {
	out := []domain.ContentType{}
	for _, t := range p.opts.Types {
		if p.types[t] {
			out = append(out, t)
		}
	}
	return out
}

func (p FilterPanel) selectedCountries() []string {
	out := []string{}
	for _, c := range p.opts.Countries {
		if p.countries[c] {
			out = append(out, c)
		}
	}
	return out
}

// Apply replaces the selection with pred and genre. A nil predicate
// selects every option of its control.
func (p *FilterPanel) Apply(pred domain.Predicates, genre string) {
	for _, t := range p.opts.Types {
		p.types[t] = pred.Types == nil || slices.Contains(pred.Types, t)
	}
	for _, c := range p.opts.Countries {
		p.countries[c] = pred.Countries == nil || slices.Contains(pred.Countries, c)
	}
	p.years = domain.YearRange{Min: p.opts.MinYear, Max: p.opts.MaxYear}
	if y := pred.Years; y != nil {
		p.years.Min = max(p.opts.MinYear, min(y.Min, p.opts.MaxYear))
		p.years.Max = min(p.opts.MaxYear, max(y.Max, p.years.Min))
	}
	p.genre = genre
}

// Genre returns the picked genre, "" for the view's default
func (p FilterPanel) Genre() string { return p.genre }

// Years returns the selected release-year range
func (p FilterPanel) Years() domain.YearRange { return p.years }

// Section returns the focused control
func (p FilterPanel) Section() Section { return p.section }

// Filtering reports whether the country finder has keyboard focus
func (p FilterPanel) Filtering() bool { return p.filtering }

// SetGenres replaces the genre choices with those of the current view.
// active is the genre the dashboard actually used.
func (p *FilterPanel) SetGenres(genres []string, active string) {
	p.genres = genres
	p.genre = active
	for i, g := range genres {
		if g == active {
			p.cursor[SectionGenres] = i
			return
		}
	}
	p.clampCursor()
}

// NextSection moves focus to the next control, wrapping around
func (p *FilterPanel) NextSection() {
	p.section = (p.section + 1) % sectionCount
}

// PrevSection moves focus to the previous control, wrapping around
func (p *FilterPanel) PrevSection() {
	p.section = (p.section + sectionCount - 1) % sectionCount
}

// Move shifts the cursor of the focused control by delta
func (p *FilterPanel) Move(delta int) {
	p.cursor[p.section] += delta
	p.clampCursor()
}

func (p *FilterPanel) itemCount(s Section) int {
	switch s {
	case SectionTypes:
		return len(p.opts.Types)
	case SectionCountries:
		return len(p.matches)
	case SectionGenres:
		return len(p.genres)
	default:
		return 0
	}
}

func (p *FilterPanel) clampCursor() {
	for s := Section(0); s < sectionCount; s++ {
		n := p.itemCount(s)
		p.cursor[s] = max(0, min(p.cursor[s], n-1))
	}
}

// Toggle flips the option under the cursor, or picks it for the genre
// control. It reports whether the selection changed.
func (p *FilterPanel) Toggle() bool {
	i := p.cursor[p.section]
	switch p.section {
	case SectionTypes:
		if i < len(p.opts.Types) {
			t := p.opts.Types[i]
			p.types[t] = !p.types[t]
			return true
		}
	case SectionCountries:
		if i < len(p.matches) {
			c := p.matches[i].Value
			p.countries[c] = !p.countries[c]
			return true
		}
	case SectionGenres:
		if i < len(p.genres) && p.genres[i] != p.genre {
			p.genre = p.genres[i]
			return true
		}
	}
	return false
}

// SetAll selects or clears every visible option of the focused control.
// For countries only the current finder matches are affected.
func (p *FilterPanel) SetAll(on bool) bool {
	changed := false
	switch p.section {
	case SectionTypes:
		for _, t := range p.opts.Types {
			changed = changed || p.types[t] != on
			p.types[t] = on
		}
	case SectionCountries:
		for _, m := range p.matches {
			changed = changed || p.countries[m.Value] != on
			p.countries[m.Value] = on
		}
	}
	return changed
}

// AdjustYears shifts the range bounds, keeping min <= max inside the
// dataset's bounds. It reports whether the range changed.
func (p *FilterPanel) AdjustYears(minDelta, maxDelta int) bool {
	before := p.years
	p.years.Min = max(p.opts.MinYear, min(p.years.Min+minDelta, p.years.Max))
	p.years.Max = min(p.opts.MaxYear, max(p.years.Max+maxDelta, p.years.Min))
	return p.years != before
}

// StartFilter focuses the country finder
func (p *FilterPanel) StartFilter() tea.Cmd {
	p.section = SectionCountries
	p.filtering = true
	return p.query.Focus()
}

// StopFilter releases the finder. reset also drops the query so every
// country is listed again.
func (p *FilterPanel) StopFilter(reset bool) {
	p.filtering = false
	p.query.Blur()
	if reset {
		p.query.SetValue("")
		p.refilter()
	}
}

// UpdateQuery feeds a key to the finder and re-ranks the countries
func (p FilterPanel) UpdateQuery(msg tea.Msg) (FilterPanel, tea.Cmd) {
	before := p.query.Value()
	var cmd tea.Cmd
	p.query, cmd = p.query.Update(msg)
	if p.query.Value() != before {
		p.refilter()
	}
	return p, cmd
}

// Query returns the finder text
func (p FilterPanel) Query() string { return p.query.Value() }

// VisibleCountries returns the countries the finder currently lists
func (p FilterPanel) VisibleCountries() []string {
	out := make([]string, len(p.matches))
	for i, m := range p.matches {
		out[i] = m.Value
	}
	return out
}

func (p *FilterPanel) refilter() {
	p.matches = p.index.Filter(p.query.Value())
	p.cursor[SectionCountries] = 0
}

// View renders the panel to exactly width x height cells
func (p FilterPanel) View(width, height int) string {
	style := styles.InactiveBorder
	if p.filtering {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	inner := width - frameW - 2

	typeRows := len(p.opts.Types)
	genreRows := min(len(p.genres), 6)
	fixed := 1 + 1 + typeRows + 1 + 1 + 2 + 1 + genreRows + 4
	if p.filtering {
		fixed++
	}
	countryRows := max(3, height-frameH-fixed)

	var lines []string
	lines = append(lines, styles.TitleStyle.Render("FILTERS"))

	lines = append(lines, p.header(SectionTypes, fmt.Sprintf("(%d/%d)", len(p.selectedTypes()), len(p.opts.Types))))
	for i, t := range p.opts.Types {
		lines = append(lines, p.item(SectionTypes, i, p.check(p.types[t])+" "+t.String(), inner))
	}
	lines = append(lines, "")

	lines = append(lines, p.header(SectionCountries, fmt.Sprintf("(%d/%d)", len(p.selectedCountries()), len(p.opts.Countries))))
	if p.filtering || p.query.Value() != "" {
		lines = append(lines, p.query.View())
	}
	start, end := window(p.cursor[SectionCountries], len(p.matches), countryRows)
	for i := start; i < end; i++ {
		m := p.matches[i]
		label := highlight(styles.Truncate(m.Value, inner-4), m.MatchedIndexes)
		lines = append(lines, p.item(SectionCountries, i, p.check(p.countries[m.Value])+" "+label, inner))
	}
	if len(p.matches) == 0 {
		lines = append(lines, styles.DimStyle.Render(" no matches"))
	}
	lines = append(lines, "")

	lines = append(lines, p.header(SectionYears, ""))
	lines = append(lines, fmt.Sprintf(" %d - %d", p.years.Min, p.years.Max))
	lines = append(lines, styles.DimStyle.Render(fmt.Sprintf(" [ ] min   { } max  (%d-%d)", p.opts.MinYear, p.opts.MaxYear)))
	lines = append(lines, "")

	lines = append(lines, p.header(SectionGenres, ""))
	start, end = window(p.cursor[SectionGenres], len(p.genres), genreRows)
	for i := start; i < end; i++ {
		mark := "( )"
		if p.genres[i] == p.genre {
			mark = styles.CheckedStyle.Render("(*)")
		}
		lines = append(lines, p.item(SectionGenres, i, mark+" "+p.genres[i], inner))
	}

	return style.
		Width(width - frameW).
		Height(height - frameH).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (p FilterPanel) header(s Section, suffix string) string {
	marker, style := "  ", styles.SubtitleStyle
	if s == p.section {
		marker, style = "> ", styles.HeadingStyle
	}
	text := style.Render(marker + s.String())
	if suffix != "" {
		text += " " + styles.DimStyle.Render(suffix)
	}
	return text
}

func (p FilterPanel) item(s Section, i int, text string, width int) string {
	line := " " + text
	if s == p.section && i == p.cursor[s] {
		return styles.SelectedItemStyle.Width(width).Render(line)
	}
	return styles.NormalItemStyle.Render(line)
}

func (p FilterPanel) check(on bool) string {
	if on {
		return styles.CheckedStyle.Render(styles.CheckOn)
	}
	return styles.DimStyle.Render(styles.CheckOff)
}

// window returns the [start, end) slice of n rows that keeps cursor
// visible in a viewport of size rows.
func window(cursor, n, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := max(0, min(cursor-rows/2, n-rows))
	return start, start + rows
}

// highlight renders the matched byte positions of s in the accent style
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
