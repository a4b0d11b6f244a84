package analysis

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/mmcdole/kinostat/internal/domain"
)

func title(name string, typ domain.ContentType, country string, year int, rating, duration string, genres ...string) domain.Title {
	added := time.Date(2019+len(name)%3, time.Month(1+len(name)%12), 1+len(name)%28, 0, 0, 0, 0, time.UTC)
	return domain.Title{
		Title:       name,
		Type:        typ,
		Director:    "Director " + name,
		Cast:        "Actor A, Actor " + name,
		Country:     country,
		DateAdded:   added,
		YearAdded:   added.Year(),
		MonthAdded:  int(added.Month()),
		DayAdded:    added.Day(),
		ReleaseYear: year,
		Rating:      rating,
		Duration:    duration,
		Genres:      genres,
		Description: "about " + name,
	}
}

// threeTitles is the worked example: two Indian movies and one US show
func threeTitles() []domain.Title {
	return []domain.Title{
		title("One", domain.ContentTypeMovie, "India", 2015, "TV-MA", "120 min", "Dramas"),
		title("Two", domain.ContentTypeMovie, "India", 2015, "TV-MA", "90 min", "Comedies"),
		title("Three", domain.ContentTypeTVShow, "USA", 2020, "TV-14", "2 Seasons", "Dramas"),
	}
}

func TestFilterByCountry(t *testing.T) {
	titles := threeTitles()
	view := Filter(titles, domain.Predicates{Countries: []string{"India"}})

	if len(view) != 2 || view[0].Title != "One" || view[1].Title != "Two" {
		t.Fatalf("view = %v, want the two Indian titles", names(view))
	}

	if got, want := TopCountries(view, DefaultTopN), []domain.LabelCount{{Label: "India", Count: 2}}; !reflect.DeepEqual(got, want) {
		t.Errorf("TopCountries = %v, want %v", got, want)
	}
	want := []domain.LabelCount{{Label: "Dramas", Count: 1}, {Label: "Comedies", Count: 1}}
	if got := TopGenres(view, DefaultTopN); !reflect.DeepEqual(got, want) {
		t.Errorf("TopGenres = %v, want %v", got, want)
	}
}

func TestFilterPredicates(t *testing.T) {
	titles := threeTitles()
	incomplete := title("Four", domain.ContentTypeMovie, "India", 2016, "R", "100 min", "Dramas")
	incomplete.Director = ""
	titles = append(titles, incomplete)

	tests := []struct {
		name string
		p    domain.Predicates
		want []string
	}{
		{"nil matches all complete", domain.Predicates{}, []string{"One", "Two", "Three"}},
		{"types", domain.Predicates{Types: []domain.ContentType{domain.ContentTypeTVShow}}, []string{"Three"}},
		{"empty types match none", domain.Predicates{Types: []domain.ContentType{}}, []string{}},
		{"empty countries match none", domain.Predicates{Countries: []string{}}, []string{}},
		{"year range inclusive", domain.Predicates{Years: &domain.YearRange{Min: 2016, Max: 2020}}, []string{"Three"}},
		{"anded", domain.Predicates{
			Types:     []domain.ContentType{domain.ContentTypeMovie},
			Countries: []string{"USA"},
		}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Filter(titles, tt.p)
			if got := names(view); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Filter = %v, want %v", got, tt.want)
			}
			for _, v := range view {
				if !Complete(v) || !Matches(v, tt.p) {
					t.Errorf("%q in view violates a predicate", v.Title)
				}
			}
		})
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	titles := threeTitles()
	before := append([]domain.Title(nil), titles...)
	Filter(titles, domain.Predicates{Countries: []string{"USA"}})
	if !reflect.DeepEqual(titles, before) {
		t.Fatal("Filter modified its input")
	}
}

func TestOptions(t *testing.T) {
	titles := threeTitles()
	titles = append(titles, title("Four", domain.ContentTypeMovie, "Brazil", 1999, "R", "80 min", "Action", "Dramas"))
	opts := Options(titles)

	if want := []domain.ContentType{domain.ContentTypeMovie, domain.ContentTypeTVShow}; !reflect.DeepEqual(opts.Types, want) {
		t.Errorf("Types = %v, want %v", opts.Types, want)
	}
	if want := []string{"Brazil", "India", "USA"}; !reflect.DeepEqual(opts.Countries, want) {
		t.Errorf("Countries = %v, want %v", opts.Countries, want)
	}
	if opts.MinYear != 1999 || opts.MaxYear != 2020 {
		t.Errorf("years = %d..%d, want 1999..2020", opts.MinYear, opts.MaxYear)
	}
	if want := []string{"Action", "Comedies", "Dramas"}; !reflect.DeepEqual(opts.Genres, want) {
		t.Errorf("Genres = %v, want %v", opts.Genres, want)
	}

	all := Filter(titles, AllOf(opts))
	if len(all) != len(titles) {
		t.Errorf("AllOf selected %d titles, want %d", len(all), len(titles))
	}
}

func TestEmptyViewIsTotal(t *testing.T) {
	var view []domain.Title

	if m := Metrics(view); m != (domain.KeyMetrics{}) {
		t.Errorf("Metrics = %+v, want zero", m)
	}
	if got := CountsByReleaseYear(view); len(got) != 0 {
		t.Errorf("CountsByReleaseYear = %v", got)
	}
	if got := CountsByYearAdded(view); len(got) != 0 {
		t.Errorf("CountsByYearAdded = %v", got)
	}
	for name, got := range map[string][]domain.LabelCount{
		"countries":          TopCountries(view, 10),
		"genres":             TopGenres(view, 10),
		"ratings":            TopRatings(view, 10),
		"directors":          TopDirectors(view, 10),
		"actors":             TopActors(view, 10),
		"directors in genre": TopDirectorsInGenre(view, "Dramas", 10),
	} {
		if len(got) != 0 {
			t.Errorf("%s = %v, want empty", name, got)
		}
	}
	if ct := CountryTypeCrossTab(view, nil); len(ct.Rows) != 0 || ct.Total() != 0 {
		t.Errorf("cross tab = %+v, want empty", ct)
	}
	if s := MovieDurations(view); len(s.Values) != 0 || len(s.Skipped) != 0 {
		t.Errorf("MovieDurations = %+v", s)
	}
	if b := DurationBoxByType(view); len(b) != 0 {
		t.Errorf("DurationBoxByType = %+v", b)
	}
	if h := HistogramOf(nil, DefaultBins); len(h.Counts) != 0 {
		t.Errorf("HistogramOf = %+v", h)
	}
	m := Correlation(view)
	for i := range m.Labels {
		for j := range m.Labels {
			if m.Defined(i, j) {
				t.Errorf("correlation (%d,%d) defined on empty view", i, j)
			}
		}
	}
	if d := Describe(view); len(d) == 0 {
		t.Error("Describe returned no columns")
	}
}

func TestCountsByYear(t *testing.T) {
	titles := threeTitles()
	titles[2].YearAdded = 2018

	want := []domain.YearCount{{Year: 2015, Count: 2}, {Year: 2020, Count: 1}}
	if got := CountsByReleaseYear(titles); !reflect.DeepEqual(got, want) {
		t.Errorf("CountsByReleaseYear = %v, want %v", got, want)
	}

	added := CountsByYearAdded(titles)
	total := 0
	for i, yc := range added {
		total += yc.Count
		if i > 0 && added[i-1].Year >= yc.Year {
			t.Errorf("CountsByYearAdded not ascending: %v", added)
		}
	}
	if total != len(titles) {
		t.Errorf("CountsByYearAdded sums to %d, want %d", total, len(titles))
	}
	if added[0].Year != 2018 {
		t.Errorf("first added year = %d, want 2018", added[0].Year)
	}
}

func TestTopNTruncatesAndBreaksTiesByAppearance(t *testing.T) {
	var titles []domain.Title
	for i := 0; i < 12; i++ {
		titles = append(titles, title(fmt.Sprintf("t%d", i), domain.ContentTypeMovie, fmt.Sprintf("C%02d", i), 2000, "R", "90 min", "Dramas"))
	}
	titles = append(titles, title("extra", domain.ContentTypeMovie, "C05", 2000, "R", "90 min", "Dramas"))

	got := TopCountries(titles, 0)
	if len(got) != DefaultTopN {
		t.Fatalf("got %d countries, want %d", len(got), DefaultTopN)
	}
	if got[0] != (domain.LabelCount{Label: "C05", Count: 2}) {
		t.Errorf("first = %v, want C05 x2", got[0])
	}
	if got[1].Label != "C00" || got[9].Label != "C09" {
		t.Errorf("ties not in appearance order: %v", got)
	}
}

func TestGenreCountsSumToPairs(t *testing.T) {
	titles := threeTitles()
	titles = append(titles, title("Four", domain.ContentTypeTVShow, "USA", 2021, "TV-MA", "1 Season", "Dramas", "Comedies", "Thrillers"))

	pairs := 0
	for _, tt := range titles {
		pairs += len(tt.Genres)
	}
	sum := 0
	for _, lc := range TopGenres(titles, 100) {
		sum += lc.Count
	}
	if sum != pairs {
		t.Errorf("genre counts sum to %d, want %d pairs", sum, pairs)
	}
}

func TestCrossTabs(t *testing.T) {
	titles := threeTitles()
	titles = append(titles, title("Four", domain.ContentTypeTVShow, "India", 2021, "TV-MA", "1 Season", "Dramas", "Comedies"))

	t.Run("country", func(t *testing.T) {
		top := TopCountries(titles, 1)
		ct := CountryTypeCrossTab(titles, top)
		if !reflect.DeepEqual(ct.Rows, []string{"India"}) {
			t.Fatalf("rows = %v, want [India]", ct.Rows)
		}
		if !reflect.DeepEqual(ct.Cols, []string{"Movie", "TV Show"}) {
			t.Fatalf("cols = %v", ct.Cols)
		}
		if ct.Cell("India", "Movie") != 2 || ct.Cell("India", "TV Show") != 1 {
			t.Errorf("cells = %v", ct.Cells)
		}
		if ct.Total() != 3 {
			t.Errorf("total = %d, want 3 restricted records", ct.Total())
		}
	})

	t.Run("genre counts occurrences", func(t *testing.T) {
		top := TopGenres(titles, 2)
		ct := GenreTypeCrossTab(titles, top)
		if !reflect.DeepEqual(ct.Rows, []string{"Dramas", "Comedies"}) {
			t.Fatalf("rows = %v", ct.Rows)
		}
		if ct.Cell("Dramas", "TV Show") != 2 || ct.Cell("Comedies", "Movie") != 1 {
			t.Errorf("cells = %v", ct.Cells)
		}
		if ct.Total() != 5 {
			t.Errorf("total = %d, want 5 occurrences", ct.Total())
		}
	})

	t.Run("rating zero filled", func(t *testing.T) {
		top := TopRatings(titles, DefaultTopN)
		ct := RatingTypeCrossTab(titles, top)
		if ct.Cell("TV-14", "Movie") != 0 || ct.Cell("TV-14", "TV Show") != 1 {
			t.Errorf("cells = %v", ct.Cells)
		}
		for _, row := range ct.Cells {
			for _, v := range row {
				if v < 0 {
					t.Errorf("negative cell in %v", ct.Cells)
				}
			}
		}
		if ct.Total() != len(titles) {
			t.Errorf("total = %d, want %d", ct.Total(), len(titles))
		}
	})
}

func TestContributors(t *testing.T) {
	titles := threeTitles()
	titles[1].Director = titles[0].Director
	titles[2].Director = ""

	want := []domain.LabelCount{{Label: "Director One", Count: 2}}
	if got := TopDirectors(titles, DefaultTopN); !reflect.DeepEqual(got, want) {
		t.Errorf("TopDirectors = %v, want %v", got, want)
	}

	want = []domain.LabelCount{{Label: "Director One", Count: 1}}
	if got := TopDirectorsInGenre(titles, "Comedies", DefaultTopN); !reflect.DeepEqual(got, want) {
		t.Errorf("TopDirectorsInGenre = %v, want %v", got, want)
	}
	if got := TopDirectorsInGenre(titles, "", DefaultTopN); len(got) != 0 {
		t.Errorf("TopDirectorsInGenre with no genre = %v", got)
	}

	actors := TopActors(titles, 2)
	if actors[0] != (domain.LabelCount{Label: "Actor A", Count: 3}) {
		t.Errorf("top actor = %v, want Actor A x3", actors[0])
	}
	if actors[1].Label != "Actor One" {
		t.Errorf("second actor = %v, want Actor One", actors[1])
	}
}

func TestDurations(t *testing.T) {
	titles := threeTitles()
	titles = append(titles,
		title("Four", domain.ContentTypeTVShow, "USA", 2021, "TV-MA", "3 Seasons", "Dramas"),
		title("Broken", domain.ContentTypeMovie, "USA", 2021, "TV-MA", "n/a", "Dramas"),
	)

	movies := MovieDurations(titles)
	if movies.Unit != domain.UnitMinutes || !reflect.DeepEqual(movies.Values, []int{120, 90}) {
		t.Errorf("MovieDurations = %+v", movies)
	}
	if len(movies.Skipped) != 1 || movies.Skipped[0].Title != "Broken" {
		t.Errorf("Skipped = %v, want Broken", movies.Skipped)
	}

	shows := ShowDurations(titles)
	if shows.Unit != domain.UnitSeasons || !reflect.DeepEqual(shows.Values, []int{2, 3}) {
		t.Errorf("ShowDurations = %+v", shows)
	}
	if len(shows.Skipped) != 0 {
		t.Errorf("show Skipped = %v", shows.Skipped)
	}

	if bad := MalformedDurations(titles); len(bad) != 1 {
		t.Errorf("MalformedDurations = %v", bad)
	}
	if pts := DurationScatter(titles); len(pts) != 4 {
		t.Errorf("DurationScatter has %d points, want 4", len(pts))
	}
}

func TestDurationBoxes(t *testing.T) {
	titles := threeTitles()
	titles = append(titles, title("Four", domain.ContentTypeTVShow, "USA", 2021, "TV-MA", "3 Seasons", "Dramas"))

	byType := DurationBoxByType(titles)
	if len(byType) != 2 {
		t.Fatalf("got %d type groups, want 2", len(byType))
	}
	if byType[0].Group != "Movie" || byType[0].Unit != domain.UnitMinutes || byType[0].Median != 105 {
		t.Errorf("movie box = %+v", byType[0])
	}
	if byType[1].Group != "TV Show" || byType[1].Unit != domain.UnitSeasons || byType[1].N != 2 {
		t.Errorf("show box = %+v", byType[1])
	}

	byRating := DurationBoxByRating(titles)
	var groups []string
	for _, b := range byRating {
		groups = append(groups, b.Group)
	}
	want := []string{"TV-14 (seasons)", "TV-MA (min)", "TV-MA (seasons)"}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("rating groups = %v, want %v", groups, want)
	}
}

func TestBox(t *testing.T) {
	b := Box("g", domain.UnitMinutes, []float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	if b.N != 9 || b.Min != 1 || b.Max != 100 {
		t.Errorf("bounds = %+v", b)
	}
	if b.Q1 != 3 || b.Median != 5 || b.Q3 != 7 {
		t.Errorf("quartiles = %v/%v/%v, want 3/5/7", b.Q1, b.Median, b.Q3)
	}
	if b.LowerFence != -3 || b.UpperFence != 13 {
		t.Errorf("fences = %v/%v, want -3/13", b.LowerFence, b.UpperFence)
	}
	if b.WhiskerLow != 1 || b.WhiskerHigh != 8 {
		t.Errorf("whiskers = %v/%v, want 1/8", b.WhiskerLow, b.WhiskerHigh)
	}
	if !reflect.DeepEqual(b.Outliers, []float64{100}) {
		t.Errorf("outliers = %v, want [100]", b.Outliers)
	}
}

func TestHistogramOf(t *testing.T) {
	h := HistogramOf([]int{0, 1, 2, 3, 4, 10}, 5)
	if len(h.Edges) != 6 || h.Edges[0] != 0 || h.Edges[5] != 10 {
		t.Fatalf("edges = %v", h.Edges)
	}
	if want := []int{2, 2, 1, 0, 1}; !reflect.DeepEqual(h.Counts, want) {
		t.Errorf("counts = %v, want %v", h.Counts, want)
	}

	same := HistogramOf([]int{7, 7, 7}, 0)
	if len(same.Counts) != DefaultBins {
		t.Fatalf("got %d bins, want %d", len(same.Counts), DefaultBins)
	}
	if same.Edges[0] != 6.5 || same.Edges[DefaultBins] != 7.5 {
		t.Errorf("constant range = [%v, %v], want [6.5, 7.5]", same.Edges[0], same.Edges[DefaultBins])
	}
	total := 0
	for _, c := range same.Counts {
		total += c
	}
	if total != 3 {
		t.Errorf("counts sum to %d, want 3", total)
	}
}

func TestCorrelation(t *testing.T) {
	titles := []domain.Title{
		title("a", domain.ContentTypeMovie, "X", 2000, "R", "90 min", "D"),
		title("bb", domain.ContentTypeMovie, "X", 2005, "R", "100 min", "D"),
		title("ccc", domain.ContentTypeMovie, "X", 2010, "R", "110 min", "D"),
		title("dddd", domain.ContentTypeTVShow, "X", 2012, "R", "2 Seasons", "D"),
		title("eeeee", domain.ContentTypeTVShow, "X", 2020, "R", "5 Seasons", "D"),
	}
	m := Correlation(titles)

	if len(m.Labels) != 6 {
		t.Fatalf("labels = %v", m.Labels)
	}
	for i := range m.Labels {
		for j := range m.Labels {
			a, b := m.At(i, j), m.At(j, i)
			if m.Defined(i, j) != m.Defined(j, i) || (m.Defined(i, j) && a != b) {
				t.Errorf("matrix not symmetric at (%d,%d): %v vs %v", i, j, a, b)
			}
		}
		if m.Defined(i, i) && m.At(i, i) != 1 {
			t.Errorf("diagonal %s = %v, want 1", m.Labels[i], m.At(i, i))
		}
	}

	// release_year and duration_minutes rise together over the movies
	if r := m.At(0, 4); math.Abs(r-1) > 1e-9 {
		t.Errorf("corr(release_year, duration_minutes) = %v, want 1", r)
	}
	// minutes and seasons never share a title
	if m.Defined(4, 5) {
		t.Errorf("corr(minutes, seasons) = %v, want undefined", m.At(4, 5))
	}

	rows := m.Rows()
	if rows[4][5] != nil || rows[0][0] == nil || *rows[0][0] != 1 {
		t.Errorf("Rows() did not map NaN to nil")
	}
}

func TestCorrelationConstantColumn(t *testing.T) {
	titles := threeTitles()
	for i := range titles {
		titles[i].MonthAdded = 6
	}
	m := Correlation(titles)
	if m.Defined(2, 2) {
		t.Errorf("constant month_added has diagonal %v, want undefined", m.At(2, 2))
	}
	if !m.Defined(0, 0) {
		t.Error("release_year diagonal undefined")
	}
}

func TestDescribe(t *testing.T) {
	summaries := Describe(threeTitles())
	byName := make(map[string]domain.ColumnSummary)
	for _, s := range summaries {
		byName[s.Column] = s
	}

	if _, ok := byName["show_id"]; ok {
		t.Error("show_id described although no title has one")
	}

	country := byName["country"]
	if country.Numeric || country.Count != 3 || country.Unique != 2 || country.Top != "India" || country.Freq != 2 {
		t.Errorf("country summary = %+v", country)
	}

	year := byName["release_year"]
	if !year.Numeric || year.Count != 3 {
		t.Fatalf("release_year summary = %+v", year)
	}
	if *year.Min != 2015 || *year.Max != 2020 || *year.P50 != 2015 {
		t.Errorf("release_year min/median/max = %v/%v/%v", *year.Min, *year.P50, *year.Max)
	}
	if math.Abs(*year.Mean-2016.6666666) > 1e-6 {
		t.Errorf("mean = %v", *year.Mean)
	}
	if year.Std == nil {
		t.Error("std missing for three values")
	}

	single := Describe(threeTitles()[:1])
	for _, s := range single {
		if s.Column == "release_year" && s.Std != nil {
			t.Errorf("std = %v for a single value, want nil", *s.Std)
		}
	}
}

func names(view []domain.Title) []string {
	out := []string{}
	for _, t := range view {
		out = append(out, t.Title)
	}
	return out
}
