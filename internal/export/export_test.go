package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/report"
	"gopkg.in/yaml.v3"
)

func dashboard(t *testing.T) *report.Dashboard {
	t.Helper()
	added := time.Date(2020, time.May, 4, 0, 0, 0, 0, time.UTC)
	titles := []domain.Title{
		{Title: "A", Type: domain.ContentTypeMovie, Director: "Ann", Cast: "X, Y", Country: "India",
			DateAdded: added, YearAdded: 2020, MonthAdded: 5, DayAdded: 4, ReleaseYear: 2015,
			Rating: "TV-MA", Duration: "90 min", Genres: []string{"Dramas", "Comedies"}, Description: "a"},
		{Title: "B", Type: domain.ContentTypeTVShow, Director: "Bo", Cast: "Y", Country: "USA",
			DateAdded: added, YearAdded: 2020, MonthAdded: 5, DayAdded: 4, ReleaseYear: 2019,
			Rating: "TV-14", Duration: "2 Seasons", Genres: []string{"Dramas"}, Description: "b"},
		{Title: "C", Type: domain.ContentTypeMovie, Director: "Ann", Cast: "Z", Country: "India",
			DateAdded: added, YearAdded: 2020, MonthAdded: 5, DayAdded: 4, ReleaseYear: 2018,
			Rating: "R", Duration: "n/a", Genres: []string{"Action"}, Description: "c"},
	}
	d, err := report.Build(context.Background(), titles, report.Selection{}, report.DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"out.json":      FormatJSON,
		"out.YAML":      FormatYAML,
		"dir/out.yml":   FormatYAML,
		"out.db":        FormatSQLite,
		"out.sqlite":    FormatSQLite,
		"a/b/c.sqlite3": FormatSQLite,
	}
	for path, want := range tests {
		got, err := FormatFor(path)
		if err != nil || got != want {
			t.Errorf("FormatFor(%q) = %q, %v; want %q", path, got, err, want)
		}
	}

	if _, err := FormatFor("out.csv"); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("FormatFor(csv) err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dash.json")
	if err := Write(context.Background(), path, dashboard(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var got struct {
		Records      int                 `json:"records"`
		Metrics      domain.KeyMetrics   `json:"metrics"`
		TopCountries []domain.LabelCount `json:"top_countries"`
		Correlation  struct {
			Labels []string     `json:"labels"`
			Values [][]*float64 `json:"values"`
			Note   string       `json:"note"`
		} `json:"correlation"`
		Durations struct {
			Malformed []struct {
				Title string `json:"title"`
				Raw   string `json:"raw"`
			} `json:"malformed"`
		} `json:"durations"`
		Titles []domain.Title `json:"titles"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Records != 3 || got.Metrics.Movies != 2 || len(got.Titles) != 3 {
		t.Errorf("records = %d, metrics = %+v, titles = %d", got.Records, got.Metrics, len(got.Titles))
	}
	if len(got.TopCountries) == 0 || got.TopCountries[0] != (domain.LabelCount{Label: "India", Count: 2}) {
		t.Errorf("TopCountries = %v", got.TopCountries)
	}
	if len(got.Correlation.Labels) != 6 || len(got.Correlation.Values) != 6 {
		t.Fatalf("correlation has %d labels, %d rows", len(got.Correlation.Labels), len(got.Correlation.Values))
	}
	if want := []string{"duration_minutes", "duration_seasons"}; !reflect.DeepEqual(got.Correlation.Labels[4:], want) {
		t.Errorf("duration labels = %v, want %v", got.Correlation.Labels[4:], want)
	}
	if !strings.Contains(got.Correlation.Note, "duration_minutes_or_seasons") {
		t.Errorf("correlation note = %q", got.Correlation.Note)
	}
	// year_added is constant in the fixture, so its row is undefined
	if got.Correlation.Values[1][1] != nil {
		t.Errorf("constant column diagonal = %v, want null", *got.Correlation.Values[1][1])
	}
	if len(got.Durations.Malformed) != 1 || got.Durations.Malformed[0].Raw != "n/a" {
		t.Errorf("malformed = %+v", got.Durations.Malformed)
	}
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.yaml")
	if err := Write(context.Background(), path, dashboard(t)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"generated_at", "metrics", "top_genres", "durations", "correlation", "summary", "titles"} {
		if _, ok := got[key]; !ok {
			t.Errorf("yaml export lacks %q", key)
		}
	}
	if got["records"] != 3 {
		t.Errorf("records = %v, want 3", got["records"])
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.db")
	d := dashboard(t)

	// Writing twice replaces the database rather than appending
	for range 2 {
		if err := Write(context.Background(), path, d); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	count := func(query string, args ...any) int {
		t.Helper()
		var n int
		if err := db.QueryRow(query, args...).Scan(&n); err != nil {
			t.Fatalf("%s: %v", query, err)
		}
		return n
	}

	if n := count("SELECT COUNT(*) FROM titles"); n != 3 {
		t.Errorf("titles = %d, want 3", n)
	}
	if n := count("SELECT COUNT(*) FROM title_genres WHERE genre = ?", "Dramas"); n != 2 {
		t.Errorf("Dramas rows = %d, want 2", n)
	}
	if n := count("SELECT COUNT(*) FROM title_cast WHERE member = ?", "Y"); n != 2 {
		t.Errorf("cast Y rows = %d, want 2", n)
	}
	if n := count("SELECT count FROM panel_counts WHERE panel = 'top_directors' AND rank = 1"); n != 2 {
		t.Errorf("top director count = %d, want 2", n)
	}
	if n := count("SELECT COUNT(*) FROM titles WHERE duration_value IS NULL"); n != 1 {
		t.Errorf("titles without a parsed duration = %d, want 1", n)
	}

	var seasons int
	if err := db.QueryRow("SELECT duration_value FROM titles WHERE duration_unit = 'seasons'").Scan(&seasons); err != nil || seasons != 2 {
		t.Errorf("seasons = %d, %v; want 2", seasons, err)
	}
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()

	if err := Write(context.Background(), filepath.Join(dir, "out.txt"), dashboard(t)); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("txt err = %v, want ErrUnsupportedFormat", err)
	}
	if err := Write(context.Background(), filepath.Join(dir, "out.json"), nil); !errors.Is(err, domain.ErrDatasetNotLoaded) {
		t.Errorf("nil dashboard err = %v, want ErrDatasetNotLoaded", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Write(ctx, filepath.Join(dir, "out.json"), dashboard(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v, want context.Canceled", err)
	}
}
