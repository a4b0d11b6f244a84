package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		typ  ContentType
		want Duration
	}{
		{"movie minutes", "90 min", ContentTypeMovie, Duration{UnitMinutes, 90}},
		{"show seasons", "3 Seasons", ContentTypeTVShow, Duration{UnitSeasons, 3}},
		{"single season", "1 Season", ContentTypeTVShow, Duration{UnitSeasons, 1}},
		{"padded", "  120 min ", ContentTypeMovie, Duration{UnitMinutes, 120}},
		{"other type infers seasons", "4 Seasons", ContentType("Special"), Duration{UnitSeasons, 4}},
		{"other type infers minutes", "45 min", ContentType("Special"), Duration{UnitMinutes, 45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration("x", tt.raw, tt.typ)
			if err != nil {
				t.Fatalf("ParseDuration(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDurationMalformed(t *testing.T) {
	for _, raw := range []string{"", "min", "Seasons 3", "-5 min"} {
		_, err := ParseDuration("Some Title", raw, ContentTypeMovie)
		if !errors.Is(err, ErrMalformedDuration) {
			t.Errorf("ParseDuration(%q) err = %v, want ErrMalformedDuration", raw, err)
			continue
		}
		var mde *MalformedDurationError
		if !errors.As(err, &mde) || mde.Title != "Some Title" || mde.Raw != raw {
			t.Errorf("ParseDuration(%q) err = %#v", raw, err)
		}
	}
}

func TestDurationString(t *testing.T) {
	tests := map[Duration]string{
		{UnitMinutes, 90}: "90 min",
		{UnitSeasons, 1}:  "1 Season",
		{UnitSeasons, 2}:  "2 Seasons",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("%+v.String() = %q, want %q", d, got, want)
		}
	}
}

func TestParseContentType(t *testing.T) {
	tests := map[string]ContentType{
		"Movie":   ContentTypeMovie,
		" movie ": ContentTypeMovie,
		"TV Show": ContentTypeTVShow,
		"TVShow":  ContentTypeTVShow,
		"tv show": ContentTypeTVShow,
		"Special": ContentType("Special"),
	}
	for in, want := range tests {
		if got := ParseContentType(in); got != want {
			t.Errorf("ParseContentType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitleIsComplete(t *testing.T) {
	full := Title{
		Title: "A", Director: "D", Cast: "C", Rating: "R", Duration: "90 min",
		Description: "x", Genres: []string{"Dramas"},
		DateAdded: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if !full.IsComplete() {
		t.Fatal("complete title reported incomplete")
	}

	missing := full
	missing.Genres = nil
	if missing.IsComplete() {
		t.Error("title without genres reported complete")
	}
	missing = full
	missing.Director = ""
	if missing.IsComplete() {
		t.Error("title without director reported complete")
	}
}

func TestCrossTabTotals(t *testing.T) {
	ct := CrossTab{
		Rows:  []string{"India", "USA"},
		Cols:  []string{"Movie", "TV Show"},
		Cells: [][]int{{2, 0}, {1, 3}},
	}
	if got := ct.Cell("USA", "TV Show"); got != 3 {
		t.Errorf("Cell = %d, want 3", got)
	}
	if got := ct.Cell("France", "Movie"); got != 0 {
		t.Errorf("absent Cell = %d, want 0", got)
	}
	if ct.RowTotal(1) != 4 || ct.ColTotal(0) != 3 || ct.Total() != 6 {
		t.Errorf("totals = %d/%d/%d, want 4/3/6", ct.RowTotal(1), ct.ColTotal(0), ct.Total())
	}
}
