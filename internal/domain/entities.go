package domain

import (
	"strings"
	"time"
)

// ContentType distinguishes movies from TV shows. Values that are neither
// are kept verbatim so they can still be counted and filtered.
type ContentType string

const (
	ContentTypeMovie  ContentType = "Movie"
	ContentTypeTVShow ContentType = "TV Show"
)

// ParseContentType maps a raw type cell to a ContentType.
func ParseContentType(raw string) ContentType {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(strings.ReplaceAll(s, " ", "")) {
	case "movie":
		return ContentTypeMovie
	case "tvshow":
		return ContentTypeTVShow
	default:
		return ContentType(s)
	}
}

// String returns the display form of the content type
func (c ContentType) String() string { return string(c) }

// Unknown is the sentinel substituted for a missing country or rating
const Unknown = "Unknown"

// GenreSeparator splits the listed_in and cast fields
const GenreSeparator = ", "

// Title is one normalized row of the dataset.
//
// String fields use "" for a missing value and Genres uses nil, so an absent
// listed_in cell stays distinguishable from an empty list. Country and Rating
// are never empty after normalization. Duration holds the raw text
// ("90 min", "3 Seasons"); use ParsedDuration for the tagged value.
type Title struct {
	ShowID      string      `json:"show_id,omitempty" yaml:"show_id,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Type        ContentType `json:"type" yaml:"type"`
	Director    string      `json:"director,omitempty" yaml:"director,omitempty"`
	Cast        string      `json:"cast,omitempty" yaml:"cast,omitempty"`
	Country     string      `json:"country" yaml:"country"`
	DateAdded   time.Time   `json:"date_added" yaml:"date_added"`
	YearAdded   int         `json:"year_added" yaml:"year_added"`
	MonthAdded  int         `json:"month_added" yaml:"month_added"`
	DayAdded    int         `json:"day_added" yaml:"day_added"`
	ReleaseYear int         `json:"release_year" yaml:"release_year"`
	Rating      string      `json:"rating" yaml:"rating"`
	Duration    string      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Genres      []string    `json:"genres" yaml:"genres"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasGenre reports whether the title lists genre g
func (t Title) HasGenre(g string) bool {
	for _, genre := range t.Genres {
		if genre == g {
			return true
		}
	}
	return false
}

// CastMembers splits the cast field into individual names
func (t Title) CastMembers() []string {
	if t.Cast == "" {
		return nil
	}
	return strings.Split(t.Cast, GenreSeparator)
}

// IsComplete reports whether every field the dashboard relies on is present.
// This is the fixed baseline applied before any user-selected predicate.
func (t Title) IsComplete() bool {
	return t.Genres != nil &&
		t.Rating != "" &&
		!t.DateAdded.IsZero() &&
		t.Director != "" &&
		t.Duration != "" &&
		t.Description != "" &&
		t.Cast != "" &&
		t.Title != ""
}

// ParsedDuration extracts the tagged duration for this title
func (t Title) ParsedDuration() (Duration, error) {
	return ParseDuration(t.Title, t.Duration, t.Type)
}
