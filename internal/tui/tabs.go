package tui

import (
	"fmt"
	"strings"
)

// Tab is one dashboard panel group
type Tab int

const (
	TabOverview Tab = iota
	TabTrends
	TabCountries
	TabGenres
	TabRatings
	TabPeople
	TabDuration
	TabCorrelation
	TabData
	tabCount
)

var tabInfo = [tabCount]struct {
	key   string
	title string
}{
	TabOverview:    {"overview", "Overview"},
	TabTrends:      {"trends", "Yearly Trends"},
	TabCountries:   {"countries", "Countries"},
	TabGenres:      {"genres", "Genres"},
	TabRatings:     {"ratings", "Ratings"},
	TabPeople:      {"people", "Directors & Actors"},
	TabDuration:    {"duration", "Duration"},
	TabCorrelation: {"correlation", "Correlation"},
	TabData:        {"data", "Data"},
}

// String returns the tab title
func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return ""
	}
	return tabInfo[t].title
}

// Next returns the tab after t, wrapping around
func (t Tab) Next() Tab { return (t + 1) % tabCount }

// Prev returns the tab before t, wrapping around
func (t Tab) Prev() Tab { return (t + tabCount - 1) % tabCount }

// ParseTab maps a config name ("overview", "duration", ...) to a Tab
func ParseTab(name string) (Tab, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return TabOverview, nil
	}
	for t := Tab(0); t < tabCount; t++ {
		if tabInfo[t].key == name {
			return t, nil
		}
	}
	return TabOverview, fmt.Errorf("unknown tab %q", name)
}
