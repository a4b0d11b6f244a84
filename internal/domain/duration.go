package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DurationUnit tags what a duration magnitude counts
type DurationUnit int

const (
	UnitMinutes DurationUnit = iota
	UnitSeasons
)

// String returns the unit label used in chart axes
func (u DurationUnit) String() string {
	switch u {
	case UnitMinutes:
		return "min"
	case UnitSeasons:
		return "seasons"
	default:
		return "unknown"
	}
}

// MarshalText lets the unit serialize as its label
func (u DurationUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText parses a unit label
func (u *DurationUnit) UnmarshalText(b []byte) error {
	switch string(b) {
	case "min":
		*u = UnitMinutes
	case "seasons":
		*u = UnitSeasons
	default:
		return fmt.Errorf("unknown duration unit %q", string(b))
	}
	return nil
}

// Duration is a magnitude tagged with its unit. A movie runtime and a
// season count are never comparable, so aggregations group by Unit first.
type Duration struct {
	Unit  DurationUnit `json:"unit" yaml:"unit"`
	Value int          `json:"value" yaml:"value"`
}

// String formats the duration the way the dataset writes it
func (d Duration) String() string {
	if d.Unit == UnitSeasons {
		if d.Value == 1 {
			return "1 Season"
		}
		return fmt.Sprintf("%d Seasons", d.Value)
	}
	return fmt.Sprintf("%d min", d.Value)
}

// UnitFor returns the unit implied by a content type. For types that are
// neither movie nor show the unit word in raw decides.
func UnitFor(t ContentType, raw string) DurationUnit {
	switch t {
	case ContentTypeMovie:
		return UnitMinutes
	case ContentTypeTVShow:
		return UnitSeasons
	}
	if strings.Contains(strings.ToLower(raw), "season") {
		return UnitSeasons
	}
	return UnitMinutes
}

// ParseDuration extracts the leading integer from raw ("90 min", "3 Seasons").
// title only labels the error.
func ParseDuration(title, raw string, t ContentType) (Duration, error) {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return Duration{}, &MalformedDurationError{Title: title, Raw: raw}
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return Duration{}, &MalformedDurationError{Title: title, Raw: raw}
	}
	return Duration{Unit: UnitFor(t, s[end:]), Value: v}, nil
}
