package cleaner

import (
	"fmt"
	"strings"
	"time"
)

// layouts are tried in order against the input (after any trailing zone
// abbreviation has been split off). Layouts without a zone component are
// interpreted in the resolved zone, or UTC when the input carries none.
var layouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// tzinfos maps the timezone abbreviations accepted in sale_date values to
// IANA zone names. Abbreviations are ambiguous on their own ("CST" exists on
// three continents), so the set is fixed to the North American readings the
// source data uses.
var tzinfos = map[string]string{
	"EDT": "America/New_York",
	"EST": "America/New_York",
	"CDT": "America/Chicago",
	"CST": "America/Chicago",
	"MDT": "America/Denver",
	"MST": "America/Denver",
	"PDT": "America/Los_Angeles",
	"PST": "America/Los_Angeles",
	"UTC": "UTC",
	"GMT": "UTC",
}

// ParseTimestamp parses a sale_date value in any of the supported layouts,
// resolving a trailing timezone abbreviation (e.g. "EDT") through tzinfos.
// "2024-05-01 10:00:00 EDT" and "2024-05-01T14:00:00Z" denote the same
// instant.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if rest, loc, ok := splitZoneAbbr(s); ok {
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, rest, loc); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unsupported timestamp format %q", s)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format %q", s)
}

// splitZoneAbbr checks whether the last whitespace-separated token of s is a
// known zone abbreviation. It returns the remaining text and the resolved
// location.
func splitZoneAbbr(s string) (rest string, loc *time.Location, ok bool) {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return "", nil, false
	}
	name, found := tzinfos[s[i+1:]]
	if !found {
		return "", nil, false
	}
	l, err := time.LoadLocation(name)
	if err != nil {
		return "", nil, false
	}
	return strings.TrimSpace(s[:i]), l, true
}
