package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ordinalSuffix = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)

// Date shapes seen on the listings page. Yearless forms are common there,
// so they get the reference year from the batch clock.
var listingFormatsWithYear = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday 2 January 2006",
	"Mon 2 Jan 2006",
	"Monday, 2 January 2006",
	"Mon, 2 Jan 2006",
	"02/01/2006",
	"2006-01-02",
}

var listingFormatsWithoutYear = []string{
	"Monday 2 January",
	"Mon 2 Jan",
	"Monday, 2 January",
	"Mon, 2 Jan",
	"2 January",
	"2 Jan",
	"January 2",
	"Jan 2",
}

// ParseListingDate parses a source-formatted listing date. Ordinal
// suffixes are stripped and words are recased so "friday 13th june"
// parses. Yearless dates take now's year.
func ParseListingDate(text string, now time.Time) (time.Time, error) {
	s := strings.Join(strings.Fields(text), " ")
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	s = recaseWords(s)

	for _, layout := range listingFormatsWithYear {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range listingFormatsWithoutYear {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized listing date %q", text)
}

// FormatFullDate renders "<Weekday>, <Day> <Month>", e.g. "Friday, 13 June".
func FormatFullDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s", t.Weekday(), t.Day(), t.Month())
}

func recaseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
