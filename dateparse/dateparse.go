// Package dateparse parses the publication dates found on Dutch government
// pages: ISO timestamps, day-first numeric dates and dates with Dutch month
// names.
package dateparse

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.DateParser = (*Parser)(nil)

// dutchMonths maps Dutch month names and abbreviations to English ones.
var dutchMonths = map[string]string{
	"januari":   "January",
	"februari":  "February",
	"maart":     "March",
	"april":     "April",
	"mei":       "May",
	"juni":      "June",
	"juli":      "July",
	"augustus":  "August",
	"september": "September",
	"oktober":   "October",
	"november":  "November",
	"december":  "December",
	"jan":       "Jan",
	"feb":       "Feb",
	"mrt":       "Mar",
	"apr":       "Apr",
	"jun":       "Jun",
	"jul":       "Jul",
	"aug":       "Aug",
	"sep":       "Sep",
	"sept":      "Sep",
	"okt":       "Oct",
	"nov":       "Nov",
	"dec":       "Dec",
}

// dutchWeekdays are dropped before parsing.
var dutchWeekdays = regexp.MustCompile(`(?i)^(maandag|dinsdag|woensdag|donderdag|vrijdag|zaterdag|zondag|ma|di|wo|do|vr|za|zo)\.?,?\s+`)

var wordRe = regexp.MustCompile(`\p{L}+\.?`)

// dayFirstLayouts are tried before the generic parser, which would read
// 03-04-2024 month first.
var dayFirstLayouts = []string{
	"02-01-2006, 15:04",
	"2-1-2006 15:04",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
}

// Parser parses dates in the Europe/Amsterdam time zone unless the input
// carries its own offset.
type Parser struct {
	Location *time.Location
}

// NewParser creates a Parser for Dutch local time. It falls back to UTC
// when the zone database is unavailable.
func NewParser() *Parser {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		loc = time.UTC
	}
	return &Parser{Location: loc}
}

// ParseDate parses s. Returns EINVALID if s is not a recognisable date.
func (p *Parser) ParseDate(s string) (time.Time, error) {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	s = strings.TrimSpace(woocrawl.SingleLine(s))
	if s == "" {
		return time.Time{}, woocrawl.Errorf(woocrawl.EINVALID, "empty date")
	}
	s = dutchWeekdays.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, " uur")

	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	s = translateMonths(s)
	t, err := dateparse.ParseIn(s, loc, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, woocrawl.Errorf(woocrawl.EINVALID, "unrecognised date %q", s)
	}
	return t, nil
}

// translateMonths replaces Dutch month names with English ones.
func translateMonths(s string) string {
	return wordRe.ReplaceAllStringFunc(s, func(w string) string {
		key := strings.ToLower(strings.TrimSuffix(w, "."))
		if en, ok := dutchMonths[key]; ok {
			return en
		}
		return w
	})
}
