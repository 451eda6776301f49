// Package apptime turns the loosely formatted date and time strings stored on
// appointments into points in time, and groups appointments into upcoming and
// recent views relative to an evaluation instant.
package apptime

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when no strategy understands the date or time.
var ErrUnparseable = errors.New("unparseable appointment date or time")

// civilDate is a calendar day with no zone attached.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func (d civilDate) String() string {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
}

// clock is a wall-clock time of day. zone is set only when the string carried
// its own UTC designator or offset.
type clock struct {
	hour, min, sec, nsec int
	zone                 *time.Location
}

// DateStrategy extracts the calendar day from a stored date string.
type DateStrategy struct {
	Name  string
	parse func(raw string, loc *time.Location) (civilDate, bool)
}

// TimeStrategy extracts the time of day from a stored time string.
type TimeStrategy struct {
	Name  string
	parse func(raw string) (clock, bool)
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	time.DateOnly,
	"20060102",
	"2006-01",
	"2006",
}

var rfc2822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04 -0700",
	time.RFC822Z,
	time.RFC822,
}

var looseDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"2006/1/2",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006 15:04:05",
	time.UnixDate,
	time.ANSIC,
	time.DateTime,
	"2006-01-02 15:04",
}

// DateStrategies are tried in order; the first match fixes the calendar day.
var DateStrategies = []DateStrategy{
	{Name: "iso8601-utc", parse: parseISODate},
	{Name: "rfc2822", parse: parseRFC2822Date},
	{Name: "loose", parse: parseLooseDate},
}

// TimeStrategies are tried in order once the calendar day is known.
var TimeStrategies = []TimeStrategy{
	{Name: "iso-24h", parse: parseISOClock},
	{Name: "h:mm a", parse: layoutClock("3:04 PM")},
	{Name: "hh:mm a", parse: layoutClock("03:04 PM")},
	{Name: "H:mm", parse: layoutClock("15:04")},
	{Name: "HH:mm", parse: layoutClock("15:04")},
	{Name: "h:mm:ss a", parse: layoutClock("3:04:05 PM")},
	{Name: "HH:mm:ss", parse: layoutClock("15:04:05")},
	{Name: "loose", parse: parseLooseClock},
}

func parseISODate(raw string, _ *time.Location) (civilDate, bool) {
	for _, layout := range isoDateLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return toCivil(t.UTC()), true
		}
	}
	return civilDate{}, false
}

func parseRFC2822Date(raw string, _ *time.Location) (civilDate, bool) {
	for _, layout := range rfc2822Layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return toCivil(t.UTC()), true
		}
	}
	return civilDate{}, false
}

// The written calendar day is kept as-is, whatever zone the viewer is in.
func parseLooseDate(raw string, loc *time.Location) (civilDate, bool) {
	if i := strings.Index(raw, " ("); i > 0 {
		raw = raw[:i]
	}
	for _, layout := range looseDateLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return toCivil(t), true
		}
	}
	return civilDate{}, false
}

var (
	isoClockExtended = regexp.MustCompile(`^(\d{2})(?::(\d{2})(?::(\d{2})(?:[.,](\d{1,9}))?)?)?(Z|[+-]\d{2}(?::?\d{2})?)?$`)
	isoClockBasic    = regexp.MustCompile(`^(\d{2})(\d{2})(?:(\d{2})(?:[.,](\d{1,9}))?)?(Z|[+-]\d{2}(?::?\d{2})?)?$`)
)

// parseISOClock accepts hh, hh:mm, hh:mm:ss[.f] and the basic hhmm[ss[.f]]
// forms, each optionally followed by Z or a +hh[:mm] offset.
func parseISOClock(raw string) (clock, bool) {
	m := isoClockExtended.FindStringSubmatch(raw)
	if m == nil {
		m = isoClockBasic.FindStringSubmatch(raw)
	}
	if m == nil {
		return clock{}, false
	}
	c := clock{}
	c.hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		c.min, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		c.sec, _ = strconv.Atoi(m[3])
	}
	if m[4] != "" {
		frac := m[4] + strings.Repeat("0", 9-len(m[4]))
		c.nsec, _ = strconv.Atoi(frac)
	}
	if c.hour > 23 || c.min > 59 || c.sec > 59 {
		return clock{}, false
	}
	if m[5] != "" {
		zone, ok := isoOffset(m[5])
		if !ok {
			return clock{}, false
		}
		c.zone = zone
	}
	return c, true
}

func isoOffset(s string) (*time.Location, bool) {
	if s == "Z" {
		return time.UTC, true
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	hh, _ := strconv.Atoi(digits[:2])
	mm := 0
	if len(digits) == 4 {
		mm, _ = strconv.Atoi(digits[2:])
	}
	if hh > 14 || mm > 59 {
		return nil, false
	}
	secs := hh*3600 + mm*60
	if s[0] == '-' {
		secs = -secs
	}
	return time.FixedZone(s, secs), true
}

func layoutClock(layout string) func(string) (clock, bool) {
	return func(raw string) (clock, bool) {
		t, err := time.Parse(layout, strings.ToUpper(raw))
		if err != nil {
			return clock{}, false
		}
		return clock{hour: t.Hour(), min: t.Minute(), sec: t.Second()}, true
	}
}

var (
	meridiemDots  = strings.NewReplacer("A.M.", "AM", "P.M.", "PM", "A.M", "AM", "P.M", "PM")
	meridiemSpace = regexp.MustCompile(`(\d)\s*(AM|PM)$`)
	looseClocks   = []string{"3:04 PM", "3 PM", "3:04:05 PM", "15:04:05.000", "15:04:05", "15:04", "15.04"}
)

func parseLooseClock(raw string) (clock, bool) {
	s := strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
	s = meridiemDots.Replace(s)
	s = meridiemSpace.ReplaceAllString(s, "$1 $2")
	for _, layout := range looseClocks {
		t, err := time.Parse(layout, s)
		if err == nil {
			return clock{hour: t.Hour(), min: t.Minute(), sec: t.Second(), nsec: t.Nanosecond()}, true
		}
	}
	return clock{}, false
}

func toCivil(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

// Resolve combines a stored date and time-of-day into one instant in loc.
// An empty time resolves to midnight. A nil loc means time.Local. A time that
// carries its own offset is read in that offset and converted to loc.
func Resolve(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, ok := resolveDate(strings.TrimSpace(date), loc)
	if !ok {
		return time.Time{}, ErrUnparseable
	}

	raw := strings.TrimSpace(timeOfDay)
	if raw == "" {
		raw = "00:00"
	}
	for _, s := range TimeStrategies {
		if c, ok := s.parse(raw); ok {
			if c.zone != nil {
				return time.Date(day.year, day.month, day.day, c.hour, c.min, c.sec, c.nsec, c.zone).In(loc), nil
			}
			return time.Date(day.year, day.month, day.day, c.hour, c.min, c.sec, c.nsec, loc), nil
		}
	}
	return time.Time{}, ErrUnparseable
}

// CalendarDate returns the YYYY-MM-DD day a stored date string refers to.
func CalendarDate(date string) (string, error) {
	day, ok := resolveDate(strings.TrimSpace(date), time.UTC)
	if !ok {
		return "", ErrUnparseable
	}
	return day.String(), nil
}

func resolveDate(raw string, loc *time.Location) (civilDate, bool) {
	if raw == "" {
		return civilDate{}, false
	}
	for _, s := range DateStrategies {
		if d, ok := s.parse(raw, loc); ok {
			return d, true
		}
	}
	return civilDate{}, false
}

// Clock normalizes a free-form time of day to "HH:MM".
func Clock(timeOfDay string) (string, error) {
	raw := strings.TrimSpace(timeOfDay)
	if raw == "" {
		raw = "00:00"
	}
	for _, s := range TimeStrategies {
		if c, ok := s.parse(raw); ok {
			return time.Date(0, 1, 1, c.hour, c.min, 0, 0, time.UTC).Format("15:04"), nil
		}
	}
	return "", ErrUnparseable
}
