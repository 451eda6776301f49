// Package slots derives bookable slots from a doctor's weekly window.
package slots

import (
	"strings"
	"time"

	"MediCareHMS/apptime"
	"MediCareHMS/models"
)

const (
	Interval = 30 * time.Minute
	layout   = "15:04"
)

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

/*
* Parse start and end in any supported time-of-day format
* Walk from start in interval steps while the slot fits before end
 */
func Generate(start, end string, interval time.Duration) ([]string, error) {
	s, err := parseClock(start)
	if err != nil {
		return nil, err
	}
	e, err := parseClock(end)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = Interval
	}

	out := []string{}
	for t := s; !t.Add(interval).After(e); t = t.Add(interval) {
		out = append(out, t.Format(layout))
	}
	return out, nil
}

func parseClock(raw string) (time.Time, error) {
	c, err := apptime.Clock(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(layout, c)
}

// WorksOn reports whether the weekly window includes the weekday.
// Full names and three-letter abbreviations are accepted in any case.
func WorksOn(av models.Availability, day time.Weekday) bool {
	name := strings.ToLower(day.String())
	for _, d := range av.Days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == name || (len(d) >= 3 && strings.HasPrefix(name, d)) {
			return true
		}
	}
	return false
}

/*
* Check the weekday against the doctor's window
* Generate the day's slots
* Mark every slot held by a booked time as unavailable
 */
func ForDate(av models.Availability, date time.Time, booked []string) ([]Slot, error) {
	if !WorksOn(av, date.Weekday()) {
		return []Slot{}, nil
	}
	times, err := Generate(av.StartTime, av.EndTime, Interval)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		if c, err := apptime.Clock(b); err == nil {
			taken[c] = true
		}
	}

	out := make([]Slot, 0, len(times))
	for _, t := range times {
		out = append(out, Slot{Time: t, Available: !taken[t]})
	}
	return out, nil
}

// Contains reports whether timeOfDay names one of the generated slots.
func Contains(list []Slot, timeOfDay string) (Slot, bool) {
	c, err := apptime.Clock(timeOfDay)
	if err != nil {
		return Slot{}, false
	}
	for _, s := range list {
		if s.Time == c {
			return s, true
		}
	}
	return Slot{}, false
}
