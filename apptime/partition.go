package apptime

import (
	"sort"
	"time"
)

const (
	DefaultUpcomingLimit = 3
	DefaultRecentLimit   = 5

	statusCancelled = "Cancelled"
)

// Schedulable is anything carrying a stored date, time-of-day and status.
type Schedulable interface {
	ScheduledDate() string
	ScheduledTime() string
	ScheduledStatus() string
}

// Scheduled pairs a record with its resolved instant.
type Scheduled[T Schedulable] struct {
	Record T
	At     time.Time
}

// Options tune a partition call. A nil Limit selects the default; an explicit
// limit of zero or less returns nothing.
type Options struct {
	Limit    *int
	Location *time.Location
}

// Limit is a convenience for setting Options.Limit.
func Limit(n int) *int {
	return &n
}

func (o Options) limit(def int) int {
	if o.Limit == nil {
		return def
	}
	if *o.Limit < 0 {
		return 0
	}
	return *o.Limit
}

// Upcoming returns records strictly after now whose status is not exactly
// "Cancelled", earliest first, at most opts.Limit (default 3) of them.
func Upcoming[T Schedulable](records []T, now time.Time, opts Options) []Scheduled[T] {
	limit := opts.limit(DefaultUpcomingLimit)
	out := resolveAll(records, opts.Location, func(r T, at time.Time) bool {
		return at.After(now) && r.ScheduledStatus() != statusCancelled
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return truncate(out, limit)
}

// Recent returns records at or before now, latest first, at most opts.Limit
// (default 5) of them.
func Recent[T Schedulable](records []T, now time.Time, opts Options) []Scheduled[T] {
	limit := opts.limit(DefaultRecentLimit)
	out := resolveAll(records, opts.Location, func(_ T, at time.Time) bool {
		return !at.After(now)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return truncate(out, limit)
}

// Records whose date or time cannot be resolved are dropped.
func resolveAll[T Schedulable](records []T, loc *time.Location, keep func(T, time.Time) bool) []Scheduled[T] {
	out := make([]Scheduled[T], 0, len(records))
	for _, r := range records {
		at, err := Resolve(r.ScheduledDate(), r.ScheduledTime(), loc)
		if err != nil {
			continue
		}
		if keep(r, at) {
			out = append(out, Scheduled[T]{Record: r, At: at})
		}
	}
	return out
}

func truncate[T Schedulable](in []Scheduled[T], limit int) []Scheduled[T] {
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

// Records unwraps a partition back into its records.
func Records[T Schedulable](in []Scheduled[T]) []T {
	out := make([]T, len(in))
	for i, s := range in {
		out[i] = s.Record
	}
	return out
}
