package timeparse

import (
	"fmt"
	"time"
)

// Kind identifies the comparison semantics of a Predicate.
type Kind int

const (
	// KindExact matches a single calendar date.
	KindExact Kind = iota
	// KindRange matches dates between Start and End inclusive.
	KindRange
	// KindBefore matches dates up to and including End. The exclusive
	// boundary named in the source expression has already been shifted
	// back one day at construction time.
	KindBefore
	// KindAfter matches dates from Start inclusive. The exclusive boundary
	// has already been shifted forward one day at construction time.
	KindAfter
	// KindOnOrBefore matches dates up to and including End.
	KindOnOrBefore
	// KindOnOrAfter matches dates from Start inclusive.
	KindOnOrAfter
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindRange:
		return "range"
	case KindBefore:
		return "before"
	case KindAfter:
		return "after"
	case KindOnOrBefore:
		return "on_or_before"
	case KindOnOrAfter:
		return "on_or_after"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Predicate is a resolved, typed date condition. Start and End are calendar
// dates at midnight UTC; a zero value means the bound is absent (unbounded
// on that side for KindRange).
type Predicate struct {
	Kind  Kind
	Start time.Time
	End   time.Time
}

// Exact returns a predicate matching exactly the given calendar date.
func Exact(d time.Time) Predicate {
	d = Midnight(d)
	return Predicate{Kind: KindExact, Start: d, End: d}
}

// Span returns an inclusive range predicate. Bounds are order-normalized,
// and a degenerate range with equal bounds collapses to Exact.
func Span(start, end time.Time) Predicate {
	start, end = Midnight(start), Midnight(end)
	if !start.IsZero() && !end.IsZero() {
		if start.After(end) {
			start, end = end, start
		}
		if start.Equal(end) {
			return Exact(start)
		}
	}
	return Predicate{Kind: KindRange, Start: start, End: end}
}

// Before returns a predicate matching dates strictly before the bound.
// The stored End is bound-1d so that the filter can treat every upper
// bound inclusively.
func Before(bound time.Time) Predicate {
	return Predicate{Kind: KindBefore, End: Midnight(bound).AddDate(0, 0, -1)}
}

// After returns a predicate matching dates strictly after the bound.
func After(bound time.Time) Predicate {
	return Predicate{Kind: KindAfter, Start: Midnight(bound).AddDate(0, 0, 1)}
}

// OnOrBefore returns a predicate matching dates up to and including the bound.
func OnOrBefore(bound time.Time) Predicate {
	return Predicate{Kind: KindOnOrBefore, End: Midnight(bound)}
}

// OnOrAfter returns a predicate matching dates from the bound onward.
func OnOrAfter(bound time.Time) Predicate {
	return Predicate{Kind: KindOnOrAfter, Start: Midnight(bound)}
}

// Matches reports whether the calendar date of d satisfies the predicate.
// Time-of-day is stripped before comparison.
func (p Predicate) Matches(d time.Time) bool {
	day := Midnight(d)
	switch p.Kind {
	case KindExact:
		return day.Equal(p.Start)
	case KindRange:
		if !p.Start.IsZero() && day.Before(p.Start) {
			return false
		}
		if !p.End.IsZero() && day.After(p.End) {
			return false
		}
		return true
	case KindBefore, KindOnOrBefore:
		return !day.After(p.End)
	case KindAfter, KindOnOrAfter:
		return !day.Before(p.Start)
	}
	return false
}

// lowerBound returns the earliest date the predicate can match, or zero when
// unbounded below.
func (p Predicate) lowerBound() time.Time {
	switch p.Kind {
	case KindExact, KindRange, KindAfter, KindOnOrAfter:
		return p.Start
	}
	return time.Time{}
}

// upperBound returns the latest date the predicate can match, or zero when
// unbounded above.
func (p Predicate) upperBound() time.Time {
	switch p.Kind {
	case KindExact, KindRange, KindBefore, KindOnOrBefore:
		return p.End
	}
	return time.Time{}
}

// String formats the predicate for logs.
func (p Predicate) String() string {
	format := func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(DateLayout)
	}
	return fmt.Sprintf("%s[%s..%s]", p.Kind, format(p.Start), format(p.End))
}

// DateLayout is the canonical calendar date format used across the module.
const DateLayout = "2006-01-02"

// Midnight truncates t to its calendar date at midnight UTC. The zero value
// passes through unchanged so absent bounds stay absent.
func Midnight(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.In(time.UTC)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b
// (negative when b is earlier).
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}
