package booking

import (
	"fmt"
	"time"
)

// dateLayout is the only accepted wire format for dates.  The API works at
// day granularity, so values carry no time-of-day component and are
// normalized to midnight UTC after parsing.
const dateLayout = "2006-01-02"

// DateRange is a closed interval of calendar days.  Both endpoints are
// inclusive, so Start == End describes a valid single-day range.  All
// comparisons assume both endpoints are midnight-UTC normalized, which
// NewDateRange and ParseDateRange guarantee.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both endpoints to midnight UTC and validates their
// order.  A range whose start is after its end is malformed input and is
// rejected here, before any availability check runs.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := Midnight(start)
	e := Midnight(end)
	if s.After(e) {
		return DateRange{}, fmt.Errorf("%w: start_date is after end_date", ErrInvalidInput)
	}
	return DateRange{Start: s, End: e}, nil
}

// ParseDateRange builds a DateRange from two YYYY-MM-DD strings.  Any other
// format is rejected as invalid input.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

// ParseDate parses a single YYYY-MM-DD string into a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t.UTC(), nil
}

// Midnight truncates a time to the start of its day in UTC.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two closed ranges intersect.  Because both ends
// are inclusive, a range ending on the day another starts still counts as an
// overlap: the vehicle cannot be returned and picked up on the same day.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Contains reports whether o lies entirely inside r.
func (r DateRange) Contains(o DateRange) bool {
	return !r.Start.After(o.Start) && !r.End.Before(o.End)
}

// Days returns the number of whole 24-hour units between the endpoints.
// A single-day range yields 0; pricing applies its own minimum on top.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

// StartString and EndString render the endpoints in wire format.
func (r DateRange) StartString() string { return r.Start.Format(dateLayout) }
func (r DateRange) EndString() string   { return r.End.Format(dateLayout) }

func (r DateRange) String() string {
	return r.StartString() + ".." + r.EndString()
}
