package roster

import "fmt"

// MaxWindowDays bounds any window the engine is asked to expand day by day.
const MaxWindowDays = 366

// =============================================================================
// DATE RANGE - Inclusive window used for contracts, leave and audits
// =============================================================================

// DateRange is the inclusive interval [Start, End].
type DateRange struct {
	Start Date
	End   Date
}

// WindowFrom builds the range covering duration days from start.
// A non-positive duration yields an empty range.
func WindowFrom(start Date, duration int) DateRange {
	return DateRange{Start: start, End: start.AddDays(duration - 1)}
}

// ResolveWindow builds an evaluation window from an optional start date and
// day count. An empty start falls back to the first program date; days == 0
// runs through the last program date. Negative counts and windows longer
// than MaxWindowDays return ErrInvalidWindow.
func ResolveWindow(snap *Snapshot, start string, days int) (DateRange, error) {
	if snap == nil {
		return DateRange{}, ErrNilSnapshot
	}
	span, hasSpan := snap.Window()

	from := span.Start
	if start != "" {
		d, ok := ParseDate(start)
		if !ok {
			return DateRange{}, fmt.Errorf("%w: start %q is not YYYY-MM-DD", ErrInvalidWindow, start)
		}
		from = d
	} else if !hasSpan {
		return DateRange{}, fmt.Errorf("%w: no program dates, pass start and days", ErrInvalidWindow)
	}

	switch {
	case days < 0:
		return DateRange{}, fmt.Errorf("%w: days %d", ErrInvalidWindow, days)
	case days == 0:
		if !hasSpan || from.After(span.End) {
			return DateRange{}, fmt.Errorf("%w: start %s is past the last program date, pass days", ErrInvalidWindow, from)
		}
		days = DaysBetween(from, span.End) + 1
	}
	if days > MaxWindowDays {
		return DateRange{}, fmt.Errorf("%w: %d days exceeds the %d day limit", ErrInvalidWindow, days, MaxWindowDays)
	}
	return WindowFrom(from, days), nil
}

// Contains returns true if d lies within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Len returns the number of calendar days in the range, 0 when empty.
func (r DateRange) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// Intersect returns the overlap of two ranges. ok is false when they do not
// overlap.
func (r DateRange) Intersect(o DateRange) (DateRange, bool) {
	start := r.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := r.End
	if o.End.Before(end) {
		end = o.End
	}
	if end.Before(start) {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

// OverlapDays counts the days shared by two ranges.
func (r DateRange) OverlapDays(o DateRange) int {
	overlap, ok := r.Intersect(o)
	if !ok {
		return 0
	}
	return overlap.Len()
}

// Days returns every date in the range in ascending order.
func (r DateRange) Days() []Date {
	var days []Date
	for current := r.Start; current.BeforeOrEqual(r.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
