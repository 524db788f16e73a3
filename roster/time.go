package roster

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Calendar day, no timezone
// =============================================================================

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Date is a local calendar day. The zero value is not a valid date.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "YYYY-MM-DD". Malformed input returns ok=false.
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, false
	}
	return NewDate(t.Year(), t.Month(), t.Day()), true
}

// MustParseDate panics on malformed input. Use in tests and fixtures.
func MustParseDate(s string) Date {
	d, ok := ParseDate(s)
	if !ok {
		panic("roster: malformed date " + s)
	}
	return d
}

func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }
func (d Date) AddDays(n int) Date        { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) IsZero() bool              { return d.t.IsZero() }
func (d Date) Weekday() time.Weekday     { return d.t.Weekday() }
func (d Date) String() string            { return d.t.Format(dateLayout) }

// DaysBetween returns to - from in whole days.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// CLOCK AND DATETIME
// =============================================================================

// Clock is a wall-clock time of day in minutes after midnight.
type Clock int

// ParseClock parses "HH:mm". Malformed input returns ok=false.
func ParseClock(s string) (Clock, bool) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return Clock(t.Hour()*60 + t.Minute()), true
}

// DateTime is a local wall-clock instant.
type DateTime struct {
	t time.Time
}

// Combine joins a date and an "HH:mm" clock string.
func Combine(d Date, clock string) (DateTime, bool) {
	c, ok := ParseClock(clock)
	if !ok || d.IsZero() {
		return DateTime{}, false
	}
	return DateTime{t: d.t.Add(time.Duration(c) * time.Minute)}, true
}

func (dt DateTime) Before(o DateTime) bool { return dt.t.Before(o.t) }
func (dt DateTime) After(o DateTime) bool  { return dt.t.After(o.t) }
func (dt DateTime) String() string         { return dt.t.Format("2006-01-02 15:04") }

// =============================================================================
// TIME MODEL
// =============================================================================

// HoursBetween returns b - a in hours. Negative when b precedes a.
func HoursBetween(a, b DateTime) decimal.Decimal {
	minutes := int64(b.t.Sub(a.t) / time.Minute)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
}

// InferEndDate returns the calendar date a duty ends on. A duty whose end
// clock is earlier than its pickup clock ends the next day; otherwise the
// explicit endDate is used when it parses, else the pickup date.
func InferEndDate(pickupDate Date, pickupTime, endTime, endDate string) (Date, bool) {
	pickup, ok := ParseClock(pickupTime)
	if !ok {
		return Date{}, false
	}
	end, ok := ParseClock(endTime)
	if !ok {
		return Date{}, false
	}
	if end < pickup {
		return pickupDate.AddDays(1), true
	}
	if explicit, ok := ParseDate(endDate); ok {
		return explicit, true
	}
	return pickupDate, true
}
