package model

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ZoneID is an IANA-style timezone name such as "Europe/Sofia".
type ZoneID string

func (z ZoneID) String() string { return string(z) }

// CalendarDate is a zone-agnostic year/month/day.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t as read in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

func (d CalendarDate) IsZero() bool { return d == CalendarDate{} }

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays moves the date by n days, normalizing month and year boundaries.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d CalendarDate) Before(other CalendarDate) bool {
	return d.midnight().Before(other.midnight())
}

func (d CalendarDate) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime is a zone-agnostic wall clock reading in 24-hour form.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func At(hour int) ClockTime { return ClockTime{Hour: hour} }

func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func (c ClockTime) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// LocalInstant is a wall clock reading in a specific zone. It is not a universal instant until
// resolved through a zone rule provider.
type LocalInstant struct {
	Date  CalendarDate
	Clock ClockTime
	Zone  ZoneID
}

// Naive returns the reading as if it were a UTC instant. Only the fields are meaningful.
func (l LocalInstant) Naive() time.Time {
	return time.Date(l.Date.Year, l.Date.Month, l.Date.Day, l.Clock.Hour, l.Clock.Minute, 0, 0, time.UTC)
}

// FromNaive reads the UTC fields of t as a wall clock reading in zone, truncated to the minute.
func FromNaive(t time.Time, zone ZoneID) LocalInstant {
	t = t.UTC()
	return LocalInstant{
		Date:  DateOf(t),
		Clock: ClockTime{Hour: t.Hour(), Minute: t.Minute()},
		Zone:  zone,
	}
}

func (l LocalInstant) String() string {
	return l.Date.String() + " " + l.Clock.String() + " " + string(l.Zone)
}
