// Package date provides a calendar day type for acquisition, split and sale dates.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the ISO-8601 layout used to write dates.
const Layout = "2006-01-02"

// readLayout is more permissive than Layout and accepts "2025-7-1".
const readLayout = "2006-1-2"

// Date is a calendar day with no time of day and no location.
//
// The zero Date is not a valid day; use IsZero to detect it.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the normalized Date for the given year, month and day.
// Out of range values roll over the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of returns the day of t, in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

// Today returns the current day in the local time zone.
func Today() Date { return Of(time.Now()) }

// time returns midnight UTC of d, a canonical and comparable representation.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Add(days int) Date  { return New(d.y, d.m, d.d+days) }
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// OnOrBefore reports whether d is the same day as x or an earlier one.
func (d Date) OnOrBefore(x Date) bool { return d.Compare(x) <= 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, on or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmp(d.y, x.y)
	case d.m != x.m:
		return cmp(int(d.m), int(x.m))
	default:
		return cmp(d.d, x.d)
	}
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String formats the date using Layout.
func (d Date) String() string { return d.time().Format(Layout) }

// Parse parses a day. It accepts single digit months and days.
func Parse(s string) (Date, error) {
	t, err := time.Parse(readLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", s, Layout, err)
	}
	return Of(t), nil
}

// MustParse is like Parse but panics on error. It is meant for tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)
