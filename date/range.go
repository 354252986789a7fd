package date

import "fmt"

// Range is a range of days, both ends included. The zero Range is unbounded.
type Range struct{ From, To Date }

// NewRange returns the period p containing d.
func NewRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// IsZero reports whether r is the unbounded range.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains reports whether day is in r.
func (r Range) Contains(day Date) bool {
	if r.IsZero() {
		return true
	}
	return !day.Before(r.From) && !day.After(r.To)
}

// String names the range: "2025" for a year, "2025-Q1" for a quarter,
// "2025-03" for a month, the bounds otherwise.
func (r Range) String() string {
	switch {
	case r.IsZero():
		return "all time"
	case r.From == r.To:
		return r.From.String()
	case r.From == r.From.StartOf(Yearly) && r.To == r.From.EndOf(Yearly):
		return fmt.Sprintf("%d", r.From.Year())
	case r.From == r.From.StartOf(Quarterly) && r.To == r.From.EndOf(Quarterly):
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case r.From.Day() == 1 && r.To == r.From.EndOf(Monthly):
		return fmt.Sprintf("%d-%02d", r.From.Year(), r.From.Month())
	default:
		return fmt.Sprintf("%s to %s", r.From, r.To)
	}
}
