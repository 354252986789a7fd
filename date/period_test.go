package date

import (
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	testCases := []struct {
		name   string
		in     Date
		period Period
		want   Range
	}{
		{"Day", New(2025, time.September, 8), Daily, Range{New(2025, time.September, 8), New(2025, time.September, 8)}},
		{"A Wednesday", New(2025, time.September, 10), Weekly, Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"A Sunday", New(2025, time.September, 14), Weekly, Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"A leap year", New(2024, time.February, 15), Monthly, Range{New(2024, time.February, 1), New(2024, time.February, 29)}},
		{"December", New(2024, time.December, 15), Monthly, Range{New(2024, time.December, 1), New(2024, time.December, 31)}},
		{"Q2", New(2025, time.May, 20), Quarterly, Range{New(2025, time.April, 1), New(2025, time.June, 30)}},
		{"Q4", New(2025, time.November, 2), Quarterly, Range{New(2025, time.October, 1), New(2025, time.December, 31)}},
		{"Year", New(2025, time.September, 8), Yearly, Range{New(2025, time.January, 1), New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewRange(tc.in, tc.period); got != tc.want {
				t.Errorf("NewRange(%v, %v) = %v, want %v", tc.in, tc.period, got, tc.want)
			}
		})
	}
}

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{
		"day": Daily, "weekly": Weekly, "Month": Monthly, "quarter": Quarterly, "YEAR": Yearly,
	} {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Errorf("ParsePeriod(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Error("ParsePeriod(fortnight) should fail")
	}
}

func TestRange_String(t *testing.T) {
	d := New(2025, time.September, 8)
	testCases := []struct {
		in   Range
		want string
	}{
		{Range{}, "all time"},
		{NewRange(d, Daily), "2025-09-08"},
		{NewRange(d, Monthly), "2025-09"},
		{NewRange(d, Quarterly), "2025-Q3"},
		{NewRange(d, Yearly), "2025"},
		{NewRange(New(2025, time.January, 5), Monthly), "2025-01"},
		{Range{New(2025, time.September, 2), New(2025, time.September, 10)}, "2025-09-02 to 2025-09-10"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRange_Contains(t *testing.T) {
	r := NewRange(New(2025, time.March, 10), Monthly)
	for day, want := range map[Date]bool{
		New(2025, time.February, 28): false,
		New(2025, time.March, 1):     true,
		New(2025, time.March, 31):    true,
		New(2025, time.April, 1):     false,
	} {
		if got := r.Contains(day); got != want {
			t.Errorf("%v.Contains(%v) = %v, want %v", r, day, got, want)
		}
	}
	if !(Range{}).Contains(New(1900, time.January, 1)) {
		t.Error("the zero range contains every day")
	}
}
