package filter

import (
	"fmt"
	"time"
)

// DateLayout is the accepted date format for range bounds.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range on the meeting date. Either bound may be
// open. The zero value filters nothing.
type DateRange struct {
	from *time.Time
	to   *time.Time
}

// NewDateRange parses and validates YYYY-MM-DD bounds. Empty strings leave
// the bound open.
func NewDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid from date %q (want %s)", from, DateLayout)
		}
		r.from = &t
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid to date %q (want %s)", to, DateLayout)
		}
		r.to = &t
	}
	if r.from != nil && r.to != nil && r.from.After(*r.to) {
		return DateRange{}, fmt.Errorf("from date must not be after to date")
	}
	return r, nil
}

// From returns the lower inclusive bound.
func (r DateRange) From() *time.Time { return r.from }

// To returns the upper inclusive bound.
func (r DateRange) To() *time.Time { return r.to }

// IsEmpty reports whether both bounds are open.
func (r DateRange) IsEmpty() bool { return r.from == nil && r.to == nil }

// UnixDays converts the bounds to days since the epoch, the unit the engine
// index stores dates in. Open bounds are reported as ok=false.
func (r DateRange) UnixDays() (lo int64, loOK bool, hi int64, hiOK bool) {
	if r.from != nil {
		lo, loOK = UnixDay(*r.from), true
	}
	if r.to != nil {
		hi, hiOK = UnixDay(*r.to), true
	}
	return lo, loOK, hi, hiOK
}

// UnixDay returns the number of whole days between the epoch and t in UTC.
func UnixDay(t time.Time) int64 {
	return t.UTC().Unix() / 86400
}

// FromUnixDay is the inverse of UnixDay.
func FromUnixDay(d int64) time.Time {
	return time.Unix(d*86400, 0).UTC()
}
