package transaction

import (
	"fmt"
	"math"
	"time"
)

// DayLayout is the calendar-day form accepted for the createdAt filter
const DayLayout = "2006-01-02"

// DayRange is the half-open interval [Start, End) covering one calendar day.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// NewDayRange returns the calendar day containing t, evaluated in loc.
func NewDayRange(t time.Time, loc *time.Location) DayRange {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return DayRange{
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

// Contains reports whether t falls inside the day
func (d DayRange) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// ParseDay parses a createdAt filter value. A bare date is taken in loc;
// a full RFC3339 timestamp selects the day it falls on in loc.
func ParseDay(value string, loc *time.Location) (DayRange, error) {
	if t, err := time.ParseInLocation(DayLayout, value, loc); err == nil {
		return NewDayRange(t, loc), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return NewDayRange(t, loc), nil
	}
	return DayRange{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
}

// Filter narrows a transaction listing. Zero values mean "no filter".
type Filter struct {
	CreatedAt   *DayRange
	Email       string
	CompanyName string
}

// NeedsJoin reports whether the filter touches users or companies. When it
// does, pagination can only happen after the joins; otherwise the page is cut
// before joining so only the rows being returned are looked up.
func (f Filter) NeedsJoin() bool {
	return f.Email != "" || f.CompanyName != ""
}

// Page selects a window of the sorted listing. Page is 1-based.
type Page struct {
	Page  int64
	Limit int64
}

// Skip is the number of rows before the page. It saturates at MaxInt64
// instead of overflowing, so an absurd page reads past the end of the data.
func (p Page) Skip() int64 {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return (p.Page - 1) * p.Limit
}

// MaxPage is the largest page number whose offset fits in an int64.
func MaxPage(limit int64) int64 {
	if limit < 1 {
		return math.MaxInt64
	}
	return math.MaxInt64 / limit
}
