package stats

import (
	"errors"
	"fmt"
	"time"

	"ledger/internal/core"
)

// ErrInvalidPeriod reports a malformed year/month pair. Handlers translate it
// to a client error.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a half-open calendar month window [Start, End). End is the first
// day of the following month, which makes 28/29/30/31-day months uniform.
type Period struct {
	Year  int
	Month int // 1-12
	Days  int
	Start time.Time // inclusive
	End   time.Time // exclusive
}

// NewPeriod builds the Period for a given year and month.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d out of range", ErrInvalidPeriod, month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return Period{
		Year:  year,
		Month: month,
		Days:  end.AddDate(0, 0, -1).Day(),
		Start: start,
		End:   end,
	}, nil
}

// PeriodOf returns the Period of the month containing t.
func PeriodOf(t time.Time) Period {
	p, _ := NewPeriod(t.Year(), int(t.Month()))
	return p
}

// WeekStart returns the most recent Monday on or before t, at midnight UTC.
// Monday alignment is computed from the weekday offset so it does not depend
// on host locale settings.
func WeekStart(t time.Time) time.Time {
	d := core.DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday == 0
	return d.AddDate(0, 0, -offset)
}
