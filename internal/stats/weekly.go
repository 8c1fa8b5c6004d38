package stats

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/core"
)

// WeeklyNet is the bar chart payload: one net amount (income - expense) per
// Monday-aligned week, oldest first.
type WeeklyNet struct {
	Labels []string `json:"labels"`
	Net    []int64  `json:"net"`
}

// WeeklyNet computes one net amount per Monday-aligned week for the given
// number of weeks, oldest first, ending at the week containing ref. Weeks
// without transactions appear with net 0. Store failures degrade to an
// all-zero series.
func (s *Service) WeeklyNet(ctx context.Context, userID int64, weeks int, ref time.Time) WeeklyNet {
	if weeks < 1 {
		return WeeklyNet{Labels: []string{}, Net: []int64{}}
	}

	newest := WeekStart(ref)
	oldest := newest.AddDate(0, 0, -7*(weeks-1))
	end := newest.AddDate(0, 0, 7)

	result := WeeklyNet{
		Labels: make([]string, weeks),
		Net:    make([]int64, weeks),
	}
	for i := 0; i < weeks; i++ {
		result.Labels[i] = weekLabel(oldest.AddDate(0, 0, 7*i))
	}

	for _, tx := range s.fetch(ctx, userID, oldest, end) {
		d := core.DateOnly(tx.Date)
		if d.Before(oldest) || !d.Before(end) {
			continue
		}
		bucket := int(d.Sub(oldest).Hours()) / (24 * 7)
		switch core.NormalizeKind(tx.Kind) {
		case core.KindIncome:
			result.Net[bucket] += tx.Amount
		case core.KindExpense:
			result.Net[bucket] -= tx.Amount
		}
	}

	return result
}

// weekLabel formats a week as "MM.DD~MM.DD" from its first and last day.
func weekLabel(start time.Time) string {
	last := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%02d.%02d~%02d.%02d",
		int(start.Month()), start.Day(), int(last.Month()), last.Day())
}
