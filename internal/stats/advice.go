package stats

import (
	"context"
	"fmt"
	"math"
	"time"
)

// adviceRatio is the share of the allowable budget beyond which a warning is
// issued.
const adviceRatio = 0.7

// SpendingAdvice compares this month's spending against a budget derived from
// last month and returns a warning message, or ok=false when no warning
// applies. The heuristic: lastMonthBudget = last month's income - expenses,
// totalAllowable = lastMonthBudget + this month's income. Spending more than
// 70% of a positive allowable budget warns with the percentage used; a
// non-positive allowable budget warns only when this month's expenses exceed
// its income. The result is advisory, not authoritative.
//
// Unlike the series views, a store failure here propagates to the caller:
// silently answering "no advice" would be misleading.
func (s *Service) SpendingAdvice(ctx context.Context, userID int64, now time.Time) (string, bool, error) {
	thisPeriod := PeriodOf(now)
	lastPeriod := PeriodOf(thisPeriod.Start.AddDate(0, 0, -1))

	thisMonth, err := s.aggregatePeriod(ctx, userID, thisPeriod)
	if err != nil {
		return "", false, fmt.Errorf("aggregate current month: %w", err)
	}
	lastMonth, err := s.aggregatePeriod(ctx, userID, lastPeriod)
	if err != nil {
		return "", false, fmt.Errorf("aggregate previous month: %w", err)
	}

	thisIncome := thisMonth.TotalIncome()
	thisExpense := thisMonth.TotalExpense()
	lastBudget := lastMonth.TotalIncome() - lastMonth.TotalExpense()
	totalAllowable := lastBudget + thisIncome

	if totalAllowable > 0 {
		ratio := float64(thisExpense) / float64(totalAllowable)
		if ratio > adviceRatio {
			pct := int(math.Round(ratio * 100))
			return fmt.Sprintf("You have already spent %d%% of this month's allowable budget. Consider slowing down.", pct), true, nil
		}
		return "", false, nil
	}

	if thisExpense > thisIncome {
		return "Your expenses exceed your income this month. Review your recent spending.", true, nil
	}
	return "", false, nil
}

// aggregatePeriod fetches one period without the zero-fill fallback.
func (s *Service) aggregatePeriod(ctx context.Context, userID int64, p Period) (DailyTotals, error) {
	txs, err := s.store.FetchByUserAndRange(ctx, userID, p.Start, p.End)
	if err != nil {
		return DailyTotals{}, fmt.Errorf("fetch range %s to %s: %w",
			p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"), err)
	}
	return AggregateDaily(txs, p), nil
}
