package stats

import (
	"context"
	"log/slog"
	"time"

	"ledger/internal/core"
)

// Store is the slice of the ledger store the aggregation engine consumes.
// Implementations must scope results to the given user and to the half-open
// date range [start, end).
type Store interface {
	FetchByUserAndRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Transaction, error)
}

// Service computes the statistics views over a user's ledger. Every method
// recomputes from the store on each call; results are never cached and no
// state is shared between requests.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// MonthlyTotal is the cumulative-spend line chart payload.
type MonthlyTotal struct {
	Labels    []string `json:"labels"`
	ThisMonth []int64  `json:"thisMonth"`
}

// MonthlySpend is the detailed month view: five cumulative series plus their
// month-end totals.
type MonthlySpend struct {
	Labels        []string `json:"labels"`
	CumIncome     []int64  `json:"cumIncome"`
	CumSpend      []int64  `json:"cumSpend"`
	CumCard       []int64  `json:"cumCard"`
	CumTransfer   []int64  `json:"cumTransfer"`
	CumOther      []int64  `json:"cumOther"`
	TotalIncome   int64    `json:"totalIncome"`
	TotalSpend    int64    `json:"totalSpend"`
	TotalCard     int64    `json:"totalCard"`
	TotalTransfer int64    `json:"totalTransfer"`
	TotalOther    int64    `json:"totalOther"`
}

// MonthlyTotal returns the cumulative expense series for one month. A store
// failure degrades to a zero-filled series rather than failing the request;
// the statistics page stays available and the failure is logged. The only
// returned error is ErrInvalidPeriod.
func (s *Service) MonthlyTotal(ctx context.Context, userID int64, year, month int) (MonthlyTotal, error) {
	p, err := NewPeriod(year, month)
	if err != nil {
		return MonthlyTotal{}, err
	}

	daily := AggregateDaily(s.fetch(ctx, userID, p.Start, p.End), p)
	return MonthlyTotal{
		Labels:    DayLabels(p.Days),
		ThisMonth: Cumulative(daily.Expense, p.Days),
	}, nil
}

// MonthlySpend returns all five cumulative series for one month. Store
// failures degrade to zero-filled series, as in MonthlyTotal.
func (s *Service) MonthlySpend(ctx context.Context, userID int64, year, month int) (MonthlySpend, error) {
	p, err := NewPeriod(year, month)
	if err != nil {
		return MonthlySpend{}, err
	}

	daily := AggregateDaily(s.fetch(ctx, userID, p.Start, p.End), p)
	return MonthlySpend{
		Labels:        DayLabels(p.Days),
		CumIncome:     Cumulative(daily.Income, p.Days),
		CumSpend:      Cumulative(daily.Expense, p.Days),
		CumCard:       Cumulative(daily.Card, p.Days),
		CumTransfer:   Cumulative(daily.Transfer, p.Days),
		CumOther:      Cumulative(daily.Other, p.Days),
		TotalIncome:   daily.TotalIncome(),
		TotalSpend:    daily.TotalExpense(),
		TotalCard:     sumDays(daily.Card),
		TotalTransfer: sumDays(daily.Transfer),
		TotalOther:    sumDays(daily.Other),
	}, nil
}

// MonthlyCategories returns the per-category expense breakdown for one month.
// Store failures degrade to an empty breakdown.
func (s *Service) MonthlyCategories(ctx context.Context, userID int64, year, month int) (CategoryBreakdown, error) {
	p, err := NewPeriod(year, month)
	if err != nil {
		return CategoryBreakdown{}, err
	}
	return AggregateCategories(s.fetch(ctx, userID, p.Start, p.End)), nil
}

// fetch wraps the store call with the availability-over-correctness policy:
// on failure it logs and returns no rows, which downstream aggregation turns
// into zero-filled output.
func (s *Service) fetch(ctx context.Context, userID int64, start, end time.Time) []core.Transaction {
	txs, err := s.store.FetchByUserAndRange(ctx, userID, start, end)
	if err != nil {
		slog.WarnContext(ctx, "Ledger store fetch failed, serving zero-filled stats",
			"error", err,
			"user_id", userID,
			"start", start.Format("2006-01-02"),
			"end", end.Format("2006-01-02"))
		return nil
	}
	return txs
}
