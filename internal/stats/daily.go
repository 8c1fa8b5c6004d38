package stats

import (
	"ledger/internal/core"
)

// DailyTotals holds per-day sums for one calendar month, keyed by day of
// month. Days without activity are simply absent; the cumulative builder
// fills them in. Expense rows land in exactly one of the three payment
// buckets, with unclassified methods going to Other.
type DailyTotals struct {
	Income   map[int]int64
	Expense  map[int]int64
	Card     map[int]int64
	Transfer map[int]int64
	Other    map[int]int64
}

// AggregateDaily reduces the transactions of one period into per-day sums.
// It is a pure reduction: type and payment labels are normalized through the
// shared tables in core, rows outside [p.Start, p.End) are ignored, and rows
// whose kind resolves to neither income nor expense are skipped.
func AggregateDaily(txs []core.Transaction, p Period) DailyTotals {
	d := DailyTotals{
		Income:   make(map[int]int64),
		Expense:  make(map[int]int64),
		Card:     make(map[int]int64),
		Transfer: make(map[int]int64),
		Other:    make(map[int]int64),
	}

	for _, tx := range txs {
		if tx.Date.Before(p.Start) || !tx.Date.Before(p.End) {
			continue
		}
		day := tx.Date.Day()

		switch core.NormalizeKind(tx.Kind) {
		case core.KindIncome:
			d.Income[day] += tx.Amount
		case core.KindExpense:
			d.Expense[day] += tx.Amount
			switch core.NormalizePayMethod(tx.PayMethod) {
			case core.PayCard:
				d.Card[day] += tx.Amount
			case core.PayTransfer:
				d.Transfer[day] += tx.Amount
			default:
				d.Other[day] += tx.Amount
			}
		}
	}

	return d
}

// TotalIncome sums all income deltas of the period.
func (d DailyTotals) TotalIncome() int64 { return sumDays(d.Income) }

// TotalExpense sums all expense deltas of the period.
func (d DailyTotals) TotalExpense() int64 { return sumDays(d.Expense) }

func sumDays(byDay map[int]int64) int64 {
	var total int64
	for _, v := range byDay {
		total += v
	}
	return total
}
