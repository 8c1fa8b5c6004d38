package stats

import (
	"math"
	"sort"

	"ledger/internal/core"
)

// CategoryShare is one category's slice of the month's expenses.
type CategoryShare struct {
	Category string  `json:"category"`
	Amount   int64   `json:"amount"`
	Pct      float64 `json:"pct"`
}

// CategoryBreakdown is the month's expense total and its per-category split,
// largest first.
type CategoryBreakdown struct {
	Total int64           `json:"total"`
	Items []CategoryShare `json:"items"`
}

// AggregateCategories groups expense transactions by normalized category and
// computes each group's share of the total. Groups whose sum is zero or
// negative are dropped entirely; amount normalization can produce them from
// bad source rows and they would distort the percentages. Items are ordered
// by amount descending, ties broken by category label ascending so the output
// is deterministic.
func AggregateCategories(txs []core.Transaction) CategoryBreakdown {
	sums := make(map[string]int64)
	for _, tx := range txs {
		if core.NormalizeKind(tx.Kind) != core.KindExpense {
			continue
		}
		sums[core.NormalizeCategory(tx.Category)] += tx.Amount
	}

	breakdown := CategoryBreakdown{Items: make([]CategoryShare, 0, len(sums))}
	for category, amount := range sums {
		if amount <= 0 {
			continue
		}
		breakdown.Total += amount
		breakdown.Items = append(breakdown.Items, CategoryShare{Category: category, Amount: amount})
	}

	sort.Slice(breakdown.Items, func(i, j int) bool {
		if breakdown.Items[i].Amount != breakdown.Items[j].Amount {
			return breakdown.Items[i].Amount > breakdown.Items[j].Amount
		}
		return breakdown.Items[i].Category < breakdown.Items[j].Category
	})

	for i := range breakdown.Items {
		breakdown.Items[i].Pct = percent(breakdown.Items[i].Amount, breakdown.Total)
	}

	return breakdown
}

// percent returns part/total*100 rounded to one decimal place, and 0.0 when
// total is zero.
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
