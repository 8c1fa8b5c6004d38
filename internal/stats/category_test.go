package stats

import (
	"testing"

	"ledger/internal/core"
)

func TestAggregateCategoriesMergesRows(t *testing.T) {
	b := AggregateCategories([]core.Transaction{
		{Date: day(1), Kind: "출금", Amount: 300, Category: "Food"},
		{Date: day(9), Kind: "출금", Amount: 200, Category: "Food"},
	})

	if b.Total != 500 {
		t.Fatalf("total = %d, want 500", b.Total)
	}
	if len(b.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(b.Items))
	}
	item := b.Items[0]
	if item.Category != "Food" || item.Amount != 500 || item.Pct != 100.0 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestAggregateCategoriesSortAndTieBreak(t *testing.T) {
	b := AggregateCategories([]core.Transaction{
		{Date: day(1), Kind: "출금", Amount: 100, Category: "Transport"},
		{Date: day(2), Kind: "출금", Amount: 400, Category: "Food"},
		{Date: day(3), Kind: "출금", Amount: 100, Category: "Books"},
	})

	want := []string{"Food", "Books", "Transport"} // ties ordered by label
	for i, c := range want {
		if b.Items[i].Category != c {
			t.Fatalf("item %d = %q, want %q", i, b.Items[i].Category, c)
		}
	}
}

func TestAggregateCategoriesIgnoresIncomeAndUsesSentinel(t *testing.T) {
	b := AggregateCategories([]core.Transaction{
		{Date: day(1), Kind: "입금", Amount: 9000, Category: "Salary"},
		{Date: day(2), Kind: "출금", Amount: 120, Category: "   "},
		{Date: day(2), Kind: "출금", Amount: 80, Category: ""},
	})

	if b.Total != 200 {
		t.Fatalf("total = %d, want 200", b.Total)
	}
	if len(b.Items) != 1 || b.Items[0].Category != core.Uncategorized {
		t.Fatalf("unexpected items %+v", b.Items)
	}
}

func TestAggregateCategoriesDropsNonPositiveGroups(t *testing.T) {
	b := AggregateCategories([]core.Transaction{
		{Date: day(1), Kind: "출금", Amount: 500, Category: "Food"},
		{Date: day(2), Kind: "출금", Amount: -500, Category: "Refunds"},
		{Date: day(3), Kind: "출금", Amount: 0, Category: "Zero"},
	})

	if b.Total != 500 {
		t.Fatalf("total = %d, want 500", b.Total)
	}
	if len(b.Items) != 1 || b.Items[0].Category != "Food" {
		t.Fatalf("non-positive groups should be dropped, got %+v", b.Items)
	}
}

func TestAggregateCategoriesPercentages(t *testing.T) {
	b := AggregateCategories([]core.Transaction{
		{Date: day(1), Kind: "출금", Amount: 1, Category: "A"},
		{Date: day(1), Kind: "출금", Amount: 2, Category: "B"},
	})

	// 1/3 and 2/3, rounded to one decimal place.
	if b.Items[0].Pct != 66.7 || b.Items[1].Pct != 33.3 {
		t.Fatalf("unexpected percentages %+v", b.Items)
	}
	var sum float64
	for _, item := range b.Items {
		sum += item.Pct
	}
	if sum > 100.0+1e-9 {
		t.Fatalf("percentages sum to %.2f, want <= 100", sum)
	}
}

func TestAggregateCategoriesEmpty(t *testing.T) {
	b := AggregateCategories(nil)
	if b.Total != 0 {
		t.Fatalf("total = %d, want 0", b.Total)
	}
	if b.Items == nil || len(b.Items) != 0 {
		t.Fatalf("items should be an empty, non-nil slice; got %#v", b.Items)
	}
}
