package stats

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ledger/internal/core"
)

// adviceStore builds a fake store holding fixed totals for June (current) and
// May (previous) 2025.
func adviceStore(thisIncome, thisExpense, lastIncome, lastExpense int64) *fakeStore {
	txs := []core.Transaction{
		{UserID: 1, Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Kind: "입금", Amount: thisIncome},
		{UserID: 1, Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Kind: "출금", Amount: thisExpense},
		{UserID: 1, Date: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), Kind: "입금", Amount: lastIncome},
		{UserID: 1, Date: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), Kind: "출금", Amount: lastExpense},
	}
	return &fakeStore{txs: txs}
}

var adviceNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestSpendingAdviceOverThreshold(t *testing.T) {
	// lastBudget = 1000-500 = 500; allowable = 500+500 = 1000; ratio = 0.8.
	svc := NewService(adviceStore(500, 800, 1000, 500))

	msg, ok, err := svc.SpendingAdvice(context.Background(), 1, adviceNow)
	if err != nil {
		t.Fatalf("SpendingAdvice: %v", err)
	}
	if !ok {
		t.Fatalf("expected a warning")
	}
	if !strings.Contains(msg, "80%") {
		t.Fatalf("message %q should contain 80%%", msg)
	}
}

func TestSpendingAdviceAtThresholdIsSilent(t *testing.T) {
	// ratio exactly 0.7 does not warn; the rule is strictly greater.
	svc := NewService(adviceStore(500, 700, 1000, 500))

	_, ok, err := svc.SpendingAdvice(context.Background(), 1, adviceNow)
	if err != nil {
		t.Fatalf("SpendingAdvice: %v", err)
	}
	if ok {
		t.Fatalf("ratio 0.7 must not warn")
	}
}

func TestSpendingAdviceNegativeBudgetSpendingWithinIncome(t *testing.T) {
	// allowable = (0-200)+100 = -100; expense 50 < income 100: no advice.
	svc := NewService(adviceStore(100, 50, 0, 200))

	msg, ok, err := svc.SpendingAdvice(context.Background(), 1, adviceNow)
	if err != nil {
		t.Fatalf("SpendingAdvice: %v", err)
	}
	if ok {
		t.Fatalf("expected no advice, got %q", msg)
	}
}

func TestSpendingAdviceNegativeBudgetOverspending(t *testing.T) {
	// allowable <= 0 and this month's expenses exceed its income.
	svc := NewService(adviceStore(100, 150, 0, 200))

	msg, ok, err := svc.SpendingAdvice(context.Background(), 1, adviceNow)
	if err != nil {
		t.Fatalf("SpendingAdvice: %v", err)
	}
	if !ok || !strings.Contains(msg, "exceed") {
		t.Fatalf("expected overspending warning, got ok=%v msg=%q", ok, msg)
	}
}

func TestSpendingAdviceStoreFailurePropagates(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("store down")})

	_, _, err := svc.SpendingAdvice(context.Background(), 1, adviceNow)
	if err == nil {
		t.Fatalf("store failure must propagate on the advice path")
	}
}
