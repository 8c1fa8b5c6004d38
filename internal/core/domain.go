package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindUnknown Kind = "unknown"
)

const (
	PayCard     PayMethod = "card"
	PayTransfer PayMethod = "transfer"
	PayOther    PayMethod = "other"
)

type (
	// Kind is the canonical transaction direction after label normalization.
	Kind string

	// PayMethod is the canonical payment bucket after label normalization.
	PayMethod string

	// Transaction is a single ledger entry. Kind, Category and PayMethod hold
	// the labels as entered by the user; aggregation normalizes them through
	// NormalizeKind, NormalizeCategory and NormalizePayMethod. Amount is in
	// integer currency units, already stripped of display separators.
	Transaction struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"userId"`
		Date        time.Time `json:"date"`
		Kind        string    `json:"kind"`
		Description string    `json:"description"`
		Amount      int64     `json:"amount"`
		Category    string    `json:"category"`
		PayMethod   string    `json:"payMethod"`
	}

	User struct {
		ID           int64
		Username     string
		DisplayName  string
		PasswordHash string
		CreatedAt    time.Time
	}

	Session struct {
		Token     string
		UserID    int64
		ExpiresAt time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrEmptyDescription = errors.New("empty description")
)

// DateOnly truncates t to midnight UTC. Ledger dates carry no time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if NormalizeKind(t.Kind) == KindUnknown {
		return ErrInvalidKind
	}
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
