package core

import (
	"math"
	"strings"
)

// Uncategorized is the sentinel category for entries with no usable label.
const Uncategorized = "Uncategorized"

// kindLabels maps trimmed, lowercased transaction-type labels to their
// canonical kind. The source data mixes Korean bank labels with English ones,
// so both synonym sets are listed here rather than scattered through queries.
var kindLabels = map[string]Kind{
	"입금":         KindIncome,
	"수입":         KindIncome,
	"income":     KindIncome,
	"deposit":    KindIncome,
	"출금":         KindExpense,
	"지출":         KindExpense,
	"expense":    KindExpense,
	"withdrawal": KindExpense,
}

// payLabels maps trimmed, lowercased payment-method labels to their canonical
// bucket. Anything absent from this table lands in PayOther.
var payLabels = map[string]PayMethod{
	"카드":       PayCard,
	"card":     PayCard,
	"계좌이체":     PayTransfer,
	"이체":       PayTransfer,
	"transfer": PayTransfer,
}

// NormalizeKind resolves a raw type label to its canonical kind.
// Unrecognized labels yield KindUnknown and are skipped by aggregation.
func NormalizeKind(label string) Kind {
	if k, ok := kindLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return k
	}
	return KindUnknown
}

// NormalizePayMethod resolves a raw payment label to exactly one bucket.
func NormalizePayMethod(label string) PayMethod {
	if p, ok := payLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return p
	}
	return PayOther
}

// NormalizeCategory trims a category label, substituting the Uncategorized
// sentinel for empty or whitespace-only values.
func NormalizeCategory(label string) string {
	c := strings.TrimSpace(label)
	if c == "" {
		return Uncategorized
	}
	return c
}

// ParseAmount converts a raw amount string to integer currency units,
// stripping thousands separators and any other non-digit characters
// ("1,234,000원" -> 1234000). Empty or digit-free input parses to zero.
// A single leading minus sign is honored. Values beyond the int64 range
// saturate at math.MaxInt64 / math.MinInt64 instead of wrapping.
func ParseAmount(raw string) int64 {
	s := strings.TrimSpace(raw)
	neg := strings.HasPrefix(s, "-")

	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		d := int64(r - '0')
		if n > (math.MaxInt64-d)/10 {
			if neg {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}
