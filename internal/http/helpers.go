package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/stats"
)

type contextKey string

const userContextKey contextKey = "user"

func withUser(ctx context.Context, user core.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// userFrom returns the session user placed in the context by requireSession.
func userFrom(ctx context.Context) (core.User, bool) {
	user, ok := ctx.Value(userContextKey).(core.User)
	return user, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseYearMonth extracts year and month from query parameters, defaulting to
// the current date. Malformed values map to ErrInvalidPeriod; range checking
// is left to stats.NewPeriod.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, 0, fmt.Errorf("%w: year %q", stats.ErrInvalidPeriod, v)
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, 0, fmt.Errorf("%w: month %q", stats.ErrInvalidPeriod, v)
		}
		month = m
	}
	return year, month, nil
}

// flexAmount accepts both JSON numbers and formatted strings ("1,000");
// a fractional part is truncated since the ledger counts whole currency
// units. Any other JSON type is an error.
type flexAmount int64

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return errors.New("amount: empty value")
	}
	switch s[0] {
	case '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	default:
		return errors.New("amount must be a number or a string")
	}
	s = strings.Trim(s, `"`)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	*a = flexAmount(core.ParseAmount(s))
	return nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
