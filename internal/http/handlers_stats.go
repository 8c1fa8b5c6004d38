package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ledger/internal/log"
	"ledger/internal/stats"
)

const (
	defaultWeeklyWindow = 10

	// maxWeeklyWindow bounds the series length; the output scales linearly
	// with n, so an unbounded value would let one request allocate without
	// limit.
	maxWeeklyWindow = 260
)

func (s *Server) handleMonthlyTotal(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.stats.MonthlyTotal(r.Context(), user.ID, year, month)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlySpend(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.stats.MonthlySpend(r.Context(), user.ID, year, month)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlyCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.stats.MonthlyCategories(r.Context(), user.ID, year, month)
	if err != nil {
		if errors.Is(err, stats.ErrInvalidPeriod) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "could not compute statistics")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleWeekly returns the weekly net series. ?n= controls the window size
// and defaults to ten weeks ending with the current one.
func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	weeks := defaultWeeklyWindow
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxWeeklyWindow {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("n must be between 1 and %d", maxWeeklyWindow))
			return
		}
		weeks = n
	}

	out := s.stats.WeeklyNet(r.Context(), user.ID, weeks, time.Now())
	writeJSON(w, http.StatusOK, out)
}

// handleSpendingAdvice returns {"advice": <string>} when the heuristic fires
// and {"advice": null} otherwise. Unlike the chart endpoints this one fails
// loudly on store errors; advice computed from partial data would mislead.
func (s *Server) handleSpendingAdvice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := userFrom(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	msg, ok, err := s.stats.SpendingAdvice(ctx, user.ID, time.Now())
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Spending advice failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "could not compute advice")
		return
	}

	var advice *string
	if ok {
		advice = &msg
	}
	writeJSON(w, http.StatusOK, map[string]*string{"advice": advice})
}
