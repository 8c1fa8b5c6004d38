package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// transactionPayload is the wire form of a ledger entry. Date travels as a
// YYYY-MM-DD string and amount tolerates formatted input on the way in.
type transactionPayload struct {
	ID          int64      `json:"id,omitempty"`
	Date        string     `json:"date"`
	Kind        string     `json:"kind"`
	Description string     `json:"description"`
	Amount      flexAmount `json:"amount"`
	Category    string     `json:"category"`
	PayMethod   string     `json:"payMethod"`
}

func (p transactionPayload) toTransaction(userID int64) (core.Transaction, error) {
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          p.ID,
		UserID:      userID,
		Date:        date,
		Kind:        p.Kind,
		Description: p.Description,
		Amount:      int64(p.Amount),
		Category:    p.Category,
		PayMethod:   p.PayMethod,
	}, nil
}

func toPayload(tx core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          tx.ID,
		Date:        tx.Date.Format("2006-01-02"),
		Kind:        tx.Kind,
		Description: tx.Description,
		Amount:      flexAmount(tx.Amount),
		Category:    tx.Category,
		PayMethod:   tx.PayMethod,
	}
}

func toPayloads(txs []core.Transaction) []transactionPayload {
	out := make([]transactionPayload, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toPayload(tx))
	}
	return out
}

// handleListTransactions lists the user's transactions, optionally filtered
// to a single ?date=YYYY-MM-DD.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := userFrom(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	var (
		txs []core.Transaction
		err error
	)
	if raw := r.URL.Query().Get("date"); raw != "" {
		var date time.Time
		date, err = core.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		txs, err = s.ledger.FetchByUserAndDate(ctx, user.ID, date)
	} else {
		txs, err = s.ledger.ListByUser(ctx, user.ID)
	}
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Transaction list failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "could not load transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": toPayloads(txs)})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := userFrom(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := payload.toTransaction(user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledger.InsertTransaction(ctx, tx)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Transaction insert failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Transaction created", "id", created.ID, "user_id", user.ID)

	txs, err := s.ledger.FetchByUserAndDate(ctx, user.ID, created.Date)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Transaction refresh failed", "error", err)
		txs = []core.Transaction{created}
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transactions": toPayloads(txs)})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := userFrom(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := payload.toTransaction(user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx.ID = id
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.UpdateTransaction(ctx, tx); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Transaction update failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not update transaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := userFrom(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.ledger.DeleteTransaction(ctx, id, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Transaction delete failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not delete transaction")
		return
	}

	txs, err := s.ledger.ListByUser(ctx, user.ID)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Transaction refresh failed", "error", err)
		txs = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": toPayloads(txs)})
}
