package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ledger/internal/core"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound reports a lookup or a user-scoped update/delete that matched no
// row. Callers branch on it with errors.Is instead of inspecting messages.
var ErrNotFound = errors.New("not found")

// ErrConflict reports an insert that lost to a unique constraint. Duplicate
// checks before the insert can race, so the constraint is the authority.
var ErrConflict = errors.New("already exists")

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// SQLiteRepository backs the user, session and ledger stores with one SQLite
// database. All queries are user-scoped; connections are pooled by
// database/sql and held only for the duration of each call.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, displayName, passwordHash string) (core.User, error) {
	user := core.User{Username: username, DisplayName: displayName, PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, display_name, password_hash)
		VALUES (?, ?, ?)
		RETURNING id, created_at`,
		username, displayName, passwordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("create user: %w", ErrConflict)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", user.ID, "username", username)
	return user, nil
}

func (r *SQLiteRepository) FindUserByUsername(ctx context.Context, username string) (core.User, error) {
	var user core.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, display_name, password_hash, created_at
		FROM users
		WHERE username = ?`, username).
		Scan(&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) FindUserByDisplayName(ctx context.Context, displayName string) (core.User, error) {
	var user core.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, display_name, password_hash, created_at
		FROM users
		WHERE display_name = ?`, displayName).
		Scan(&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user by display name: %w", err)
	}
	return user, nil
}

// --- sessions ---

func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionUser resolves a session token to its user, honoring expiry.
func (r *SQLiteRepository) SessionUser(ctx context.Context, token string, now time.Time) (core.User, error) {
	var user core.User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.display_name, u.password_hash, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?`,
		token, now.UTC().Format(time.RFC3339)).
		Scan(&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("resolve session: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`,
		now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired sessions rows affected: %w", err)
	}
	return n, nil
}

// --- transactions ---

const transactionColumns = `id, user_id, tx_date, kind, description, amount, category, pay_method`

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, tx_date, kind, description, amount, category, pay_method)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		tx.UserID, tx.Date.Format("2006-01-02"), tx.Kind, tx.Description,
		strconv.FormatInt(tx.Amount, 10), tx.Category, tx.PayMethod).
		Scan(&tx.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"kind", tx.Kind,
		"amount", tx.Amount,
		"date", tx.Date.Format("2006-01-02"))
	return tx, nil
}

// UpdateTransaction rewrites all mutable fields of the user's transaction.
// Zero rows affected means the id does not exist or belongs to someone else;
// both cases surface as ErrNotFound.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET tx_date = ?, kind = ?, description = ?, amount = ?, category = ?, pay_method = ?
		WHERE id = ? AND user_id = ?`,
		tx.Date.Format("2006-01-02"), tx.Kind, tx.Description,
		strconv.FormatInt(tx.Amount, 10), tx.Category, tx.PayMethod,
		tx.ID, tx.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's full ledger, newest date first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ?
		ORDER BY tx_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// FetchByUserAndDate returns one day's transactions in insertion order.
func (r *SQLiteRepository) FetchByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND tx_date = ?
		ORDER BY id ASC`, userID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("fetch transactions by date: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// FetchByUserAndRange returns transactions with start <= date < end, the
// contract the aggregation engine is built on.
func (r *SQLiteRepository) FetchByUserAndRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND tx_date >= ? AND tx_date < ?
		ORDER BY tx_date ASC, id ASC`,
		userID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("fetch transactions by range: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// scanTransactions builds typed records at the store boundary: dates are
// parsed, amounts normalized, NULL category/pay_method mapped to empty
// strings. Aggregators never see raw rows.
func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		var (
			tx        core.Transaction
			date      string
			amount    sql.NullString
			category  sql.NullString
			payMethod sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &date, &tx.Kind, &tx.Description,
			&amount, &category, &payMethod); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		parsed, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		tx.Date = parsed
		tx.Amount = core.ParseAmount(amount.String)
		tx.Category = category.String
		tx.PayMethod = payMethod.String
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}
