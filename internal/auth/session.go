package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/core"
)

// SessionStore is the slice of the repository the session manager needs.
type SessionStore interface {
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	SessionUser(ctx context.Context, token string, now time.Time) (core.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Manager issues and resolves opaque session tokens with a fixed lifetime.
// Tokens are random and server-side only; revoking one is a store delete.
type Manager struct {
	store SessionStore
	ttl   time.Duration
}

func NewManager(store SessionStore, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Issue creates a session for the user and returns the token with its expiry.
func (m *Manager) Issue(ctx context.Context, userID int64) (string, time.Time, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiresAt := time.Now().Add(m.ttl)

	if err := m.store.CreateSession(ctx, token, userID, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("persist session: %w", err)
	}
	return token, expiresAt, nil
}

// Resolve returns the user owning a live session token.
func (m *Manager) Resolve(ctx context.Context, token string) (core.User, error) {
	return m.store.SessionUser(ctx, token, time.Now())
}

// Revoke deletes a session; revoking an unknown token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	return m.store.DeleteSession(ctx, token)
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// PruneLoop deletes expired sessions every interval until ctx is canceled.
// Run it in the main errgroup alongside the HTTP server.
func (m *Manager) PruneLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := m.store.DeleteExpiredSessions(ctx, time.Now())
			if err != nil {
				slog.WarnContext(ctx, "Session prune failed", "error", err)
				continue
			}
			if n > 0 {
				slog.DebugContext(ctx, "Expired sessions pruned", "count", n)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
