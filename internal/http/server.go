package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"ledger/internal/auth"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/stats"
)

const sessionCookieName = "ledger_session"

// UserStore is the user-account slice of the repository.
type UserStore interface {
	CreateUser(ctx context.Context, username, displayName, passwordHash string) (core.User, error)
	FindUserByUsername(ctx context.Context, username string) (core.User, error)
	FindUserByDisplayName(ctx context.Context, displayName string) (core.User, error)
}

// LedgerStore is the transaction CRUD slice of the repository.
type LedgerStore interface {
	InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID int64) error
	ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
	FetchByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]core.Transaction, error)
}

// Server is the JSON API over the ledger: auth, transaction CRUD and the
// statistics endpoints.
type Server struct {
	http.Server
	users    UserStore
	ledger   LedgerStore
	stats    *stats.Service
	sessions *auth.Manager
	limiter  *ratelimit.Limiter
}

// NewServer configures all routes and returns a ready-to-run server.
// Everything under /api except the auth endpoints requires a session.
func NewServer(addr string, logger *log.Logger, users UserStore, ledgerStore LedgerStore, statsSvc *stats.Service, sessions *auth.Manager) *Server {
	s := &Server{
		users:    users,
		ledger:   ledgerStore,
		stats:    statsSvc,
		sessions: sessions,
	}

	r := mux.NewRouter()
	r.Use(log.Middleware(logger))
	r.Use(s.withRequestLog)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", handleReady).Methods(http.MethodGet)

	// Public routes. Credential endpoints are rate limited per client IP.
	s.limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	creds := r.PathPrefix("/api/auth").Subrouter()
	creds.Use(s.limiter.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "too many attempts, try again later")
	}))
	creds.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	creds.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	creds.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	// Protected routes
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(s.requireSession)
	authed.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	authed.HandleFunc("/transactions/{id:[0-9]+}", s.handleUpdateTransaction).Methods(http.MethodPut)
	authed.HandleFunc("/transactions/{id:[0-9]+}", s.handleDeleteTransaction).Methods(http.MethodDelete)
	authed.HandleFunc("/stats/monthly-total", s.handleMonthlyTotal).Methods(http.MethodGet)
	authed.HandleFunc("/stats/monthly-spend", s.handleMonthlySpend).Methods(http.MethodGet)
	authed.HandleFunc("/stats/monthly-cats", s.handleMonthlyCategories).Methods(http.MethodGet)
	authed.HandleFunc("/stats/weekly", s.handleWeekly).Methods(http.MethodGet)
	authed.HandleFunc("/stats/spending-advice", s.handleSpendingAdvice).Methods(http.MethodGet)

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Shutdown stops the rate limiter alongside the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

// withRequestLog tags every request with an id, sets baseline security
// headers and logs method/path/status/duration.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		logger := log.FromContext(r.Context()).With("request_id", requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger.InfoContext(ctx, "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// requireSession rejects requests without a live session cookie and stores
// the resolved user in the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		user, err := s.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// responseWriter captures the status code for the request log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
