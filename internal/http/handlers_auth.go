package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ledger/internal/auth"
	"ledger/internal/log"
	"ledger/internal/storage"
)

type registerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if req.Username == "" || req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "username and displayName are required")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if _, err := s.users.FindUserByUsername(ctx, req.Username); !errors.Is(err, storage.ErrNotFound) {
		if err == nil {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "User lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if _, err := s.users.FindUserByDisplayName(ctx, req.DisplayName); !errors.Is(err, storage.ErrNotFound) {
		if err == nil {
			writeError(w, http.StatusConflict, "display name already taken")
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "User lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Password hash failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user, err := s.users.CreateUser(ctx, req.Username, req.DisplayName, hash)
	if err != nil {
		// The pre-insert lookups race with concurrent registrations; the
		// unique constraint is what actually decides.
		if errors.Is(err, storage.ErrConflict) {
			writeError(w, http.StatusConflict, "username or display name already taken")
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "User creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "User registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          user.ID,
		"username":    user.Username,
		"displayName": user.DisplayName,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	user, err := s.users.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "User lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, expiresAt, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Session issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.FromContext(ctx).InfoContext(ctx, "User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":          user.ID,
		"username":    user.Username,
		"displayName": user.DisplayName,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := s.sessions.Revoke(r.Context(), cookie.Value); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Session revoke failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
