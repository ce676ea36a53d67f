package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/V4T54L/logviewer/internal/adapter/api/middleware"
	"github.com/V4T54L/logviewer/internal/domain"
)

// Authenticator checks credentials and issues session tokens.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	auth         Authenticator
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth Authenticator, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login sets the session cookie and also returns the token for API clients.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16*1024)).Decode(&req); err != nil {
		respondWithJSON(w, h.logger, http.StatusBadRequest, failureResponse{Message: msgInvalidRequest})
		return
	}

	token, expires, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		respondWithJSON(w, h.logger, http.StatusUnauthorized, failureResponse{Message: "Invalid username or password"})
		return
	}
	if err != nil {
		h.logger.Error("failed to issue session token", "error", err)
		respondWithJSON(w, h.logger, http.StatusInternalServerError, failureResponse{Message: "Login failed"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, h.logger, http.StatusOK, map[string]any{
		"success":   true,
		"token":     token,
		"expiresAt": expires,
	})
}

// Logout clears the session cookie.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
