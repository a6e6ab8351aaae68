package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/auth"
	"github.com/iammorganparry/articles/internal/metrics"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// MsgInvalidCredentials is returned for any rejected login
const MsgInvalidCredentials = "Invalid credentials"

type AuthHandler struct {
	tokens *auth.TokenManager
	rec    metrics.Recorder
	logger *slog.Logger
}

func NewAuthHandler(tokens *auth.TokenManager, rec metrics.Recorder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, rec: rec, logger: logger}
}

// Login handles POST /api/login. Any username of at least 3 and password of
// at least 8 characters (after trimming) is accepted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		h.rec.RecordLogin(false)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(creds.Username)
	password := strings.TrimSpace(creds.Password)
	if utf8.RuneCountInString(username) < minUsernameLen || utf8.RuneCountInString(password) < minPasswordLen {
		h.rec.RecordLogin(false)
		writeError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	token, err := h.tokens.GenerateToken(username)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.rec.RecordLogin(true)
	writeJSON(w, http.StatusOK, api.LoginResponse{
		Token:   token,
		Message: fmt.Sprintf("Welcome back, %s!", username),
	})
}
