package session

import (
	"log/slog"

	"github.com/iammorganparry/articles/internal/credentials"
)

// Session is the process-wide authentication state: a token or nothing.
// It is passed explicitly to whoever needs the token; only Controller writes it.
type Session struct {
	store  credentials.Store
	logger *slog.Logger
}

// New creates a session backed by store
func New(store credentials.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: store, logger: logger}
}

// Token returns the persisted token, or "" when there is none.
// An unreadable credentials file counts as no token.
func (s *Session) Token() string {
	token, err := s.store.Token()
	if err != nil {
		s.logger.Warn("failed to read credentials", "error", err)
		return ""
	}
	return token
}

// Authenticated reports whether a token is present
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) set(token string) error {
	return s.store.Save(token)
}

func (s *Session) clear() error {
	return s.store.Clear()
}
