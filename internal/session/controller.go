package session

import (
	"context"
	"log/slog"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/request"
	"github.com/iammorganparry/articles/internal/status"
)

const (
	// MsgLoginFailed is shown when the server rejects the credentials
	MsgLoginFailed = "Login failed. Check your credentials."
	// MsgGoodbye is shown after logout
	MsgGoodbye = "Goodbye!"
)

// State is the login lifecycle state
type State int

const (
	StateLoggedOut State = iota
	StateLoggingIn
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateLoggingIn:
		return "logging_in"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Authenticator exchanges credentials for a token
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResponse, error)
}

// Controller owns the login/logout flow
type Controller struct {
	session *Session
	auth    Authenticator
	status  *status.Tracker
	nav     status.Navigator
	logger  *slog.Logger

	loggingIn bool
}

// NewController creates a session controller
func NewController(sess *Session, auth Authenticator, tracker *status.Tracker, nav status.Navigator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		session: sess,
		auth:    auth,
		status:  tracker,
		nav:     nav,
		logger:  logger,
	}
}

// State reports where the controller is in the login lifecycle
func (c *Controller) State() State {
	switch {
	case c.loggingIn:
		return StateLoggingIn
	case c.session.Authenticated():
		return StateLoggedIn
	default:
		return StateLoggedOut
	}
}

// Login starts a login attempt. On success the token is persisted, the
// server's message is shown and the articles screen is entered. On failure a
// fixed notice is shown and nothing else changes. Attempts are never retried.
func (c *Controller) Login(creds api.Credentials) (request.Effect, error) {
	ticket, err := c.status.Begin()
	if err != nil {
		return nil, err
	}
	c.loggingIn = true

	auth := c.auth
	return func(ctx context.Context) request.Settle {
		resp, err := auth.Login(ctx, creds)
		return func() {
			defer c.status.End(ticket)
			c.loggingIn = false

			if err != nil {
				c.logger.Info("login failed", "username", creds.Username, "error", err)
				c.status.Set(MsgLoginFailed)
				return
			}
			if err := c.session.set(resp.Token); err != nil {
				c.logger.Error("failed to persist token", "error", err)
				c.status.Set(MsgLoginFailed)
				return
			}

			c.logger.Info("logged in", "username", creds.Username)
			c.status.Set(resp.Message)
			c.nav.Navigate(status.ScreenArticles)
		}
	}, nil
}

// Logout clears the token, says goodbye and returns to the login screen.
// It never fails; a credentials file that cannot be removed is only logged.
func (c *Controller) Logout() {
	if err := c.session.clear(); err != nil {
		c.logger.Error("failed to clear token", "error", err)
	}
	c.status.Set(MsgGoodbye)
	c.nav.Navigate(status.ScreenLogin)
}
