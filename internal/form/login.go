package form

import (
	"strings"
	"unicode/utf8"

	"github.com/iammorganparry/articles/internal/api"
)

const (
	// MinUsernameLen is the shortest accepted username after trimming
	MinUsernameLen = 3
	// MinPasswordLen is the shortest accepted password after trimming
	MinPasswordLen = 8
	// MaxCredentialLen caps both login inputs
	MaxCredentialLen = 20
)

// Login holds the ephemeral login form fields
type Login struct {
	Username string
	Password string
}

// SetUsername updates the username, truncated to MaxCredentialLen runes
func (f *Login) SetUsername(v string) {
	f.Username = truncate(v, MaxCredentialLen)
}

// SetPassword updates the password, truncated to MaxCredentialLen runes
func (f *Login) SetPassword(v string) {
	f.Password = truncate(v, MaxCredentialLen)
}

// CanSubmit reports whether the submit action is enabled
func (f Login) CanSubmit() bool {
	return utf8.RuneCountInString(strings.TrimSpace(f.Username)) >= MinUsernameLen &&
		utf8.RuneCountInString(strings.TrimSpace(f.Password)) >= MinPasswordLen
}

// Submit returns the current values as entered. The form is not cleared.
func (f Login) Submit() (api.Credentials, bool) {
	if !f.CanSubmit() {
		return api.Credentials{}, false
	}
	return api.Credentials{Username: f.Username, Password: f.Password}, true
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
