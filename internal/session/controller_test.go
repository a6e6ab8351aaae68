package session

import (
	"context"
	"errors"
	"testing"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/credentials"
	"github.com/iammorganparry/articles/internal/request"
	"github.com/iammorganparry/articles/internal/status"
)

type fakeAuth struct {
	resp  *api.LoginResponse
	err   error
	calls int
}

func (f *fakeAuth) Login(ctx context.Context, creds api.Credentials) (*api.LoginResponse, error) {
	f.calls++
	return f.resp, f.err
}

type failingStore struct{ credentials.MemoryStore }

func (f *failingStore) Save(string) error { return errors.New("disk full") }

func newTestController(auth Authenticator, store credentials.Store) (*Controller, *status.Tracker, *status.Router) {
	tracker := status.NewTracker()
	router := status.NewRouter(status.ScreenLogin)
	return NewController(New(store, nil), auth, tracker, router, nil), tracker, router
}

func TestLoginSuccess(t *testing.T) {
	store := credentials.NewMemoryStore("")
	auth := &fakeAuth{resp: &api.LoginResponse{Token: "tok", Message: "Welcome back, foo!"}}
	c, tracker, router := newTestController(auth, store)

	eff, err := c.Login(api.Credentials{Username: "foo", Password: "12345678"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !tracker.Loading() {
		t.Error("expected loading while the request is pending")
	}
	if c.State() != StateLoggingIn {
		t.Errorf("State() = %s, want logging_in", c.State())
	}

	request.Run(context.Background(), eff)

	if token, _ := store.Token(); token != "tok" {
		t.Errorf("token = %q, want tok", token)
	}
	if tracker.Message() != "Welcome back, foo!" {
		t.Errorf("message = %q", tracker.Message())
	}
	if router.Current() != status.ScreenArticles {
		t.Errorf("screen = %s, want articles", router.Current())
	}
	if tracker.Loading() {
		t.Error("loading flag must be lowered after settle")
	}
	if c.State() != StateLoggedIn {
		t.Errorf("State() = %s, want logged_in", c.State())
	}
}

func TestLoginFailure(t *testing.T) {
	store := credentials.NewMemoryStore("")
	auth := &fakeAuth{err: &api.Error{Status: 401}}
	c, tracker, router := newTestController(auth, store)

	eff, err := c.Login(api.Credentials{Username: "foo", Password: "wrongpass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	request.Run(context.Background(), eff)

	if tracker.Message() != MsgLoginFailed {
		t.Errorf("message = %q, want %q", tracker.Message(), MsgLoginFailed)
	}
	if token, _ := store.Token(); token != "" {
		t.Errorf("token should stay unset, got %q", token)
	}
	if router.Current() != status.ScreenLogin {
		t.Errorf("failed login must not navigate, screen = %s", router.Current())
	}
	if tracker.Loading() {
		t.Error("loading flag must be lowered after failure")
	}
	if auth.calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", auth.calls)
	}
	if c.State() != StateLoggedOut {
		t.Errorf("State() = %s, want logged_out", c.State())
	}
}

func TestLoginPersistFailure(t *testing.T) {
	auth := &fakeAuth{resp: &api.LoginResponse{Token: "tok", Message: "hi"}}
	c, tracker, router := newTestController(auth, &failingStore{})

	eff, _ := c.Login(api.Credentials{Username: "foo", Password: "12345678"})
	request.Run(context.Background(), eff)

	if tracker.Message() != MsgLoginFailed {
		t.Errorf("message = %q, want %q", tracker.Message(), MsgLoginFailed)
	}
	if router.Current() != status.ScreenLogin {
		t.Errorf("screen = %s, want login", router.Current())
	}
	if tracker.Loading() {
		t.Error("loading flag must be lowered")
	}
}

func TestLoginWhileBusy(t *testing.T) {
	auth := &fakeAuth{resp: &api.LoginResponse{Token: "tok"}}
	c, tracker, _ := newTestController(auth, credentials.NewMemoryStore(""))

	if _, err := tracker.Begin(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Login(api.Credentials{}); !errors.Is(err, status.ErrBusy) {
		t.Fatalf("Login error = %v, want ErrBusy", err)
	}
	if auth.calls != 0 {
		t.Error("gateway must not be called when busy")
	}
}

func TestLogout(t *testing.T) {
	store := credentials.NewMemoryStore("tok")
	c, tracker, router := newTestController(&fakeAuth{}, store)
	router.Navigate(status.ScreenArticles)
	tracker.Set("Here are your articles")

	c.Logout()

	if token, _ := store.Token(); token != "" {
		t.Errorf("token should be cleared, got %q", token)
	}
	if tracker.Message() != MsgGoodbye {
		t.Errorf("message = %q, want %q", tracker.Message(), MsgGoodbye)
	}
	if router.Current() != status.ScreenLogin {
		t.Errorf("screen = %s, want login", router.Current())
	}
	if c.State() != StateLoggedOut {
		t.Errorf("State() = %s, want logged_out", c.State())
	}
}
