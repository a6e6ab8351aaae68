package client

import (
	"log/slog"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/article"
	"github.com/iammorganparry/articles/internal/articles"
	"github.com/iammorganparry/articles/internal/credentials"
	"github.com/iammorganparry/articles/internal/form"
	"github.com/iammorganparry/articles/internal/request"
	"github.com/iammorganparry/articles/internal/session"
	"github.com/iammorganparry/articles/internal/status"
)

// Snapshot is everything the view shell needs to render one frame
type Snapshot struct {
	Screen           status.Screen
	Message          string
	Loading          bool
	Articles         []article.Article
	CurrentArticleID *int
	SessionState     session.State
	LoginForm        form.Login
	ArticleForm      article.Input
	Editing          bool
	CanLogin         bool
	CanSubmitArticle bool
}

// Gateway is the full API surface the client talks to
type Gateway interface {
	session.Authenticator
	articles.Gateway
}

// App wires the client core together and exposes the intents the view shell
// invokes. All methods must be called from the event loop; returned Effects
// may run anywhere and their Settles must be applied back on the loop.
type App struct {
	status   *status.Tracker
	router   *status.Router
	auth     *session.Controller
	articles *articles.Controller

	loginForm   form.Login
	articleForm form.Article

	pendingEnter bool
	logger       *slog.Logger
}

// New creates the client application starting on the login screen, or on the
// articles screen when a token survived from a previous run.
func New(gw Gateway, store credentials.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	sess := session.New(store, logger)
	start := status.ScreenLogin
	if sess.Authenticated() {
		start = status.ScreenArticles
	}

	a := &App{
		status:       status.NewTracker(),
		router:       status.NewRouter(start),
		pendingEnter: start == status.ScreenArticles,
		logger:       logger,
	}
	a.auth = session.NewController(sess, gw, a.status, a.router, logger)
	a.articles = articles.NewController(gw, sess, a.status, a.router, logger)
	a.router.OnEnter(func(s status.Screen) {
		if s == status.ScreenArticles {
			a.pendingEnter = true
		}
	})
	a.articleForm.Sync(a.articles)
	return a
}

// Snapshot returns the current render state
func (a *App) Snapshot() Snapshot {
	snap := Snapshot{
		Screen:           a.router.Current(),
		Message:          a.status.Message(),
		Loading:          a.status.Loading(),
		Articles:         a.articles.Articles(),
		SessionState:     a.auth.State(),
		LoginForm:        a.loginForm,
		ArticleForm:      a.articleForm.Values(),
		Editing:          a.articleForm.Editing(),
		CanLogin:         a.loginForm.CanSubmit(),
		CanSubmitArticle: a.articleForm.CanSubmit(),
	}
	if id, ok := a.articles.SelectedID(); ok {
		snap.CurrentArticleID = &id
	}
	return snap
}

// settled wraps eff so the article form is re-derived after it settles
func (a *App) settled(eff request.Effect, err error) (request.Effect, error) {
	if err != nil {
		return nil, err
	}
	return request.Then(eff, a.resync), nil
}

func (a *App) resync() {
	a.articleForm.Sync(a.articles)
}

// LoginForm exposes the login form for field edits
func (a *App) LoginForm() *form.Login {
	return &a.loginForm
}

// ArticleForm exposes the article form for field edits
func (a *App) ArticleForm() *form.Article {
	return &a.articleForm
}

// Login submits the login form. It returns (nil, nil) when submission is
// disabled.
func (a *App) Login() (request.Effect, error) {
	creds, ok := a.loginForm.Submit()
	if !ok {
		return nil, nil
	}
	return a.auth.Login(creds)
}

// Logout ends the session; it is synchronous
func (a *App) Logout() {
	a.auth.Logout()
}

// Navigate switches screens the way the nav links do
func (a *App) Navigate(screen status.Screen) {
	a.router.Navigate(screen)
}

// EnterArticles must be polled after every update: it returns the fetch to
// run when the articles screen has just been entered, exactly once per entry.
// While another request is in flight the entry stays pending and a later
// poll starts the fetch.
func (a *App) EnterArticles() (request.Effect, error) {
	if !a.pendingEnter || a.router.Current() != status.ScreenArticles {
		return nil, nil
	}
	if a.status.Loading() {
		return nil, nil
	}
	a.pendingEnter = false
	return a.settled(a.articles.Refresh())
}

// SubmitArticle submits the article form as a create or an update. A submit
// rejected as busy leaves the form untouched.
func (a *App) SubmitArticle() (request.Effect, error) {
	if a.status.Loading() {
		return nil, status.ErrBusy
	}
	sub, ok := a.articleForm.Submit(a.articles)
	if !ok {
		return nil, nil
	}
	if sub.IsUpdate() {
		return a.settled(a.articles.Update(*sub.ID, sub.Input))
	}
	return a.settled(a.articles.Create(sub.Input))
}

// Edit selects an article for editing
func (a *App) Edit(id int) {
	a.articles.Select(id)
	a.resync()
}

// CancelEdit leaves edit mode without submitting
func (a *App) CancelEdit() {
	a.articles.ClearSelection()
	a.resync()
}

// Delete removes an article
func (a *App) Delete(id int) (request.Effect, error) {
	return a.settled(a.articles.Delete(id))
}

var _ Gateway = (*api.Client)(nil)
