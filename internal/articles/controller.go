package articles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/article"
	"github.com/iammorganparry/articles/internal/request"
	"github.com/iammorganparry/articles/internal/status"
)

const (
	// MsgCreateFailed is shown when the server rejects a new article
	MsgCreateFailed = "Failed to add article."
	// MsgUpdateFailed is shown when the server rejects an edit
	MsgUpdateFailed = "Failed to update article."
	// MsgDeleteFailed is shown when the server rejects a delete
	MsgDeleteFailed = "Failed to delete article."
	// MsgUpdated replaces whatever the server says after a successful edit
	MsgUpdated = "Nice update, Foo!"
)

// ErrNoToken is returned by Refresh when there is no session to fetch with
var ErrNoToken = errors.New("no session token")

// Gateway is the subset of the API the collection needs
type Gateway interface {
	ListArticles(ctx context.Context, token string) (*api.ListResponse, error)
	CreateArticle(ctx context.Context, token string, in article.Input) (*api.ArticleResponse, error)
	UpdateArticle(ctx context.Context, token string, id int, in article.Input) (*api.ArticleResponse, error)
	DeleteArticle(ctx context.Context, token string, id int) (*api.ListResponse, error)
}

// TokenSource supplies the current session token ("" when logged out)
type TokenSource interface {
	Token() string
}

// Controller owns the in-memory article collection and the editing
// selection. The collection only ever reflects server-confirmed state.
type Controller struct {
	gw     Gateway
	tokens TokenSource
	status *status.Tracker
	nav    status.Navigator
	logger *slog.Logger

	articles []article.Article
	selected *int
	version  uint64
}

// NewController creates an empty collection controller
func NewController(gw Gateway, tokens TokenSource, tracker *status.Tracker, nav status.Navigator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gw:     gw,
		tokens: tokens,
		status: tracker,
		nav:    nav,
		logger: logger,
	}
}

// Articles returns a copy of the collection in server order
func (c *Controller) Articles() []article.Article {
	out := make([]article.Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Len returns the collection size
func (c *Controller) Len() int {
	return len(c.articles)
}

// Version increases every time the collection changes
func (c *Controller) Version() uint64 {
	return c.version
}

// SelectedID returns the raw editing selection, which may be dangling
func (c *Controller) SelectedID() (int, bool) {
	if c.selected == nil {
		return 0, false
	}
	return *c.selected, true
}

// Selected resolves the editing selection against the collection.
// A selection that no longer matches any article counts as none.
func (c *Controller) Selected() (article.Article, bool) {
	if c.selected == nil {
		return article.Article{}, false
	}
	return article.Find(c.articles, *c.selected)
}

// Select marks the article with id for editing
func (c *Controller) Select(id int) {
	c.selected = &id
}

// ClearSelection leaves edit mode
func (c *Controller) ClearSelection() {
	c.selected = nil
}

func (c *Controller) replaceAll(list []article.Article) {
	c.articles = dedupe(list)
	c.version++
}

// Refresh fetches the whole collection. Without a token it navigates to the
// login screen and returns ErrNoToken before any request is made. A rejected
// fetch also navigates to login.
func (c *Controller) Refresh() (request.Effect, error) {
	token := c.tokens.Token()
	if token == "" {
		c.nav.Navigate(status.ScreenLogin)
		return nil, ErrNoToken
	}

	ticket, err := c.status.Begin()
	if err != nil {
		return nil, err
	}

	gw := c.gw
	return func(ctx context.Context) request.Settle {
		resp, err := gw.ListArticles(ctx, token)
		return func() {
			defer c.status.End(ticket)
			if err != nil {
				c.logger.Info("article fetch rejected, redirecting to login", "error", err)
				c.nav.Navigate(status.ScreenLogin)
				return
			}
			c.replaceAll(resp.Articles)
			c.status.Set(resp.Message)
		}
	}, nil
}

// Create posts a new article and appends the server's copy on success
func (c *Controller) Create(in article.Input) (request.Effect, error) {
	ticket, err := c.status.Begin()
	if err != nil {
		return nil, err
	}

	token := c.tokens.Token()
	gw := c.gw
	return func(ctx context.Context) request.Settle {
		resp, err := gw.CreateArticle(ctx, token, in)
		return func() {
			defer c.status.End(ticket)
			if err != nil {
				c.logger.Info("create article failed", "error", err)
				c.status.Set(MsgCreateFailed)
				return
			}
			c.append(resp.Article)
			c.status.Set(resp.Message)
		}
	}, nil
}

// append adds a to the end of the collection. An id that is already present
// is replaced in place so ids stay unique.
func (c *Controller) append(a article.Article) {
	if i := article.IndexOf(c.articles, a.ID); i >= 0 {
		c.articles[i] = a
	} else {
		c.articles = append(c.articles, a)
	}
	c.version++
}

// Update edits the article with id. On success the entry keeps its position,
// the fixed confirmation is shown and edit mode ends.
func (c *Controller) Update(id int, in article.Input) (request.Effect, error) {
	ticket, err := c.status.Begin()
	if err != nil {
		return nil, err
	}

	token := c.tokens.Token()
	gw := c.gw
	return func(ctx context.Context) request.Settle {
		resp, err := gw.UpdateArticle(ctx, token, id, in)
		return func() {
			defer c.status.End(ticket)
			if err != nil {
				c.logger.Info("update article failed", "article_id", id, "error", err)
				c.status.Set(MsgUpdateFailed)
				return
			}
			if i := article.IndexOf(c.articles, id); i >= 0 {
				c.articles[i] = resp.Article
				c.articles = dedupe(c.articles)
				c.version++
			}
			c.status.Set(MsgUpdated)
			c.selected = nil
		}
	}, nil
}

// Delete removes the article with id; the server's remaining collection
// replaces ours on success.
func (c *Controller) Delete(id int) (request.Effect, error) {
	ticket, err := c.status.Begin()
	if err != nil {
		return nil, err
	}

	token := c.tokens.Token()
	gw := c.gw
	return func(ctx context.Context) request.Settle {
		resp, err := gw.DeleteArticle(ctx, token, id)
		return func() {
			defer c.status.End(ticket)
			if err != nil {
				c.logger.Info("delete article failed", "article_id", id, "error", err)
				c.status.Set(MsgDeleteFailed)
				return
			}
			c.replaceAll(resp.Articles)
			c.status.Set(resp.Message)
		}
	}, nil
}

// dedupe keeps the first occurrence of each id, preserving order
func dedupe(list []article.Article) []article.Article {
	seen := make(map[int]struct{}, len(list))
	out := make([]article.Article, 0, len(list))
	for _, a := range list {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
