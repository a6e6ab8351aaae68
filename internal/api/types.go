package api

import (
	"context"

	"github.com/iammorganparry/articles/internal/article"
)

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// ListResponse is returned by GET /articles and DELETE /articles/{id}
type ListResponse struct {
	Articles []article.Article `json:"articles"`
	Message  string            `json:"message"`
}

// ArticleResponse is returned by POST /articles and PUT /articles/{id}
type ArticleResponse struct {
	Article article.Article `json:"article"`
	Message string          `json:"message,omitempty"`
}

// Gateway is the set of calls the client controllers depend on.
// *Client implements it; tests substitute fakes.
type Gateway interface {
	Login(ctx context.Context, creds Credentials) (*LoginResponse, error)
	ListArticles(ctx context.Context, token string) (*ListResponse, error)
	CreateArticle(ctx context.Context, token string, in article.Input) (*ArticleResponse, error)
	UpdateArticle(ctx context.Context, token string, id int, in article.Input) (*ArticleResponse, error)
	DeleteArticle(ctx context.Context, token string, id int) (*ListResponse, error)
}

var _ Gateway = (*Client)(nil)
