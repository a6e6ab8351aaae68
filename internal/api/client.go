package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iammorganparry/articles/internal/article"
)

const (
	// DefaultBaseURL is the API root of a locally running articles server
	DefaultBaseURL = "http://localhost:9000/api"

	// DefaultTimeout bounds every request made by the client
	DefaultTimeout = 30 * time.Second
)

// Client is the articles HTTP API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new API client rooted at baseURL (e.g. http://host:9000/api)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is returned for any non-2xx response
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Do executes a request and unmarshals the JSON response into result.
// token is sent verbatim in the Authorization header when non-empty.
func (c *Client) Do(ctx context.Context, method, path, token string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var msg messageBody
		if json.Unmarshal(respBody, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

type messageBody struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token. No Authorization header is sent.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.Do(ctx, http.MethodPost, "/login", "", creds, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("login response has no token")
	}
	return &result, nil
}

// ListArticles returns every article visible to the token holder
func (c *Client) ListArticles(ctx context.Context, token string) (*ListResponse, error) {
	var result ListResponse
	if err := c.Do(ctx, http.MethodGet, "/articles", token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateArticle posts a new article; the server assigns its id
func (c *Client) CreateArticle(ctx context.Context, token string, in article.Input) (*ArticleResponse, error) {
	var result ArticleResponse
	if err := c.Do(ctx, http.MethodPost, "/articles", token, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateArticle replaces the fields of the article with the given id
func (c *Client) UpdateArticle(ctx context.Context, token string, id int, in article.Input) (*ArticleResponse, error) {
	var result ArticleResponse
	if err := c.Do(ctx, http.MethodPut, articlePath(id), token, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteArticle removes an article and returns the remaining collection
func (c *Client) DeleteArticle(ctx context.Context, token string, id int) (*ListResponse, error) {
	var result ListResponse
	if err := c.Do(ctx, http.MethodDelete, articlePath(id), token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func articlePath(id int) string {
	return "/articles/" + strconv.Itoa(id)
}
