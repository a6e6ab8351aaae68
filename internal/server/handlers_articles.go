package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/article"
	"github.com/iammorganparry/articles/internal/metrics"
	"github.com/iammorganparry/articles/internal/store"
)

// MsgArticleNotFound is returned for an unknown article id
const MsgArticleNotFound = "Article not found"

// ArticleStore is the persistence the article handlers need
type ArticleStore interface {
	List(ctx context.Context) ([]article.Article, error)
	Create(ctx context.Context, in article.Input, createdBy string) (article.Article, error)
	Update(ctx context.Context, id int, in article.Input) (article.Article, error)
	Delete(ctx context.Context, id int) error
}

var _ ArticleStore = (*store.ArticleStore)(nil)

type ArticleHandler struct {
	store  ArticleStore
	rec    metrics.Recorder
	logger *slog.Logger
}

func NewArticleHandler(s ArticleStore, rec metrics.Recorder, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{store: s, rec: rec, logger: logger}
}

// List handles GET /api/articles
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ListResponse{
		Articles: list,
		Message:  fmt.Sprintf("Here are your articles, %s!", UsernameFrom(r.Context())),
	})
}

// Create handles POST /api/articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	user := UsernameFrom(r.Context())
	a, err := h.store.Create(r.Context(), in, user)
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.rec.RecordMutation("create")
	writeJSON(w, http.StatusCreated, api.ArticleResponse{
		Article: a,
		Message: fmt.Sprintf("Well done, %s. Great article!", user),
	})
}

// Update handles PUT /api/articles/{id}
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	a, err := h.store.Update(r.Context(), id, in)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, MsgArticleNotFound)
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.rec.RecordMutation("update")
	writeJSON(w, http.StatusOK, api.ArticleResponse{
		Article: a,
		Message: fmt.Sprintf("Nice update, %s!", UsernameFrom(r.Context())),
	})
}

// Delete handles DELETE /api/articles/{id} and returns what remains
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, MsgArticleNotFound)
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.rec.RecordMutation("delete")

	list, err := h.store.List(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ListResponse{
		Articles: list,
		Message:  fmt.Sprintf("Article %d was deleted, %s!", id, UsernameFrom(r.Context())),
	})
}

// readInput decodes, normalizes and validates an article body, answering
// 422 itself when the input is unusable.
func (h *ArticleHandler) readInput(w http.ResponseWriter, r *http.Request) (article.Input, bool) {
	var in article.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return article.Input{}, false
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return article.Input{}, false
	}
	return in, true
}

func (h *ArticleHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("article store failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func articleID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, MsgArticleNotFound)
		return 0, false
	}
	return id, true
}
