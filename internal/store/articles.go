package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iammorganparry/articles/internal/article"
)

// ErrNotFound is returned when no article has the requested id
var ErrNotFound = errors.New("article not found")

// SeedArticles are inserted into an empty database on first start
var SeedArticles = []article.Input{
	{Title: "Closures in JavaScript", Text: "A closure captures the variables of the scope it was created in.", Topic: article.TopicJavaScript},
	{Title: "React hooks", Text: "useState and useEffect replace most class lifecycle methods.", Topic: article.TopicReact},
	{Title: "The Node event loop", Text: "Callbacks run after the call stack empties, phase by phase.", Topic: article.TopicNode},
}

// ArticleStore handles Article CRUD operations on SQLite.
type ArticleStore struct {
	db  *DB
	now func() time.Time
}

func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db, now: time.Now}
}

// List returns every article in id order
func (s *ArticleStore) List(ctx context.Context) ([]article.Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, text, topic FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	list := []article.Article{}
	for rows.Next() {
		var a article.Article
		var topic string
		if err := rows.Scan(&a.ID, &a.Title, &a.Text, &topic); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Topic = article.Topic(topic)
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return list, nil
}

// Get fetches a single article by id.
func (s *ArticleStore) Get(ctx context.Context, id int) (article.Article, error) {
	var a article.Article
	var topic string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, text, topic FROM articles WHERE id = ?`, id,
	).Scan(&a.ID, &a.Title, &a.Text, &topic)
	if errors.Is(err, sql.ErrNoRows) {
		return article.Article{}, ErrNotFound
	}
	if err != nil {
		return article.Article{}, fmt.Errorf("get article %d: %w", id, err)
	}
	a.Topic = article.Topic(topic)
	return a, nil
}

// Create inserts a new article and returns it with its assigned id. The
// input must already be normalized and validated.
func (s *ArticleStore) Create(ctx context.Context, in article.Input, createdBy string) (article.Article, error) {
	ts := s.now().Unix()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (title, text, topic, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.Title, in.Text, string(in.Topic), createdBy, ts, ts)
	if err != nil {
		return article.Article{}, fmt.Errorf("insert article: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return article.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return article.Article{ID: int(id), Title: in.Title, Text: in.Text, Topic: in.Topic}, nil
}

// Update replaces the fields of the article with id.
func (s *ArticleStore) Update(ctx context.Context, id int, in article.Input) (article.Article, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET title = ?, text = ?, topic = ?, updated_at = ? WHERE id = ?
	`, in.Title, in.Text, string(in.Topic), s.now().Unix(), id)
	if err != nil {
		return article.Article{}, fmt.Errorf("update article %d: %w", id, err)
	}
	if err := requireOne(res); err != nil {
		return article.Article{}, err
	}
	return article.Article{ID: id, Title: in.Title, Text: in.Text, Topic: in.Topic}, nil
}

// Delete removes the article with id.
func (s *ArticleStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	return requireOne(res)
}

// Seed inserts SeedArticles when the table is empty and reports how many
// rows it added.
func (s *ArticleStore) Seed(ctx context.Context) (int, error) {
	count, err := s.db.ArticleCount()
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for _, in := range SeedArticles {
		if _, err := s.Create(ctx, in, "seed"); err != nil {
			return 0, err
		}
	}
	return len(SeedArticles), nil
}

func requireOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
