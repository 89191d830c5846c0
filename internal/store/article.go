// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"copyforge/internal/models"
)

// ArticleStore handles all article database operations. An article row
// is addressed by (client, locale, id); locale variants of the same id
// are independent rows.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// ArticleFields carries a partial field-level mutation. Nil pointers and
// nil maps mean "leave untouched". The same value is applied to the
// primary locale and fanned out to sibling locales.
type ArticleFields struct {
	Content         *string
	Thumbnail       *string
	ThumbnailPrompt *string
	Posts           map[string]string
	Published       *bool
	Dataset         json.RawMessage
}

const articleColumns = `id, client_id, locale, content, thumbnail, prompts,
       posts, published, dataset, author, created_at, updated_at`

// Find retrieves one locale variant of an article. Returns nil if the
// document does not exist.
func (s *ArticleStore) Find(ctx context.Context, clientID, locale, id string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE client_id = $1 AND locale = $2 AND id = $3`,
		clientID, locale, id)

	a := &models.Article{}
	var prompts, posts, dataset []byte

	err := row.Scan(
		&a.ID, &a.ClientID, &a.Locale, &a.Content, &a.Thumbnail, &prompts,
		&posts, &a.Published, &dataset, &a.Author, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}

	if err := json.Unmarshal(prompts, &a.Prompts); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}
	if err := json.Unmarshal(posts, &a.Posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	if len(dataset) > 0 {
		a.Dataset = json.RawMessage(dataset)
	}
	return a, nil
}

// Exists reports whether a locale variant of an article is present.
func (s *ArticleStore) Exists(ctx context.Context, clientID, locale, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM articles WHERE client_id = $1 AND locale = $2 AND id = $3`,
		clientID, locale, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("article exists: %w", err)
	}
	return true, nil
}

// Create inserts a new article variant. Creating a variant that already
// exists is a no-op, which makes translation idempotent.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) error {
	prompts, err := json.Marshal(emptyIfNilMap(a.Prompts))
	if err != nil {
		return fmt.Errorf("marshal prompts: %w", err)
	}
	posts, err := json.Marshal(emptyIfNilMap(a.Posts))
	if err != nil {
		return fmt.Errorf("marshal posts: %w", err)
	}

	var dataset any
	if len(a.Dataset) > 0 {
		dataset = []byte(a.Dataset)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (id, client_id, locale, content, thumbnail,
		                      prompts, posts, published, dataset, author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (client_id, locale, id) DO NOTHING
	`, a.ID, a.ClientID, a.Locale, a.Content, a.Thumbnail,
		prompts, posts, a.Published, dataset, a.Author,
	)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// UpdateFields applies a partial mutation to one locale variant.
// Untouched fields keep their stored values; prompt and post entries
// are merged into the existing JSONB maps rather than replacing them.
func (s *ArticleStore) UpdateFields(ctx context.Context, clientID, locale, id string, f ArticleFields) error {
	promptPatch := map[string]string{}
	if f.ThumbnailPrompt != nil {
		promptPatch["thumbnail"] = *f.ThumbnailPrompt
	}
	promptsJSON, err := json.Marshal(promptPatch)
	if err != nil {
		return fmt.Errorf("marshal prompt patch: %w", err)
	}
	postsJSON, err := json.Marshal(emptyIfNilMap(f.Posts))
	if err != nil {
		return fmt.Errorf("marshal posts patch: %w", err)
	}

	var dataset any
	if len(f.Dataset) > 0 {
		dataset = []byte(f.Dataset)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET
			content    = COALESCE($4, content),
			thumbnail  = COALESCE($5, thumbnail),
			prompts    = prompts || $6::jsonb,
			posts      = posts || $7::jsonb,
			published  = COALESCE($8, published),
			dataset    = COALESCE($9, dataset),
			updated_at = NOW()
		WHERE client_id = $1 AND locale = $2 AND id = $3
	`, clientID, locale, id,
		f.Content, f.Thumbnail, promptsJSON, postsJSON, f.Published, dataset,
	)
	if err != nil {
		return fmt.Errorf("update article fields: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update article fields: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one locale variant. Deleting a missing variant is not
// an error; sibling cascade skips locales that were never translated.
func (s *ArticleStore) Delete(ctx context.Context, clientID, locale, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM articles WHERE client_id = $1 AND locale = $2 AND id = $3`,
		clientID, locale, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func emptyIfNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
