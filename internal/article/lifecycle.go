// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package article implements the article lifecycle: drafting,
// translation into sibling locales, illustration, chart dataset
// generation and deletion, plus the cross-locale fan-out rule every
// mutating operation applies.
package article

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"copyforge/internal/ai"
	"copyforge/internal/apperr"
	"copyforge/internal/htmltext"
	"copyforge/internal/imaging"
	"copyforge/internal/models"
	"copyforge/internal/store"
)

// Store is the persistence surface the lifecycle needs. Satisfied by
// *store.ArticleStore.
type Store interface {
	Find(ctx context.Context, clientID, locale, id string) (*models.Article, error)
	Exists(ctx context.Context, clientID, locale, id string) (bool, error)
	Create(ctx context.Context, a *models.Article) error
	UpdateFields(ctx context.Context, clientID, locale, id string, f store.ArticleFields) error
	Delete(ctx context.Context, clientID, locale, id string) error
}

// Generator produces text from a prompt pair. Satisfied by *ai.Registry.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// PromptModerator is an optional Generator capability: caller-supplied
// topics are screened before generation when it is present.
type PromptModerator interface {
	CheckPrompt(ctx context.Context, text string) (*ai.ModerationResult, error)
}

// Illustrator produces stored thumbnails. Satisfied by *imaging.Creator.
type Illustrator interface {
	Create(ctx context.Context, subject, clientID string, style models.StylePreferences) (imaging.Result, error)
	Remove(ctx context.Context, rawURL string) error
}

// Lifecycle drives an article through its states.
type Lifecycle struct {
	store  Store
	gen    Generator
	thumbs Illustrator
}

// NewLifecycle wires the lifecycle service. thumbs may be nil when no
// image provider is configured; Illustrate then fails as a collaborator
// error, which publication treats as soft.
func NewLifecycle(st Store, gen Generator, thumbs Illustrator) *Lifecycle {
	return &Lifecycle{store: st, gen: gen, thumbs: thumbs}
}

// DraftRequest describes a draft to create.
type DraftRequest struct {
	Topic     string
	Locale    string
	Author    string
	WithChart bool
}

// CreateDraft generates a new article for the request's locale and
// persists it unpublished. When no topic is given, the first backlog
// idea is used; with neither, the request is rejected.
func (l *Lifecycle) CreateDraft(ctx context.Context, client *models.Client, req DraftRequest) (*models.Article, error) {
	if client.Mission == "" {
		return nil, apperr.New(apperr.KindInsufficientData, "Client incomplete")
	}
	if !models.IsValidLocale(req.Locale) {
		return nil, apperr.New(apperr.KindValidation, "Invalid language")
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		if len(client.Ideas) == 0 {
			return nil, apperr.New(apperr.KindValidation, "Missing required parameters")
		}
		topic = client.Ideas[0]
	}

	author := req.Author
	if author == "" {
		author = client.Author()
	}

	if mod, ok := l.gen.(PromptModerator); ok {
		res, err := mod.CheckPrompt(ctx, topic)
		if err != nil {
			// Fail open: providers apply their own safety filters.
			slog.Warn("topic moderation check failed", "client", client.ID, "error", err)
		} else if !res.Safe {
			return nil, apperr.Newf(apperr.KindValidation, "Topic rejected by moderation: %s", strings.Join(res.Categories, ", "))
		}
	}

	content, err := l.gen.Generate(ctx, draftSystemPrompt(client, models.LanguageName(req.Locale)), draftUserPrompt(topic))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "draft generation failed", err)
	}
	content = stripCodeFence(content)

	a := &models.Article{
		ID:       strings.ReplaceAll(uuid.New().String(), "-", ""),
		ClientID: client.ID,
		Locale:   req.Locale,
		Content:  content,
		Author:   author,
		Prompts:  map[string]string{"draft": topic},
	}

	if req.WithChart {
		// A chart is an enrichment; drafting proceeds without one.
		dataset, err := l.generateDataset(ctx, content)
		if err != nil {
			slog.Warn("chart dataset generation failed", "client", client.ID, "error", err)
		} else {
			a.Dataset = dataset
		}
	}

	if err := l.store.Create(ctx, a); err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "persist draft", err)
	}
	return a, nil
}

// Translate creates the sibling variant of an article for the target
// locale. Idempotent: an existing sibling is returned untouched.
func (l *Lifecycle) Translate(ctx context.Context, a *models.Article, target string) (*models.Article, error) {
	if !models.IsValidLocale(target) {
		return nil, apperr.New(apperr.KindValidation, "Invalid language")
	}

	existing, err := l.store.Find(ctx, a.ClientID, target, a.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "lookup sibling", err)
	}
	if existing != nil {
		return existing, nil
	}

	translated, err := l.gen.Generate(ctx, translateSystemPrompt(models.LanguageName(target)), a.Content)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "translation failed", err)
	}

	sibling := &models.Article{
		ID:        a.ID,
		ClientID:  a.ClientID,
		Locale:    target,
		Content:   stripCodeFence(translated),
		Thumbnail: a.Thumbnail,
		Prompts:   a.Prompts,
		Posts:     a.Posts,
		Published: a.Published,
		Dataset:   a.Dataset,
		Author:    a.Author,
	}
	if err := l.store.Create(ctx, sibling); err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "persist sibling", err)
	}
	return sibling, nil
}

// EnsureTranslations creates any missing sibling variants for the
// client's locale set.
func (l *Lifecycle) EnsureTranslations(ctx context.Context, client *models.Client, locale, id string) error {
	primary, err := l.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "lookup article", err)
	}
	if primary == nil {
		return apperr.New(apperr.KindNotFound, "Article not found")
	}

	for _, target := range client.SupportedLocales() {
		if target == locale {
			continue
		}
		if _, err := l.Translate(ctx, primary, target); err != nil {
			return err
		}
	}
	return nil
}

// Illustrate generates a thumbnail from the article's headline, writes
// it and its prompt onto the article, and fans the fields out to
// existing siblings.
func (l *Lifecycle) Illustrate(ctx context.Context, client *models.Client, a *models.Article) (imaging.Result, error) {
	if l.thumbs == nil {
		return imaging.Result{}, apperr.New(apperr.KindCollaborator, "no image provider configured")
	}

	subject := htmltext.Title(a.Content)
	if subject == "" {
		subject = a.Prompts["draft"]
	}
	if subject == "" {
		return imaging.Result{}, apperr.New(apperr.KindContent, "article has no headline to illustrate")
	}

	if a.Thumbnail != "" {
		// The replaced image leaves the bucket; a failed delete only
		// strands an object, so it never blocks regeneration.
		if err := l.thumbs.Remove(ctx, a.Thumbnail); err != nil {
			slog.Warn("stale thumbnail delete failed", "client", client.ID, "id", a.ID, "error", err)
		}
	}

	res, err := l.thumbs.Create(ctx, subject, client.ID, client.Style)
	if err != nil {
		return imaging.Result{}, err
	}

	fields := store.ArticleFields{Thumbnail: &res.URL, ThumbnailPrompt: &res.Prompt}
	if err := l.store.UpdateFields(ctx, a.ClientID, a.Locale, a.ID, fields); err != nil {
		return imaging.Result{}, apperr.Wrap(apperr.KindCollaborator, "persist thumbnail", err)
	}
	a.Thumbnail = res.URL
	if a.Prompts == nil {
		a.Prompts = map[string]string{}
	}
	a.Prompts["thumbnail"] = res.Prompt

	l.FanOut(ctx, client, a.Locale, a.ID, fields)
	return res, nil
}

// SetThumbnail points the article and its siblings at an already
// stored image URL.
func (l *Lifecycle) SetThumbnail(ctx context.Context, client *models.Client, locale, id, url string) error {
	fields := store.ArticleFields{Thumbnail: &url}
	if err := l.store.UpdateFields(ctx, client.ID, locale, id, fields); err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "persist thumbnail", err)
	}
	l.FanOut(ctx, client, locale, id, fields)
	return nil
}

// Delete removes an unpublished article and its locale siblings.
// Published articles are never deleted.
func (l *Lifecycle) Delete(ctx context.Context, client *models.Client, locale, id string) error {
	primary, err := l.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "lookup article", err)
	}
	if primary == nil {
		return apperr.New(apperr.KindNotFound, "Article not found")
	}
	if primary.Published {
		return apperr.New(apperr.KindInvalidState, "article is published; unpublish before deleting")
	}

	if err := l.store.Delete(ctx, client.ID, locale, id); err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "delete article", err)
	}

	// Cascade to siblings; locales that were never translated are
	// skipped by the store's tolerant delete.
	for _, sibling := range client.SupportedLocales() {
		if sibling == locale {
			continue
		}
		if err := l.store.Delete(ctx, client.ID, sibling, id); err != nil {
			slog.Error("sibling delete failed", "client", client.ID, "locale", sibling, "id", id, "error", err)
		}
	}
	return nil
}

// UpdateChartDataset regenerates the computed chart dataset from the
// article's current content and persists it.
func (l *Lifecycle) UpdateChartDataset(ctx context.Context, client *models.Client, locale, id string) (json.RawMessage, error) {
	a, err := l.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "lookup article", err)
	}
	if a == nil {
		return nil, apperr.New(apperr.KindNotFound, "Article not found")
	}

	dataset, err := l.generateDataset(ctx, a.Content)
	if err != nil {
		return nil, err
	}

	if err := l.store.UpdateFields(ctx, client.ID, locale, id, store.ArticleFields{Dataset: dataset}); err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "persist dataset", err)
	}
	return dataset, nil
}

// generateDataset asks the model for a small chart dataset grounded in
// the article text and validates it parses as JSON.
func (l *Lifecycle) generateDataset(ctx context.Context, content string) (json.RawMessage, error) {
	text := htmltext.Text(content)
	if text == "" {
		return nil, apperr.New(apperr.KindContent, "article has no readable content")
	}

	raw, err := l.gen.Generate(ctx, chartSystemPrompt, text)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "dataset generation failed", err)
	}

	raw = stripCodeFence(raw)
	var parsed struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "dataset is not valid JSON", err)
	}
	return json.RawMessage(raw), nil
}

// stripCodeFence removes markdown code fences models sometimes wrap
// structured output in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i != -1 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i != -1 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
