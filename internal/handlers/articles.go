// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"copyforge/internal/apperr"
	"copyforge/internal/article"
	"copyforge/internal/models"
)

// ArticleLifecycle is the slice of the lifecycle the article endpoints
// use. Satisfied by *article.Lifecycle.
type ArticleLifecycle interface {
	CreateDraft(ctx context.Context, client *models.Client, req article.DraftRequest) (*models.Article, error)
	EnsureTranslations(ctx context.Context, client *models.Client, locale, id string) error
	Delete(ctx context.Context, client *models.Client, locale, id string) error
	UpdateChartDataset(ctx context.Context, client *models.Client, locale, id string) (json.RawMessage, error)
}

// Articles handles draft, translation and deletion endpoints.
type Articles struct {
	clients   ClientDirectory
	lifecycle ArticleLifecycle
	secret    string
}

// NewArticles creates the article endpoint group. secret gates
// destructive operations.
func NewArticles(clients ClientDirectory, lifecycle ArticleLifecycle, secret string) *Articles {
	return &Articles{clients: clients, lifecycle: lifecycle, secret: secret}
}

// Create drafts a new article.
// POST /createNewArticle
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID string `json:"clientId"`
		Prompt   string `json:"prompt"`
		Language string `json:"language"`
		Author   string `json:"author"`
		Chart    *bool  `json:"chart"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	client, err := loadClient(r.Context(), h.clients, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Language == "" {
		req.Language = client.SupportedLocales()[0]
	}
	withChart := true
	if req.Chart != nil {
		withChart = *req.Chart
	}

	a, err := h.lifecycle.CreateDraft(r.Context(), client, article.DraftRequest{
		Topic:     req.Prompt,
		Locale:    req.Language,
		Author:    req.Author,
		WithChart: withChart,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Delete removes an unpublished article in every locale.
// POST /deleteUnpublishedArticle
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  string `json:"clientId"`
		ArticleID string `json:"articleId"`
		Language  string `json:"language"`
		Secret    string `json:"secret"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Secret != h.secret {
		writeError(w, r, apperr.New(apperr.KindAuthorization, "Invalid secret, you are not allowed to delete articles!"))
		return
	}

	client, err := loadClient(r.Context(), h.clients, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ArticleID == "" || req.Language == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "Missing required parameters"))
		return
	}

	if err := h.lifecycle.Delete(r.Context(), client, req.Language, req.ArticleID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Translations backfills missing locale variants of an article.
// POST /get-translations
func (h *Articles) Translations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  string `json:"clientId"`
		ArticleID string `json:"articleId"`
		Language  string `json:"language"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	client, err := loadClient(r.Context(), h.clients, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ArticleID == "" || req.Language == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "Missing required parameters"))
		return
	}

	if err := h.lifecycle.EnsureTranslations(r.Context(), client, req.Language, req.ArticleID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "translated"})
}

// UpdateChartDataset regenerates an article's chart dataset.
// POST /update-chart-dataset
func (h *Articles) UpdateChartDataset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  string `json:"clientId"`
		ArticleID string `json:"articleId"`
		Language  string `json:"language"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	client, err := loadClient(r.Context(), h.clients, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ArticleID == "" || req.Language == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "Missing required parameters"))
		return
	}

	dataset, err := h.lifecycle.UpdateChartDataset(r.Context(), client, req.Language, req.ArticleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dataset": dataset})
}
