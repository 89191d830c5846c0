// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"copyforge/internal/apperr"
	"copyforge/internal/imaging"
	"copyforge/internal/models"
)

// Illustrating is the lifecycle slice the image endpoints use.
// Satisfied by *article.Lifecycle.
type Illustrating interface {
	Illustrate(ctx context.Context, client *models.Client, a *models.Article) (imaging.Result, error)
	SetThumbnail(ctx context.Context, client *models.Client, locale, id, url string) error
}

// ArticleFinder loads one article variant. Satisfied by
// *store.ArticleStore.
type ArticleFinder interface {
	Find(ctx context.Context, clientID, locale, id string) (*models.Article, error)
}

// ImageSaver copies remote images into durable storage. Satisfied by
// *imaging.Creator.
type ImageSaver interface {
	SaveFromURL(ctx context.Context, rawURL, clientID, subject string) (string, error)
}

// Images handles thumbnail endpoints.
type Images struct {
	clients   ClientDirectory
	articles  ArticleFinder
	lifecycle Illustrating
	saver     ImageSaver
}

// NewImages creates the image endpoint group.
func NewImages(clients ClientDirectory, articles ArticleFinder, lifecycle Illustrating, saver ImageSaver) *Images {
	return &Images{clients: clients, articles: articles, lifecycle: lifecycle, saver: saver}
}

// Update regenerates an article's thumbnail and fans it out to the
// locale siblings.
// POST /update-image
func (h *Images) Update(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.articles.Find(r.Context(), client.ID, req.Language, req.ArticleID)
	if err != nil {
		writeError(w, r, apperr.Wrap(apperr.KindCollaborator, "load article", err))
		return
	}
	if a == nil {
		writeError(w, r, apperr.New(apperr.KindNotFound, "Article not found"))
		return
	}

	res, err := h.lifecycle.Illustrate(r.Context(), client, a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"thumbnail": res.URL, "prompt": res.Prompt})
}

// Save copies an externally hosted image into object storage and, when
// an article is named, records the durable URL as its thumbnail.
// POST /save-image-storage
func (h *Images) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  string `json:"clientId"`
		URL       string `json:"url"`
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
	if req.URL == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "Missing required parameters"))
		return
	}
	if h.saver == nil {
		writeError(w, r, apperr.New(apperr.KindCollaborator, "image storage is not configured"))
		return
	}

	stored, err := h.saver.SaveFromURL(r.Context(), req.URL, client.ID, req.ArticleID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.ArticleID != "" && req.Language != "" {
		if err := h.lifecycle.SetThumbnail(r.Context(), client, req.Language, req.ArticleID, stored); err != nil {
			writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": stored})
}
