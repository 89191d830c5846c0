// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"copyforge/internal/apperr"
	"copyforge/internal/models"
)

// Publisher is the coordinator slice the publishing endpoints use.
// Satisfied by *publish.Coordinator.
type Publisher interface {
	Publish(ctx context.Context, client *models.Client, locale, id string) (*models.Article, error)
	Unpublish(ctx context.Context, client *models.Client, locale, id, secret string) error
}

// Publishing handles the publish and unpublish endpoints.
type Publishing struct {
	clients ClientDirectory
	pub     Publisher
}

// NewPublishing creates the publishing endpoint group.
func NewPublishing(clients ClientDirectory, pub Publisher) *Publishing {
	return &Publishing{clients: clients, pub: pub}
}

// Publish takes an article live.
// POST /publish
func (h *Publishing) Publish(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.pub.Publish(r.Context(), client, req.Language, req.ArticleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Unpublish takes an article offline. Guarded by the shared secret.
// POST /unpublish
func (h *Publishing) Unpublish(w http.ResponseWriter, r *http.Request) {
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

	client, err := loadClient(r.Context(), h.clients, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ArticleID == "" || req.Language == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "Missing required parameters"))
		return
	}

	if err := h.pub.Unpublish(r.Context(), client, req.Language, req.ArticleID, req.Secret); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unpublished"})
}
