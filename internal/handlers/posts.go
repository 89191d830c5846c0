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

// PostPublisher is the coordinator slice the post endpoints use.
// Satisfied by *publish.Coordinator.
type PostPublisher interface {
	RegeneratePosts(ctx context.Context, client *models.Client, locale, id string) (map[string]string, error)
	SendPostEmail(ctx context.Context, client *models.Client, locale, id string) error
}

// Posts handles the social post endpoints.
type Posts struct {
	clients ClientDirectory
	pub     PostPublisher
}

// NewPosts creates the post endpoint group.
func NewPosts(clients ClientDirectory, pub PostPublisher) *Posts {
	return &Posts{clients: clients, pub: pub}
}

// Regenerate recomposes the social posts for one locale variant.
// POST /get-linkedin-post
func (h *Posts) Regenerate(w http.ResponseWriter, r *http.Request) {
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

	posts, err := h.pub.RegeneratePosts(r.Context(), client, req.Language, req.ArticleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// SendEmail mails the article's LinkedIn post to the configured
// recipients.
// POST /send-post-to-email
func (h *Posts) SendEmail(w http.ResponseWriter, r *http.Request) {
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

	if err := h.pub.SendPostEmail(r.Context(), client, req.Language, req.ArticleID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
