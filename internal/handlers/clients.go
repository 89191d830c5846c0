// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"copyforge/internal/apperr"
	"copyforge/internal/ideas"
	"copyforge/internal/models"
)

// ClientStore is the profile persistence the client endpoints need.
// Satisfied by *store.ClientStore.
type ClientStore interface {
	ClientDirectory
	Create(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, c *models.Client) error
	UpdateIdeas(ctx context.Context, id string, ideas []string, nextIdeas []models.NextIdea) error
}

// IdeaService generates backlogs and refills queues. Satisfied by
// *ideas.Service.
type IdeaService interface {
	GenerateBacklog(ctx context.Context, mission, audience string) ([]string, error)
	Refill(ctx context.Context, client *models.Client, current []models.NextIdea, start time.Time) ([]models.NextIdea, []string, error)
	RefillAndSave(ctx context.Context, client *models.Client, current []models.NextIdea, start time.Time) ([]models.NextIdea, error)
}

// ScheduleIndex registers clients with the daily scheduler. Satisfied
// by *schedule.Index.
type ScheduleIndex interface {
	SetIfAbsent(ctx context.Context, clientID string, due time.Time) (bool, error)
}

// Clients handles profile setup and idea management endpoints.
type Clients struct {
	store ClientStore
	ideas IdeaService
	index ScheduleIndex
	now   func() time.Time
}

// NewClients creates the client endpoint group.
func NewClients(store ClientStore, ideas IdeaService, index ScheduleIndex) *Clients {
	return &Clients{store: store, ideas: ideas, index: index, now: time.Now}
}

// Setup creates a client profile and seeds it: a fresh topic backlog
// with the first seven titles sliced into the next-ideas queue. When
// the posted id names an existing client, that profile is returned
// instead of being overwritten. Without an id one is generated.
// POST /setup-client
func (h *Clients) Setup(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if err := decodeJSON(r, &client); err != nil {
		writeError(w, r, err)
		return
	}

	if client.Mission == "" || client.CompanyName == "" || client.TargetAudience == "" {
		writeError(w, r, apperr.New(apperr.KindValidation, "Missing required parameters"))
		return
	}

	if client.ID != "" {
		existing, err := h.store.Find(r.Context(), client.ID)
		if err != nil {
			writeError(w, r, apperr.Wrap(apperr.KindCollaborator, "load client", err))
			return
		}
		if existing != nil {
			writeJSON(w, http.StatusCreated, existing)
			return
		}
	}
	client.ID = strings.ReplaceAll(uuid.New().String(), "-", "")

	backlog, err := h.ideas.GenerateBacklog(r.Context(), client.Mission, client.TargetAudience)
	if err != nil {
		writeError(w, r, err)
		return
	}

	head := backlog
	if len(head) > ideas.QueueTarget {
		head = head[:ideas.QueueTarget]
	}
	client.NextIdeas = make([]models.NextIdea, 0, len(head))
	for _, title := range head {
		client.NextIdeas = append(client.NextIdeas, models.NextIdea{Title: title})
	}
	client.Ideas = backlog[len(head):]

	if err := h.store.Create(r.Context(), &client); err != nil {
		writeError(w, r, apperr.Wrap(apperr.KindCollaborator, "create client", err))
		return
	}
	writeJSON(w, http.StatusOK, &client)
}

// FinishSetup completes onboarding: it fills the topic backlog, builds
// the scheduled queue and registers the client with the scheduler.
// Re-running it never moves an already scheduled client.
// POST /finish-setup
func (h *Clients) FinishSetup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  string     `json:"clientId"`
		StartDate *time.Time `json:"startDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	client, err := loadClient(r.Context(), h.store, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	start := h.now()
	if req.StartDate != nil {
		start = *req.StartDate
		client.StartDate = req.StartDate
	} else if client.StartDate != nil {
		start = *client.StartDate
	}

	if len(client.Ideas) == 0 {
		backlog, err := h.ideas.GenerateBacklog(r.Context(), client.Mission, client.TargetAudience)
		if err != nil {
			writeError(w, r, err)
			return
		}
		client.Ideas = backlog
	}

	queue, backlog, err := h.ideas.Refill(r.Context(), client, client.NextIdeas, start)
	if err != nil {
		writeError(w, r, err)
		return
	}
	client.NextIdeas = queue
	client.Ideas = backlog

	if err := h.store.Update(r.Context(), client); err != nil {
		writeError(w, r, apperr.Wrap(apperr.KindCollaborator, "persist client", err))
		return
	}

	if len(queue) > 0 {
		if _, err := h.index.SetIfAbsent(r.Context(), client.ID, queue[0].Date); err != nil {
			writeError(w, r, apperr.Wrap(apperr.KindCollaborator, "register schedule", err))
			return
		}
	}

	writeJSON(w, http.StatusOK, client)
}

// GenerateIdeas regenerates the full topic backlog for a client and
// persists it alongside the untouched queue.
// POST /get-100-ideas
func (h *Clients) GenerateIdeas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID string `json:"clientId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	client, err := loadClient(r.Context(), h.store, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	backlog, err := h.ideas.GenerateBacklog(r.Context(), client.Mission, client.TargetAudience)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.UpdateIdeas(r.Context(), client.ID, backlog, client.NextIdeas); err != nil {
		writeError(w, r, apperr.Wrap(apperr.KindCollaborator, "persist ideas", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ideas": backlog})
}

// UpdateNextIdeas tops the scheduled queue back up to its target
// length, pulling new topics from the backlog.
// POST /update-next-ideas (also mounted as /updateNextIdeas)
func (h *Clients) UpdateNextIdeas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  string            `json:"clientId"`
		NextIdeas []models.NextIdea `json:"nextIdeas"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	client, err := loadClient(r.Context(), h.store, req.ClientID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The caller may post an edited queue; absent that, the stored
	// queue is refilled in place.
	current := client.NextIdeas
	if req.NextIdeas != nil {
		current = req.NextIdeas
	}

	queue, err := h.ideas.RefillAndSave(r.Context(), client, current, h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"nextIdeas": queue})
}
