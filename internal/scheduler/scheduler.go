// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler runs the daily content job: it walks the clients
// whose next idea is due, drafts their article and tops the idea queue
// back up.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"copyforge/internal/article"
	"copyforge/internal/models"
)

// Clients loads client profiles. Satisfied by *store.ClientStore.
type Clients interface {
	Find(ctx context.Context, id string) (*models.Client, error)
}

// Index exposes the due-date index. Satisfied by *schedule.Index.
type Index interface {
	Due(ctx context.Context, now time.Time) ([]string, error)
	Set(ctx context.Context, clientID string, due time.Time) error
	Remove(ctx context.Context, clientID string) error
}

// Drafter creates articles. Satisfied by *article.Lifecycle.
type Drafter interface {
	CreateDraft(ctx context.Context, client *models.Client, req article.DraftRequest) (*models.Article, error)
}

// Refiller restores the next-ideas queue. Satisfied by *ideas.Service.
type Refiller interface {
	RefillAndSave(ctx context.Context, client *models.Client, current []models.NextIdea, start time.Time) ([]models.NextIdea, error)
}

// Runner triggers the daily run at a fixed UTC hour and exposes the run
// itself for the manual trigger endpoint.
type Runner struct {
	clients Clients
	index   Index
	drafts  Drafter
	ideas   Refiller
	hourUTC int
	now     func() time.Time
}

// NewRunner wires the scheduler.
func NewRunner(clients Clients, index Index, drafts Drafter, ideas Refiller, hourUTC int) *Runner {
	return &Runner{
		clients: clients,
		index:   index,
		drafts:  drafts,
		ideas:   ideas,
		hourUTC: hourUTC,
		now:     time.Now,
	}
}

// Start blocks until ctx is done, firing ProcessDailyRun once per day
// at the configured UTC hour. Run it in its own goroutine.
func (r *Runner) Start(ctx context.Context) {
	for {
		next := r.nextRun(r.now())
		slog.Info("daily run scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := r.ProcessDailyRun(ctx); err != nil {
				slog.Error("daily run failed", "error", err)
			}
		}
	}
}

// nextRun returns the next occurrence of the configured hour, UTC.
func (r *Runner) nextRun(now time.Time) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), r.hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ProcessDailyRun drafts one article for every client whose next idea
// is due. Clients fail independently: an error with one is logged and
// the run moves on. A client that keeps failing keeps its index entry
// and is retried on the next run.
func (r *Runner) ProcessDailyRun(ctx context.Context) error {
	now := r.now()
	due, err := r.index.Due(ctx, now)
	if err != nil {
		return fmt.Errorf("load due clients: %w", err)
	}

	slog.Info("daily run started", "due", len(due))
	for _, clientID := range due {
		if err := r.processClient(ctx, clientID, now); err != nil {
			slog.Error("daily run client failed", "client", clientID, "error", err)
		}
	}
	return nil
}

func (r *Runner) processClient(ctx context.Context, clientID string, now time.Time) error {
	client, err := r.clients.Find(ctx, clientID)
	if err != nil {
		return fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		// Profile is gone; drop the orphaned index entry.
		return r.index.Remove(ctx, clientID)
	}

	if len(client.NextIdeas) == 0 {
		if _, err := r.ideas.RefillAndSave(ctx, client, nil, now); err != nil {
			return fmt.Errorf("refill empty queue: %w", err)
		}
		return nil
	}

	idea := client.NextIdeas[0]
	if idea.Date.After(now) {
		// Raced with a manual refill; re-point the index at the real
		// due date so the client stays scheduled.
		return r.index.Set(ctx, clientID, idea.Date)
	}

	locale := client.SupportedLocales()[0]
	if _, err := r.drafts.CreateDraft(ctx, client, article.DraftRequest{
		Topic:     idea.Title,
		Locale:    locale,
		WithChart: true,
	}); err != nil {
		return fmt.Errorf("draft %q: %w", idea.Title, err)
	}

	// The consumed idea leaves the queue; the refill restores it to
	// length and re-points the index at the new first due date.
	if _, err := r.ideas.RefillAndSave(ctx, client, client.NextIdeas[1:], now); err != nil {
		return fmt.Errorf("refill queue: %w", err)
	}
	return nil
}
