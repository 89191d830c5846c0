// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ideas maintains each client's rotating topic backlog and the
// bounded queue of scheduled next ideas the daily scheduler consumes.
package ideas

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"copyforge/internal/apperr"
	"copyforge/internal/models"
)

// QueueTarget is the length the next-ideas queue is restored to on
// every refill.
const QueueTarget = 7

// BacklogSize is how many topics one backlog regeneration asks the
// model for.
const BacklogSize = 100

// Generator produces text from a system/user prompt pair. Satisfied by
// *ai.Registry.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ProfileStore persists the backlog and queue of a client profile.
type ProfileStore interface {
	UpdateIdeas(ctx context.Context, id string, ideas []string, nextIdeas []models.NextIdea) error
}

// ScheduleIndex records a client's earliest due date for the scheduler.
type ScheduleIndex interface {
	Set(ctx context.Context, clientID string, due time.Time) error
}

// Service implements backlog generation and queue refill.
type Service struct {
	gen      Generator
	profiles ProfileStore
	index    ScheduleIndex
}

// NewService creates an idea service with its collaborators. profiles
// and index may be nil when persistence is not wanted (pure refills).
func NewService(gen Generator, profiles ProfileStore, index ScheduleIndex) *Service {
	return &Service{gen: gen, profiles: profiles, index: index}
}

// GenerateBacklog asks the model for BacklogSize article topics seeded
// by the client's mission and audience, and returns them shuffled.
func (s *Service) GenerateBacklog(ctx context.Context, mission, audience string) ([]string, error) {
	if mission == "" || audience == "" {
		return nil, apperr.New(apperr.KindInsufficientData, "mission and target audience are required")
	}

	systemPrompt := fmt.Sprintf(`You are a content strategist. Produce exactly %d article topic ideas
for a company whose mission is: "%s" and whose target audience is: "%s".

Rules:
- One topic per line, numbered 1-%d.
- Each topic is a concise article title, no quotes, no trailing punctuation.
- Cover the subject broadly; avoid near-duplicate topics.
- Output the numbered list only, no other text.`, BacklogSize, mission, audience, BacklogSize)

	raw, err := s.gen.Generate(ctx, systemPrompt, "Generate the topic list.")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "idea generation failed", err)
	}

	topics := parseNumberedList(raw)
	if len(topics) == 0 {
		return nil, apperr.New(apperr.KindCollaborator, "idea generation returned no topics")
	}

	shuffle(topics)
	return topics, nil
}

// Refill restores the next-ideas queue to QueueTarget entries. Entries
// already in the queue keep their dates; new entries are pulled from the
// front of the backlog and scheduled at frequency intervals starting
// from start (or from the last queued date). When the backlog runs dry
// it is regenerated from the client's mission and audience. Returns the
// updated queue and the remaining backlog; the two never share a title.
func (s *Service) Refill(ctx context.Context, client *models.Client, current []models.NextIdea, start time.Time) ([]models.NextIdea, []string, error) {
	if client.Mission == "" || client.TargetAudience == "" {
		return nil, nil, apperr.New(apperr.KindInsufficientData, "client profile is missing mission or target audience")
	}

	queue := make([]models.NextIdea, 0, QueueTarget)
	queued := make(map[string]bool)
	for _, idea := range current {
		if idea.Title == "" || queued[idea.Title] {
			continue
		}
		queue = append(queue, idea)
		queued[idea.Title] = true
		if len(queue) == QueueTarget {
			break
		}
	}

	backlog := make([]string, 0, len(client.Ideas))
	for _, topic := range client.Ideas {
		if !queued[topic] {
			backlog = append(backlog, topic)
		}
	}

	needed := QueueTarget - len(queue)
	if needed > len(backlog) {
		fresh, err := s.GenerateBacklog(ctx, client.Mission, client.TargetAudience)
		if err != nil {
			return nil, nil, err
		}
		held := make(map[string]bool, len(backlog))
		for _, topic := range backlog {
			held[topic] = true
		}
		for _, topic := range fresh {
			if !queued[topic] && !held[topic] {
				backlog = append(backlog, topic)
				held[topic] = true
			}
		}
	}

	cursor := start
	interval := client.Frequency.Interval()
	for i := range queue {
		if queue[i].Date.IsZero() {
			queue[i].Date = cursor
		}
		cursor = queue[i].Date.Add(interval)
	}

	for needed > 0 && len(backlog) > 0 {
		title := backlog[0]
		backlog = backlog[1:]
		queue = append(queue, models.NextIdea{Title: title, Date: cursor, New: true})
		queued[title] = true
		cursor = cursor.Add(interval)
		needed--
	}

	return queue, backlog, nil
}

// RefillAndSave runs Refill and commits the backlog and queue to the
// profile in one write, then refreshes the schedule index when the
// queue's first due date changed.
func (s *Service) RefillAndSave(ctx context.Context, client *models.Client, current []models.NextIdea, start time.Time) ([]models.NextIdea, error) {
	queue, backlog, err := s.Refill(ctx, client, current, start)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.UpdateIdeas(ctx, client.ID, backlog, queue); err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "persist ideas", err)
	}
	client.Ideas = backlog
	client.NextIdeas = queue

	if len(queue) > 0 && s.index != nil {
		if err := s.index.Set(ctx, client.ID, queue[0].Date); err != nil {
			// The profile write already succeeded; a stale index entry
			// only delays the next run, so log instead of failing.
			slog.Error("schedule index update failed", "client", client.ID, "error", err)
		}
	}

	return queue, nil
}

// parseNumberedList extracts items from a numbered list (e.g., "12. Topic").
func parseNumberedList(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Strip "12. ", "12) " and bullet prefixes.
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 && isDigits(line[:i]) {
			line = line[i+1:]
		}
		line = strings.TrimLeft(line, "-* ")
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// shuffle randomizes topic order so consecutive refills do not drain
// the model's output in generation order.
func shuffle(topics []string) {
	rand.Shuffle(len(topics), func(i, j int) {
		topics[i], topics[j] = topics[j], topics[i]
	})
}
