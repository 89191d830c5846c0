// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the PostgreSQL-backed data stores. Profile
// collections (ideas, next ideas, channel flags) are kept as JSONB so a
// profile reads and writes as one document.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"copyforge/internal/models"
)

// ClientStore handles all client-profile database operations.
type ClientStore struct {
	db *sql.DB
}

// NewClientStore creates a new ClientStore with the given database connection.
func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db}
}

const clientColumns = `id, company_name, mission, target_audience, style, cta,
       domain, default_author, frequency, allowed, locales, ideas,
       next_ideas, start_date, created_at`

// Find retrieves a client profile by ID. Returns nil if not found.
func (s *ClientStore) Find(ctx context.Context, id string) (*models.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)

	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	return c, nil
}

// Create inserts a new client profile.
func (s *ClientStore) Create(ctx context.Context, c *models.Client) error {
	style, allowed, locales, ideas, nextIdeas, err := marshalClientJSON(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clients (id, company_name, mission, target_audience, style,
		                     cta, domain, default_author, frequency, allowed,
		                     locales, ideas, next_ideas, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, c.ID, c.CompanyName, c.Mission, c.TargetAudience, style,
		c.CTA, c.Domain, c.DefaultAuthor, c.Frequency, allowed,
		locales, ideas, nextIdeas, c.StartDate,
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// Update rewrites the mutable profile fields of an existing client.
// Used by finish-setup, which commits the start date alongside the
// refreshed idea queue.
func (s *ClientStore) Update(ctx context.Context, c *models.Client) error {
	style, allowed, locales, ideas, nextIdeas, err := marshalClientJSON(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE clients SET
			company_name = $1, mission = $2, target_audience = $3, style = $4,
			cta = $5, domain = $6, default_author = $7, frequency = $8,
			allowed = $9, locales = $10, ideas = $11, next_ideas = $12,
			start_date = $13
		WHERE id = $14
	`, c.CompanyName, c.Mission, c.TargetAudience, style,
		c.CTA, c.Domain, c.DefaultAuthor, c.Frequency,
		allowed, locales, ideas, nextIdeas, c.StartDate, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// UpdateIdeas commits the backlog and the scheduled queue together in a
// single statement, keeping the two sets consistent with each other.
func (s *ClientStore) UpdateIdeas(ctx context.Context, id string, ideas []string, nextIdeas []models.NextIdea) error {
	ideasJSON, err := json.Marshal(emptyIfNilStrings(ideas))
	if err != nil {
		return fmt.Errorf("marshal ideas: %w", err)
	}
	nextJSON, err := json.Marshal(emptyIfNilIdeas(nextIdeas))
	if err != nil {
		return fmt.Errorf("marshal next ideas: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE clients SET ideas = $1, next_ideas = $2 WHERE id = $3`,
		ideasJSON, nextJSON, id)
	if err != nil {
		return fmt.Errorf("update client ideas: %w", err)
	}
	return nil
}

// UpdateNextIdeas replaces only the scheduled queue.
func (s *ClientStore) UpdateNextIdeas(ctx context.Context, id string, nextIdeas []models.NextIdea) error {
	nextJSON, err := json.Marshal(emptyIfNilIdeas(nextIdeas))
	if err != nil {
		return fmt.Errorf("marshal next ideas: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE clients SET next_ideas = $1 WHERE id = $2`, nextJSON, id)
	if err != nil {
		return fmt.Errorf("update next ideas: %w", err)
	}
	return nil
}

// marshalClientJSON encodes the JSONB columns of a client row.
func marshalClientJSON(c *models.Client) (style, allowed, locales, ideas, nextIdeas []byte, err error) {
	if style, err = json.Marshal(c.Style); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("marshal style: %w", err)
	}
	allowedMap := c.Allowed
	if allowedMap == nil {
		allowedMap = map[string]bool{}
	}
	if allowed, err = json.Marshal(allowedMap); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("marshal allowed: %w", err)
	}
	if locales, err = json.Marshal(c.SupportedLocales()); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("marshal locales: %w", err)
	}
	if ideas, err = json.Marshal(emptyIfNilStrings(c.Ideas)); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("marshal ideas: %w", err)
	}
	if nextIdeas, err = json.Marshal(emptyIfNilIdeas(c.NextIdeas)); err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("marshal next ideas: %w", err)
	}
	return style, allowed, locales, ideas, nextIdeas, nil
}

// scanClient reads one client row, decoding the JSONB columns.
func scanClient(row *sql.Row) (*models.Client, error) {
	c := &models.Client{}
	var style, allowed, locales, ideas, nextIdeas []byte

	err := row.Scan(
		&c.ID, &c.CompanyName, &c.Mission, &c.TargetAudience, &style, &c.CTA,
		&c.Domain, &c.DefaultAuthor, &c.Frequency, &allowed, &locales, &ideas,
		&nextIdeas, &c.StartDate, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(style, &c.Style); err != nil {
		return nil, fmt.Errorf("decode style: %w", err)
	}
	if err := json.Unmarshal(allowed, &c.Allowed); err != nil {
		return nil, fmt.Errorf("decode allowed: %w", err)
	}
	if err := json.Unmarshal(locales, &c.Locales); err != nil {
		return nil, fmt.Errorf("decode locales: %w", err)
	}
	if err := json.Unmarshal(ideas, &c.Ideas); err != nil {
		return nil, fmt.Errorf("decode ideas: %w", err)
	}
	if err := json.Unmarshal(nextIdeas, &c.NextIdeas); err != nil {
		return nil, fmt.Errorf("decode next ideas: %w", err)
	}
	return c, nil
}

func emptyIfNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIfNilIdeas(s []models.NextIdea) []models.NextIdea {
	if s == nil {
		return []models.NextIdea{}
	}
	return s
}
