// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"
)

// Article is one locale variant of a drafted piece. Variants of the
// same ID across locales are kept in lock-step for Published, Thumbnail
// and Posts by explicit fan-out, not by a transaction.
type Article struct {
	ID        string            `json:"id"`
	ClientID  string            `json:"clientId"`
	Locale    string            `json:"lang"`
	Content   string            `json:"content"`
	Thumbnail string            `json:"thumbnail,omitempty"`
	Prompts   map[string]string `json:"prompt,omitempty"`
	Posts     map[string]string `json:"posts,omitempty"`
	Published bool              `json:"published"`
	Dataset   json.RawMessage   `json:"dataset,omitempty"`
	Author    string            `json:"author,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ThumbnailPrompt returns the audit-trail prompt recorded when the
// thumbnail was generated, if any.
func (a *Article) ThumbnailPrompt() string {
	return a.Prompts["thumbnail"]
}
