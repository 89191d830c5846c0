// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package social generates channel-specific promotion posts for
// published articles.
package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"copyforge/internal/apperr"
	"copyforge/internal/models"
)

// Generator produces text from a prompt pair. Satisfied by *ai.Registry.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Composer writes social posts with the configured model.
type Composer struct {
	gen Generator
	now func() time.Time
}

// NewComposer wires a post composer.
func NewComposer(gen Generator) *Composer {
	return &Composer{gen: gen, now: time.Now}
}

// Request describes one post to compose.
type Request struct {
	Channel   string // models.ChannelLinkedIn or models.ChannelTwitter
	Text      string // plain text of the article, markup stripped
	ShareLink string // public article URL
	Locale    string
}

// Compose writes a post promoting the article on the requested channel,
// in the locale's language. The client's call to action, when set,
// takes the place of the share link.
func (c *Composer) Compose(ctx context.Context, client *models.Client, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", apperr.New(apperr.KindContent, "article has no readable content")
	}

	post, err := c.gen.Generate(ctx, c.systemPrompt(client, req), req.Text)
	if err != nil {
		return "", apperr.Wrap(apperr.KindCollaborator, req.Channel+" post generation failed", err)
	}
	return strings.TrimSpace(post), nil
}

func (c *Composer) systemPrompt(client *models.Client, req Request) string {
	var b strings.Builder

	switch req.Channel {
	case models.ChannelTwitter:
		b.WriteString("You write posts for X (Twitter). Hard limit: 280 characters.\n")
	default:
		b.WriteString("You write posts for LinkedIn. Length: 80 to 150 words.\n")
	}

	fmt.Fprintf(&b, "Write the post in %s.\n", models.LanguageName(req.Locale))

	// The date grounds seasonal references without ever being quoted.
	fmt.Fprintf(&b, "Today is %s; use this only to keep seasonal references accurate and never mention the date itself.\n",
		c.now().Format("January 2, 2006"))

	fmt.Fprintf(&b, `
The company's mission: %q.
The target audience: %q.

Write an engaging post that promotes the article whose text follows.
`, client.Mission, client.TargetAudience)

	if client.CTA != "" {
		fmt.Fprintf(&b, "End with this call to action, rephrased naturally: %q.\n", client.CTA)
	} else if req.ShareLink != "" {
		fmt.Fprintf(&b, "End by inviting the reader to read the full article at %s.\n", req.ShareLink)
	}

	b.WriteString(`
Rules:
- No hashtags.
- Separate paragraphs with <br> tags; use no other markup.
- Output the post text only, no commentary.`)
	return b.String()
}
