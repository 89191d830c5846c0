// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging produces article thumbnails: it derives the core
// visual elements of a subject with the LLM, builds an image prompt
// from them and the client's style preferences, generates the image and
// stores it durably in object storage.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"copyforge/internal/apperr"
	"copyforge/internal/models"
)

// TextGenerator produces text from a prompt pair. Satisfied by *ai.Registry.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ImageGenerator produces image bytes from a prompt. Satisfied by *ai.Registry.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// ObjectStore stores image bytes and serves them publicly.
// Satisfied by *storage.Client.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
}

// Result is a generated thumbnail: its public URL and the full prompt
// that produced it, kept as an audit trail on the article.
type Result struct {
	URL    string
	Prompt string
}

// Creator generates and stores thumbnails.
type Creator struct {
	gen    TextGenerator
	images ImageGenerator
	store  ObjectStore
	client *http.Client // for fetching externally hosted images
}

// NewCreator wires a thumbnail creator.
func NewCreator(gen TextGenerator, images ImageGenerator, store ObjectStore) *Creator {
	return &Creator{
		gen:    gen,
		images: images,
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Create produces a thumbnail for the subject. The LLM first names
// three core visual elements; those are folded into the image prompt
// together with the client's style preferences.
func (c *Creator) Create(ctx context.Context, subject, clientID string, style models.StylePreferences) (Result, error) {
	elements, err := c.coreElements(ctx, subject)
	if err != nil {
		return Result{}, err
	}

	prompt := BuildPrompt(subject, elements, style)

	imgBytes, contentType, err := c.images.GenerateImage(ctx, prompt)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindCollaborator, "image generation failed", err)
	}

	key := imageKey(clientID, subject, contentType)
	if err := c.store.Upload(ctx, key, contentType, bytes.NewReader(imgBytes), int64(len(imgBytes))); err != nil {
		return Result{}, apperr.Wrap(apperr.KindCollaborator, "image upload failed", err)
	}

	return Result{URL: c.store.FileURL(key), Prompt: prompt}, nil
}

// SaveFromURL fetches an externally hosted image and stores a durable
// public copy, returning its URL. Provider-hosted generation URLs
// expire, so anything worth keeping goes through here.
func (c *Creator) SaveFromURL(ctx context.Context, rawURL, clientID, subject string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "invalid image url", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindCollaborator, "fetch image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Newf(apperr.KindCollaborator, "fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindCollaborator, "read image body", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	key := imageKey(clientID, subject, contentType)
	if err := c.store.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", apperr.Wrap(apperr.KindCollaborator, "image upload failed", err)
	}

	return c.store.FileURL(key), nil
}

// Remove deletes a stored image by its public URL. URLs that do not
// belong to the bucket are ignored, so externally hosted thumbnails
// pass through unharmed.
func (c *Creator) Remove(ctx context.Context, rawURL string) error {
	key, ok := c.store.ExtractKey(rawURL)
	if !ok {
		return nil
	}
	return c.store.Delete(ctx, key)
}

// coreElements asks the LLM for the three main objects that visualize
// the subject, phrased for direct inclusion in the image prompt.
func (c *Creator) coreElements(ctx context.Context, subject string) (string, error) {
	system := `You describe imagery for an illustration pipeline. Identify the 3 main objects
that best visualize the given subject. Output a single short phrase of the form:
"The image features 3 core elements: element_1, element_2 and element_3".
Output that phrase only.`

	elements, err := c.gen.Generate(ctx, system, fmt.Sprintf("Subject: %s", subject))
	if err != nil {
		return "", apperr.Wrap(apperr.KindCollaborator, "core element extraction failed", err)
	}
	return strings.TrimSpace(elements), nil
}

// BuildPrompt assembles the final image prompt from the subject, the
// extracted core elements and the client's style preferences.
func BuildPrompt(subject, coreElements string, style models.StylePreferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A wide-format editorial illustration for an article about %q. ", subject)
	if coreElements != "" {
		b.WriteString(coreElements)
		b.WriteString(". ")
	}
	if style.Ambiance != "" {
		fmt.Fprintf(&b, "Ambiance: %s. ", style.Ambiance)
	}
	if style.Mood != "" {
		fmt.Fprintf(&b, "Mood: %s. ", style.Mood)
	}
	if len(style.Colors) > 0 {
		fmt.Fprintf(&b, "Color palette: %s. ", strings.Join(style.Colors, ", "))
	}
	b.WriteString("No text or lettering in the image.")
	return b.String()
}

// imageKey builds the storage key images/{client}/{subject-slug}-{uuid}.{ext}.
func imageKey(clientID, subject, contentType string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(subject), " ", "-"))
	if slug == "" {
		slug = "new"
	}
	ext := ".png"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("images/%s/%s-%s%s", clientID, slug, uuid.New().String(), ext)
}
