// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish coordinates the publication flow: thumbnail,
// social posts, the published flag across locales and the announcement
// email, plus the reverse unpublish flow.
package publish

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"copyforge/internal/apperr"
	"copyforge/internal/htmltext"
	"copyforge/internal/imaging"
	"copyforge/internal/mail"
	"copyforge/internal/models"
	"copyforge/internal/social"
	"copyforge/internal/store"
)

// Articles is the slice of the article lifecycle publication needs.
// Satisfied by *article.Lifecycle.
type Articles interface {
	Illustrate(ctx context.Context, client *models.Client, a *models.Article) (imaging.Result, error)
	FanOut(ctx context.Context, client *models.Client, primary, id string, fields store.ArticleFields) []error
}

// Posts composes social posts. Satisfied by *social.Composer.
type Posts interface {
	Compose(ctx context.Context, client *models.Client, req social.Request) (string, error)
}

// Store is the persistence surface. Satisfied by *store.ArticleStore.
type Store interface {
	Find(ctx context.Context, clientID, locale, id string) (*models.Article, error)
	UpdateFields(ctx context.Context, clientID, locale, id string, f store.ArticleFields) error
}

// Coordinator runs the publish and unpublish flows.
type Coordinator struct {
	store        Store
	articles     Articles
	posts        Posts
	mailer       mail.Mailer
	mailTo       []string
	secret       string
	homeClientID string
}

// NewCoordinator wires the publication coordinator. mailer may be nil;
// publishing then skips the announcement instead of failing.
func NewCoordinator(st Store, articles Articles, posts Posts, mailer mail.Mailer, mailTo []string, secret, homeClientID string) *Coordinator {
	return &Coordinator{
		store:        st,
		articles:     articles,
		posts:        posts,
		mailer:       mailer,
		mailTo:       mailTo,
		secret:       secret,
		homeClientID: homeClientID,
	}
}

// Publish takes an article live: it backfills a missing thumbnail
// (best effort), composes the social posts, emails the announcement,
// and only then flips the published flag on the article and its
// siblings. A failed email aborts the publish with nothing persisted.
func (c *Coordinator) Publish(ctx context.Context, client *models.Client, locale, id string) (*models.Article, error) {
	a, err := c.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "lookup article", err)
	}
	if a == nil {
		return nil, apperr.New(apperr.KindNotFound, "Article not found")
	}

	title := htmltext.Title(a.Content)
	text := htmltext.Text(a.Content)
	if title == "" || text == "" {
		return nil, apperr.New(apperr.KindContent, "Article has no title")
	}

	if a.Thumbnail == "" {
		// A missing thumbnail never blocks publication.
		if _, err := c.articles.Illustrate(ctx, client, a); err != nil {
			slog.Warn("thumbnail generation failed during publish", "client", client.ID, "id", id, "error", err)
		}
	}

	link := c.ShareLink(client, locale, id)

	posts, err := c.composePosts(ctx, client, text, link, locale)
	if err != nil {
		return nil, err
	}
	linkedin := posts[models.ChannelLinkedIn]

	// The announcement goes out before any state is written; a send
	// failure leaves the article untouched and unpublished.
	if c.mailer != nil {
		n := mail.PublishNotification(client.CompanyName, title, linkedin, link)
		if err := c.mailer.Send(c.mailTo, n.Subject, n.HTML); err != nil {
			return nil, apperr.Wrap(apperr.KindCollaborator, "send publication email", err)
		}
	}

	published := true
	if err := c.store.UpdateFields(ctx, client.ID, locale, id, store.ArticleFields{Posts: posts, Published: &published}); err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "persist publication", err)
	}
	a.Posts = posts
	a.Published = true

	// Siblings follow in lock-step: published flag, thumbnail, its
	// prompt and the posts all propagate to every translated variant.
	fanned := store.ArticleFields{Published: &published, Posts: posts}
	if a.Thumbnail != "" {
		fanned.Thumbnail = &a.Thumbnail
	}
	if prompt := a.ThumbnailPrompt(); prompt != "" {
		fanned.ThumbnailPrompt = &prompt
	}
	c.articles.FanOut(ctx, client, locale, id, fanned)

	return a, nil
}

// Unpublish takes an article offline across all locales. Guarded by the
// shared secret; no notification is sent.
func (c *Coordinator) Unpublish(ctx context.Context, client *models.Client, locale, id, secret string) error {
	if secret != c.secret {
		return apperr.New(apperr.KindAuthorization, "Invalid secret, you are not allowed to unpublish articles!")
	}

	a, err := c.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "lookup article", err)
	}
	if a == nil {
		return apperr.New(apperr.KindNotFound, "Article not found")
	}

	published := false
	if err := c.store.UpdateFields(ctx, client.ID, locale, id, store.ArticleFields{Published: &published}); err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "persist unpublication", err)
	}

	c.articles.FanOut(ctx, client, locale, id, store.ArticleFields{Published: &published})
	return nil
}

// RegeneratePosts recomposes the social posts for a published article,
// emails the refreshed LinkedIn post, persists the primary variant and
// then regenerates the post for every published sibling in the
// sibling's own language. Unpublished articles are rejected.
func (c *Coordinator) RegeneratePosts(ctx context.Context, client *models.Client, locale, id string) (map[string]string, error) {
	a, err := c.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "lookup article", err)
	}
	if a == nil {
		return nil, apperr.New(apperr.KindNotFound, "Article not found")
	}
	if !a.Published {
		return nil, apperr.New(apperr.KindInvalidState, "Article is not published")
	}

	text := htmltext.Text(a.Content)
	if text == "" {
		return nil, apperr.New(apperr.KindContent, "Article has no readable content")
	}
	link := c.ShareLink(client, locale, id)

	posts, err := c.composePosts(ctx, client, text, link, locale)
	if err != nil {
		return nil, err
	}

	// Same ordering as publish: the email goes out before any write.
	if c.mailer != nil {
		n := mail.PublishNotification(client.CompanyName, htmltext.Title(a.Content), posts[models.ChannelLinkedIn], link)
		if err := c.mailer.Send(c.mailTo, n.Subject, n.HTML); err != nil {
			return nil, apperr.Wrap(apperr.KindCollaborator, "send post email", err)
		}
	}

	if err := c.store.UpdateFields(ctx, client.ID, locale, id, store.ArticleFields{Posts: posts}); err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "persist posts", err)
	}

	// Published siblings get a fresh post in their own language; a
	// failing sibling is logged and the rest still refresh.
	for _, sib := range client.SupportedLocales() {
		if sib == locale {
			continue
		}
		if err := c.regenerateSibling(ctx, client, sib, id, link); err != nil {
			slog.Error("sibling post regeneration failed", "client", client.ID, "locale", sib, "id", id, "error", err)
		}
	}

	return posts, nil
}

// regenerateSibling recomposes and persists the LinkedIn post of one
// published sibling variant. Missing or unpublished siblings are
// skipped silently.
func (c *Coordinator) regenerateSibling(ctx context.Context, client *models.Client, locale, id, link string) error {
	sa, err := c.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return err
	}
	if sa == nil || !sa.Published {
		return nil
	}

	text := htmltext.Text(sa.Content)
	if text == "" {
		return apperr.New(apperr.KindContent, "sibling has no readable content")
	}

	post, err := c.posts.Compose(ctx, client, social.Request{
		Channel:   models.ChannelLinkedIn,
		Text:      text,
		ShareLink: link,
		Locale:    locale,
	})
	if err != nil {
		return err
	}
	return c.store.UpdateFields(ctx, client.ID, locale, id, store.ArticleFields{
		Posts: map[string]string{models.ChannelLinkedIn: post},
	})
}

// SendPostEmail mails the article's stored LinkedIn post to the
// configured recipients, composing one first when the article has none
// yet. Only published articles can be announced.
func (c *Coordinator) SendPostEmail(ctx context.Context, client *models.Client, locale, id string) error {
	if c.mailer == nil {
		return apperr.New(apperr.KindCollaborator, "mail is not configured")
	}

	a, err := c.store.Find(ctx, client.ID, locale, id)
	if err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "lookup article", err)
	}
	if a == nil {
		return apperr.New(apperr.KindNotFound, "Article not found")
	}
	if !a.Published {
		return apperr.New(apperr.KindInvalidState, "Article is not published")
	}

	post := a.Posts[models.ChannelLinkedIn]
	if post == "" {
		post, err = c.posts.Compose(ctx, client, social.Request{
			Channel:   models.ChannelLinkedIn,
			Text:      htmltext.Text(a.Content),
			ShareLink: c.ShareLink(client, locale, id),
			Locale:    locale,
		})
		if err != nil {
			return err
		}
	}

	title := htmltext.Title(a.Content)
	n := mail.PublishNotification(client.CompanyName, title, post, c.ShareLink(client, locale, id))
	if err := c.mailer.Send(c.mailTo, n.Subject, n.HTML); err != nil {
		return apperr.Wrap(apperr.KindCollaborator, "send post email", err)
	}
	return nil
}

// composePosts builds the posts map for a variant: LinkedIn always,
// Twitter when the client has the channel enabled.
func (c *Coordinator) composePosts(ctx context.Context, client *models.Client, text, link, locale string) (map[string]string, error) {
	posts := map[string]string{}

	linkedin, err := c.posts.Compose(ctx, client, social.Request{
		Channel:   models.ChannelLinkedIn,
		Text:      text,
		ShareLink: link,
		Locale:    locale,
	})
	if err != nil {
		return nil, err
	}
	posts[models.ChannelLinkedIn] = linkedin

	if client.AllowsChannel(models.ChannelTwitter) {
		tweet, err := c.posts.Compose(ctx, client, social.Request{
			Channel:   models.ChannelTwitter,
			Text:      text,
			ShareLink: link,
			Locale:    locale,
		})
		if err != nil {
			return nil, err
		}
		posts[models.ChannelTwitter] = tweet
	}

	return posts, nil
}

// ShareLink builds the public URL of an article on the client's site.
// The client id is appended as a query parameter unless the link
// already carries one or the client is the home site itself.
func (c *Coordinator) ShareLink(client *models.Client, locale, id string) string {
	domain := strings.TrimRight(client.Domain, "/")
	if domain != "" && !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	link := domain + "/" + locale + "/articles/" + id

	if client.ID == c.homeClientID || strings.Contains(link, "clientId=") {
		return link
	}
	return link + "?clientId=" + url.QueryEscape(client.ID)
}
