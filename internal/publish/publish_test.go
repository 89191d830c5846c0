// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"copyforge/internal/apperr"
	"copyforge/internal/imaging"
	"copyforge/internal/models"
	"copyforge/internal/social"
	"copyforge/internal/store"
)

type fieldUpdate struct {
	locale string
	fields store.ArticleFields
}

type fakeStore struct {
	articles map[string]*models.Article // key: locale + "/" + id
	updates  []fieldUpdate
	err      error
}

func key(locale, id string) string { return locale + "/" + id }

func (s *fakeStore) Find(ctx context.Context, clientID, locale, id string) (*models.Article, error) {
	return s.articles[key(locale, id)], s.err
}

func (s *fakeStore) UpdateFields(ctx context.Context, clientID, locale, id string, f store.ArticleFields) error {
	s.updates = append(s.updates, fieldUpdate{locale: locale, fields: f})
	if a, ok := s.articles[key(locale, id)]; ok {
		if f.Published != nil {
			a.Published = *f.Published
		}
		if f.Posts != nil {
			a.Posts = f.Posts
		}
	}
	return nil
}

type fakeArticles struct {
	illustrated int
	illustErr   error
	fanOuts     []store.ArticleFields
}

func (a *fakeArticles) Illustrate(ctx context.Context, client *models.Client, art *models.Article) (imaging.Result, error) {
	a.illustrated++
	if a.illustErr != nil {
		return imaging.Result{}, a.illustErr
	}
	art.Thumbnail = "https://img/generated.png"
	return imaging.Result{URL: art.Thumbnail, Prompt: "p"}, nil
}

func (a *fakeArticles) FanOut(ctx context.Context, client *models.Client, primary, id string, fields store.ArticleFields) []error {
	a.fanOuts = append(a.fanOuts, fields)
	return nil
}

type fakePosts struct {
	requests []social.Request
	err      error
}

func (p *fakePosts) Compose(ctx context.Context, client *models.Client, req social.Request) (string, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return "", p.err
	}
	return "post for " + req.Channel + " in " + req.Locale, nil
}

type fakeMailer struct {
	subjects []string
	bodies   []string
	err      error
}

func (m *fakeMailer) Send(to []string, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

func testClient() *models.Client {
	return &models.Client{
		ID:          "acme",
		CompanyName: "Acme",
		Mission:     "sell rockets",
		Domain:      "acme.example",
		Locales:     []string{"en", "fr"},
	}
}

func liveArticle() *models.Article {
	return &models.Article{
		ID: "a1", ClientID: "acme", Locale: "en",
		Content:   "<h1>Rockets</h1><p>Body text.</p>",
		Thumbnail: "https://img/a1.png",
		Prompts:   map[string]string{"thumbnail": "a rocket on a pad"},
	}
}

func newTestCoordinator(st *fakeStore, arts *fakeArticles, posts *fakePosts, mailer *fakeMailer) *Coordinator {
	return NewCoordinator(st, arts, posts, mailer, []string{"team@acme.example"}, "secret", "home")
}

func TestPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path emails, publishes and fans out", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): liveArticle()}}
		arts := &fakeArticles{}
		mailer := &fakeMailer{}
		c := newTestCoordinator(st, arts, &fakePosts{}, mailer)

		a, err := c.Publish(ctx, testClient(), "en", "a1")
		if err != nil {
			t.Fatalf("Publish: %v", err)
		}
		if !a.Published {
			t.Error("article should be published")
		}
		if a.Posts[models.ChannelLinkedIn] == "" {
			t.Error("linkedin post missing")
		}
		if _, ok := a.Posts[models.ChannelTwitter]; ok {
			t.Error("twitter post composed without the channel enabled")
		}
		if len(mailer.subjects) != 1 {
			t.Fatalf("emails sent: got %d, want 1", len(mailer.subjects))
		}
		if !strings.Contains(mailer.subjects[0], "Rockets") {
			t.Errorf("subject = %q, want article title", mailer.subjects[0])
		}
		if arts.illustrated != 0 {
			t.Error("existing thumbnail must not be regenerated")
		}
	})

	t.Run("siblings get flag, thumbnail, prompt and posts", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): liveArticle()}}
		arts := &fakeArticles{}
		c := newTestCoordinator(st, arts, &fakePosts{}, &fakeMailer{})

		if _, err := c.Publish(ctx, testClient(), "en", "a1"); err != nil {
			t.Fatalf("Publish: %v", err)
		}
		if len(arts.fanOuts) != 1 {
			t.Fatalf("fan outs: got %d, want 1", len(arts.fanOuts))
		}
		f := arts.fanOuts[0]
		if f.Published == nil || !*f.Published {
			t.Error("published flag missing from fan-out")
		}
		if f.Thumbnail == nil || *f.Thumbnail != "https://img/a1.png" {
			t.Error("thumbnail missing from fan-out")
		}
		if f.ThumbnailPrompt == nil || *f.ThumbnailPrompt != "a rocket on a pad" {
			t.Error("thumbnail prompt missing from fan-out")
		}
		if f.Posts[models.ChannelLinkedIn] == "" {
			t.Error("posts missing from fan-out")
		}
	})

	t.Run("twitter post added when the channel is allowed", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): liveArticle()}}
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, &fakeMailer{})

		client := testClient()
		client.Allowed = map[string]bool{models.ChannelTwitter: true}

		a, err := c.Publish(ctx, client, "en", "a1")
		if err != nil {
			t.Fatalf("Publish: %v", err)
		}
		if a.Posts[models.ChannelTwitter] == "" {
			t.Error("twitter post missing")
		}
	})

	t.Run("missing title blocks publication", func(t *testing.T) {
		a := liveArticle()
		a.Content = "<p>No headline here.</p>"
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): a}}
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, &fakeMailer{})

		_, err := c.Publish(ctx, testClient(), "en", "a1")
		if !apperr.IsKind(err, apperr.KindContent) {
			t.Fatalf("err = %v, want content error", err)
		}
		if len(st.updates) != 0 {
			t.Error("nothing should have been persisted")
		}
	})

	t.Run("thumbnail failure is soft", func(t *testing.T) {
		a := liveArticle()
		a.Thumbnail = ""
		a.Prompts = nil
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): a}}
		arts := &fakeArticles{illustErr: errors.New("image provider down")}
		c := newTestCoordinator(st, arts, &fakePosts{}, &fakeMailer{})

		got, err := c.Publish(ctx, testClient(), "en", "a1")
		if err != nil {
			t.Fatalf("Publish: %v", err)
		}
		if !got.Published {
			t.Error("publication should proceed without a thumbnail")
		}
	})

	t.Run("email failure aborts before any state is written", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): liveArticle()}}
		arts := &fakeArticles{}
		c := newTestCoordinator(st, arts, &fakePosts{}, &fakeMailer{err: errors.New("smtp down")})

		_, err := c.Publish(ctx, testClient(), "en", "a1")
		if err == nil {
			t.Fatal("expected error")
		}
		if st.articles[key("en", "a1")].Published {
			t.Error("published flag must not be persisted when the email fails")
		}
		if len(st.updates) != 0 {
			t.Errorf("updates: got %d, want none", len(st.updates))
		}
		if len(arts.fanOuts) != 0 {
			t.Error("nothing should fan out when the email fails")
		}
	})

	t.Run("missing article is not found", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{}}
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, &fakeMailer{})
		if _, err := c.Publish(ctx, testClient(), "en", "ghost"); !apperr.IsKind(err, apperr.KindNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
	})
}

func TestUnpublish(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong secret is refused", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{}}
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, &fakeMailer{})
		err := c.Unpublish(ctx, testClient(), "en", "a1", "wrong")
		if !apperr.IsKind(err, apperr.KindAuthorization) {
			t.Fatalf("err = %v, want authorization", err)
		}
	})

	t.Run("clears the flag everywhere without email", func(t *testing.T) {
		a := liveArticle()
		a.Published = true
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): a}}
		arts := &fakeArticles{}
		mailer := &fakeMailer{}
		c := newTestCoordinator(st, arts, &fakePosts{}, mailer)

		if err := c.Unpublish(ctx, testClient(), "en", "a1", "secret"); err != nil {
			t.Fatalf("Unpublish: %v", err)
		}
		if st.articles[key("en", "a1")].Published {
			t.Error("article should be unpublished")
		}
		if len(arts.fanOuts) != 1 || *arts.fanOuts[0].Published {
			t.Error("cleared flag should fan out")
		}
		if len(mailer.subjects) != 0 {
			t.Error("unpublish must not email")
		}
	})
}

func TestRegeneratePosts(t *testing.T) {
	ctx := context.Background()

	publishedPair := func() *fakeStore {
		en := liveArticle()
		en.Published = true
		fr := &models.Article{
			ID: "a1", ClientID: "acme", Locale: "fr",
			Content: "<h1>Fusées</h1><p>Texte.</p>", Published: true,
		}
		return &fakeStore{articles: map[string]*models.Article{
			key("en", "a1"): en,
			key("fr", "a1"): fr,
		}}
	}

	t.Run("refreshes primary and published siblings, and emails", func(t *testing.T) {
		st := publishedPair()
		posts := &fakePosts{}
		mailer := &fakeMailer{}
		c := newTestCoordinator(st, &fakeArticles{}, posts, mailer)

		got, err := c.RegeneratePosts(ctx, testClient(), "en", "a1")
		if err != nil {
			t.Fatalf("RegeneratePosts: %v", err)
		}
		if got[models.ChannelLinkedIn] == "" {
			t.Error("linkedin post missing")
		}
		if len(mailer.subjects) != 1 {
			t.Errorf("emails sent: got %d, want 1", len(mailer.subjects))
		}

		if len(st.updates) != 2 {
			t.Fatalf("updates: got %d, want primary + sibling", len(st.updates))
		}
		if st.updates[0].locale != "en" || st.updates[1].locale != "fr" {
			t.Errorf("update locales = %s, %s", st.updates[0].locale, st.updates[1].locale)
		}
		// The sibling's post is composed from its own content in its
		// own language.
		last := posts.requests[len(posts.requests)-1]
		if last.Locale != "fr" || !strings.Contains(last.Text, "Texte") {
			t.Errorf("sibling request = %+v", last)
		}
	})

	t.Run("unpublished sibling is skipped", func(t *testing.T) {
		st := publishedPair()
		st.articles[key("fr", "a1")].Published = false
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, &fakeMailer{})

		if _, err := c.RegeneratePosts(ctx, testClient(), "en", "a1"); err != nil {
			t.Fatalf("RegeneratePosts: %v", err)
		}
		if len(st.updates) != 1 {
			t.Errorf("updates: got %d, want primary only", len(st.updates))
		}
	})

	t.Run("unpublished article is rejected", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): liveArticle()}}
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, &fakeMailer{})

		_, err := c.RegeneratePosts(ctx, testClient(), "en", "a1")
		if !apperr.IsKind(err, apperr.KindInvalidState) {
			t.Fatalf("err = %v, want invalid state", err)
		}
		if len(st.updates) != 0 {
			t.Error("nothing should have been persisted")
		}
	})

	t.Run("email failure aborts before persisting", func(t *testing.T) {
		st := publishedPair()
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, &fakeMailer{err: errors.New("smtp down")})

		if _, err := c.RegeneratePosts(ctx, testClient(), "en", "a1"); err == nil {
			t.Fatal("expected error")
		}
		if len(st.updates) != 0 {
			t.Errorf("updates: got %d, want none", len(st.updates))
		}
	})
}

func TestSendPostEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the stored linkedin post", func(t *testing.T) {
		a := liveArticle()
		a.Published = true
		a.Posts = map[string]string{models.ChannelLinkedIn: "stored post"}
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): a}}
		posts := &fakePosts{}
		mailer := &fakeMailer{}
		c := newTestCoordinator(st, &fakeArticles{}, posts, mailer)

		if err := c.SendPostEmail(ctx, testClient(), "en", "a1"); err != nil {
			t.Fatalf("SendPostEmail: %v", err)
		}
		if len(posts.requests) != 0 {
			t.Error("stored post should be reused, not recomposed")
		}
		if len(mailer.bodies) != 1 || !strings.Contains(mailer.bodies[0], "stored post") {
			t.Error("email should carry the stored post")
		}
	})

	t.Run("composes a post when none is stored", func(t *testing.T) {
		a := liveArticle()
		a.Published = true
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): a}}
		posts := &fakePosts{}
		c := newTestCoordinator(st, &fakeArticles{}, posts, &fakeMailer{})

		if err := c.SendPostEmail(ctx, testClient(), "en", "a1"); err != nil {
			t.Fatalf("SendPostEmail: %v", err)
		}
		if len(posts.requests) == 0 {
			t.Error("a post should have been composed")
		}
	})

	t.Run("unpublished article is rejected", func(t *testing.T) {
		st := &fakeStore{articles: map[string]*models.Article{key("en", "a1"): liveArticle()}}
		mailer := &fakeMailer{}
		c := newTestCoordinator(st, &fakeArticles{}, &fakePosts{}, mailer)

		err := c.SendPostEmail(ctx, testClient(), "en", "a1")
		if !apperr.IsKind(err, apperr.KindInvalidState) {
			t.Fatalf("err = %v, want invalid state", err)
		}
		if len(mailer.subjects) != 0 {
			t.Error("no email for an unpublished article")
		}
	})
}

func TestShareLink(t *testing.T) {
	c := NewCoordinator(nil, nil, nil, nil, nil, "secret", "home")

	tests := []struct {
		name   string
		client *models.Client
		want   string
	}{
		{
			"appends the client id",
			&models.Client{ID: "acme", Domain: "acme.example"},
			"https://acme.example/en/articles/a1?clientId=acme",
		},
		{
			"home client keeps a bare link",
			&models.Client{ID: "home", Domain: "home.example"},
			"https://home.example/en/articles/a1",
		},
		{
			"existing scheme is preserved",
			&models.Client{ID: "acme", Domain: "http://acme.local/"},
			"http://acme.local/en/articles/a1?clientId=acme",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ShareLink(tt.client, "en", "a1"); got != tt.want {
				t.Errorf("ShareLink = %q, want %q", got, tt.want)
			}
		})
	}
}
