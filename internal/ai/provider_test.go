// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubProvider struct {
	name     string
	response string
}

func (p *stubProvider) Generate(ctx context.Context, system, user string) (string, error) {
	return p.response, nil
}

func (p *stubProvider) Name() string { return p.name }

func TestRegistry(t *testing.T) {
	t.Run("skips providers without keys", func(t *testing.T) {
		r := NewRegistry("openai", map[string]ProviderConfig{
			"openai": {APIKey: "sk-test", Model: "gpt-4o"},
			"claude": {APIKey: "", Model: "claude"},
		})
		if got := len(r.Available()); got != 1 {
			t.Errorf("available: got %d, want 1", got)
		}
	})

	t.Run("missing active provider is an error", func(t *testing.T) {
		r := NewRegistry("claude", map[string]ProviderConfig{})
		if _, err := r.Generate(context.Background(), "s", "u"); err == nil {
			t.Fatal("expected error with no configured provider")
		}
	})

	t.Run("registered provider serves Generate", func(t *testing.T) {
		r := NewRegistry("stub", map[string]ProviderConfig{})
		r.Register("stub", &stubProvider{name: "stub", response: "hello"})

		got, err := r.Generate(context.Background(), "s", "u")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if got != "hello" {
			t.Errorf("response = %q", got)
		}
	})

	t.Run("image support depends on the active provider", func(t *testing.T) {
		r := NewRegistry("stub", map[string]ProviderConfig{})
		r.Register("stub", &stubProvider{name: "stub"})
		if r.SupportsImageGeneration() {
			t.Error("text-only provider must not claim image support")
		}

		r2 := NewRegistry("openai", map[string]ProviderConfig{
			"openai": {APIKey: "sk-test", Model: "gpt-4o"},
		})
		if !r2.SupportsImageGeneration() {
			t.Error("openai provider should support image generation")
		}
	})
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth = %q", got)
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(openAIResponse{
			Choices: []openAIChoice{{Message: openAIMessage{Role: "assistant", Content: "generated text"}}},
		})
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "generated text" {
		t.Errorf("response = %q", got)
	}
}

func TestOpenAIGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req openAIImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ResponseFormat != "b64_json" {
			t.Errorf("response_format = %q", req.ResponseFormat)
		}
		if req.Model != "dall-e-3" {
			t.Errorf("model = %q", req.Model)
		}

		w.Write([]byte(`{"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString(png) + `"}]}`))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: srv.URL})
	data, contentType, err := p.GenerateImage(context.Background(), "a rocket")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q", contentType)
	}
	if string(data) != string(png) {
		t.Errorf("bytes = %v, want decoded png", data)
	}
}

func TestOpenAIErrors(t *testing.T) {
	t.Run("non-200 surfaces the body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		p := newOpenAI(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: srv.URL})
		_, err := p.Generate(context.Background(), "s", "u")
		if err == nil || !strings.Contains(err.Error(), "429") {
			t.Fatalf("err = %v, want status in message", err)
		}
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		p := newOpenAI(ProviderConfig{APIKey: "sk-test", Model: "gpt-4o", BaseURL: srv.URL})
		if _, err := p.Generate(context.Background(), "s", "u"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestClaudeGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-ant" {
			t.Errorf("api key header = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("anthropic-version header missing")
		}

		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.System != "system" {
			t.Errorf("system = %q", req.System)
		}

		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContentBlock{{Type: "text", Text: "claude text"}},
		})
	}))
	defer srv.Close()

	p := newClaude(ProviderConfig{APIKey: "sk-ant", Model: "claude-sonnet", BaseURL: srv.URL})
	got, err := p.Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "claude text" {
		t.Errorf("response = %q", got)
	}
}
