// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", New(KindValidation, "bad"), http.StatusBadRequest},
		{"authorization", New(KindAuthorization, "no"), http.StatusBadRequest},
		{"content", New(KindContent, "empty"), http.StatusBadRequest},
		{"invalid state", New(KindInvalidState, "published"), http.StatusBadRequest},
		{"insufficient data", New(KindInsufficientData, "incomplete"), http.StatusBadRequest},
		{"not found", New(KindNotFound, "missing"), http.StatusNotFound},
		{"collaborator", New(KindCollaborator, "llm down"), http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := New(KindNotFound, "missing")
	wrapped := fmt.Errorf("outer: %w", inner)

	if !IsKind(wrapped, KindNotFound) {
		t.Error("kind should survive fmt.Errorf wrapping")
	}
	if KindOf(wrapped) != KindNotFound {
		t.Errorf("KindOf = %v, want not found", KindOf(wrapped))
	}
}

func TestMessage(t *testing.T) {
	t.Run("classified errors expose their message", func(t *testing.T) {
		err := Wrap(KindCollaborator, "persist draft", errors.New("pq: connection refused"))
		if got := Message(err); got != "persist draft" {
			t.Errorf("Message = %q", got)
		}
	})

	t.Run("unclassified errors stay generic", func(t *testing.T) {
		if got := Message(errors.New("pq: secret dsn")); got != "internal error" {
			t.Errorf("Message = %q, internals must not leak", got)
		}
	})
}

func TestErrorString(t *testing.T) {
	err := Wrap(KindCollaborator, "persist draft", errors.New("timeout"))
	if err.Error() != "persist draft: timeout" {
		t.Errorf("Error = %q", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("wrapped cause should unwrap")
	}
}
