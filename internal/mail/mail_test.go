// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import (
	"strings"
	"testing"
)

func TestNewSMTPMailer(t *testing.T) {
	t.Run("nil when host is empty", func(t *testing.T) {
		if m := NewSMTPMailer("", 587, "u", "p", "from@x"); m != nil {
			t.Error("expected nil mailer without a host")
		}
	})

	t.Run("configured when host is set", func(t *testing.T) {
		if m := NewSMTPMailer("smtp.example", 587, "u", "p", "from@x"); m == nil {
			t.Error("expected a mailer")
		}
	})
}

func TestSendRequiresRecipients(t *testing.T) {
	m := NewSMTPMailer("smtp.example", 587, "", "", "from@x")
	if err := m.Send(nil, "s", "<p>b</p>"); err == nil {
		t.Fatal("expected error for empty recipient list")
	}
}

func TestPublishNotification(t *testing.T) {
	n := PublishNotification("Acme", "Rocket Science", "Read our take<br>now", "https://acme/en/articles/a1")

	if !strings.Contains(n.Subject, "Rocket Science") {
		t.Errorf("subject = %q, want the title", n.Subject)
	}

	t.Run("body is bilingual", func(t *testing.T) {
		if !strings.Contains(n.HTML, "is now live") {
			t.Error("missing English line")
		}
		if !strings.Contains(n.HTML, "vient d'être publié") {
			t.Error("missing French line")
		}
	})

	t.Run("body links the article", func(t *testing.T) {
		if !strings.Contains(n.HTML, `href="https://acme/en/articles/a1"`) {
			t.Error("missing article link")
		}
	})

	t.Run("body carries the post", func(t *testing.T) {
		if !strings.Contains(n.HTML, "Read our take<br>now") {
			t.Error("missing post text")
		}
	})
}
