// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends the publication notification emails over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers one HTML message.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPMailer sends through a plain SMTP relay with optional AUTH.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer configures an SMTP mailer. Returns nil when host is
// empty so callers can treat mail as unconfigured.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if host == "" {
		return nil
	}
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

// Send delivers an HTML message to the recipients in one SMTP
// transaction.
func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("smtp send: no recipients")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, to, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Notification is a publication announcement ready to send.
type Notification struct {
	Subject string
	HTML    string
}

// PublishNotification builds the bilingual announcement sent when an
// article goes live. post is the LinkedIn post text (with <br> breaks);
// link is the article's share URL.
func PublishNotification(companyName, title, post, link string) Notification {
	subject := fmt.Sprintf("New article published / Nouvel article publié: %s", title)

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>A new article for <strong>%s</strong> is now live.</p>", companyName)
	fmt.Fprintf(&b, "<p>Un nouvel article pour <strong>%s</strong> vient d'être publié.</p>", companyName)
	fmt.Fprintf(&b, "<h2>%s</h2>", title)
	if post != "" {
		fmt.Fprintf(&b, "<p>%s</p>", post)
	}
	fmt.Fprintf(&b, `<p><a href="%s">Read the article / Lire l'article</a></p>`, link)
	b.WriteString("</body></html>")

	return Notification{Subject: subject, HTML: b.String()}
}
