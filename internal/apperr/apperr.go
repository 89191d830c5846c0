// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the application error taxonomy and its mapping
// to HTTP status codes. Handlers inspect the kind of an error to decide
// the response; everything unclassified is a collaborator failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindCollaborator covers failures of external collaborators:
	// LLM, image provider, email transport, document store.
	KindCollaborator Kind = iota
	// KindValidation marks missing or malformed request fields.
	KindValidation
	// KindNotFound marks a missing profile, article or document.
	KindNotFound
	// KindAuthorization marks a shared-secret mismatch. The message is
	// deliberately vague.
	KindAuthorization
	// KindContent marks article HTML the pipeline cannot use (no
	// title, no text).
	KindContent
	// KindInvalidState marks an operation rejected by the article
	// state machine (e.g. deleting a published article).
	KindInvalidState
	// KindInsufficientData marks a client profile too incomplete to
	// drive generation (missing mission or audience).
	KindInsufficientData
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindCollaborator when err carries
// no classification.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindCollaborator
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// HTTPStatus maps an error to its response status. Client-side kinds
// map to 400, missing documents to 404, everything else to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindAuthorization, KindContent,
		KindInvalidState, KindInsufficientData:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message of a classified error, or a
// generic one for unclassified failures so internals never leak.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Msg
	}
	return "internal error"
}
