// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP API. Every mutating endpoint
// takes a JSON body carrying at least the client id; responses are
// JSON, errors are {"error": message} with the status derived from the
// error's kind.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"copyforge/internal/apperr"
	"copyforge/internal/models"
)

// maxBodySize caps request bodies; profile documents stay well under it.
const maxBodySize = 1 << 20

// ClientDirectory loads client profiles. Satisfied by *store.ClientStore.
type ClientDirectory interface {
	Find(ctx context.Context, id string) (*models.Client, error)
}

// Ping responds to health checks.
func Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Pong"))
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, "unreadable request body", err)
	}
	if len(body) == 0 {
		return apperr.New(apperr.KindValidation, "Missing required parameters")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid JSON body", err)
	}
	return nil
}

// loadClient resolves the client id from a request body.
func loadClient(ctx context.Context, dir ClientDirectory, id string) (*models.Client, error) {
	if id == "" {
		return nil, apperr.New(apperr.KindValidation, "Missing required parameters")
	}
	client, err := dir.Find(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCollaborator, "load client", err)
	}
	if client == nil {
		return nil, apperr.New(apperr.KindNotFound, "Client not found")
	}
	return client, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps an error onto its HTTP response. Unclassified
// failures are logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError || errors.Is(err, context.Canceled) {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": apperr.Message(err)})
}
