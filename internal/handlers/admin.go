// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"copyforge/internal/apperr"
)

// DailyRunner runs the daily content job. Satisfied by
// *scheduler.Runner.
type DailyRunner interface {
	ProcessDailyRun(ctx context.Context) error
}

// Admin handles operational endpoints.
type Admin struct {
	runner DailyRunner
}

// NewAdmin creates the admin endpoint group.
func NewAdmin(runner DailyRunner) *Admin {
	return &Admin{runner: runner}
}

// TriggerDailyRun fires the daily content job immediately, outside its
// schedule.
// POST /trigger-daily-cronjob
func (h *Admin) TriggerDailyRun(w http.ResponseWriter, r *http.Request) {
	if err := h.runner.ProcessDailyRun(r.Context()); err != nil {
		writeError(w, r, apperr.Wrap(apperr.KindCollaborator, "daily run failed", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
