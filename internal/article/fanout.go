// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package article

import (
	"context"
	"fmt"
	"log/slog"

	"copyforge/internal/models"
	"copyforge/internal/store"
)

// FanOut applies a field update to every existing sibling of an
// article, skipping the primary locale. Locales with no sibling are
// skipped silently: siblings only come into existence through
// translation. Updates run sequentially and best-effort; each failure
// is logged and collected, never aborting the rest. Returns the
// per-locale errors, nil when all siblings updated cleanly.
func (l *Lifecycle) FanOut(ctx context.Context, client *models.Client, primary, id string, fields store.ArticleFields) []error {
	var errs []error
	for _, locale := range client.SupportedLocales() {
		if locale == primary {
			continue
		}
		ok, err := l.store.Exists(ctx, client.ID, locale, id)
		if err != nil {
			err = fmt.Errorf("lookup sibling %s: %w", locale, err)
			slog.Error("fan-out failed", "client", client.ID, "locale", locale, "id", id, "error", err)
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		if err := l.store.UpdateFields(ctx, client.ID, locale, id, fields); err != nil {
			err = fmt.Errorf("update sibling %s: %w", locale, err)
			slog.Error("fan-out failed", "client", client.ID, "locale", locale, "id", id, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}
