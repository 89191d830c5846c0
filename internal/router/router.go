// Package router wires the HTTP routes. Endpoints are grouped under
// /api by concern; the flat legacy paths the first-generation callers
// use stay mounted at the root.
package router

import (
	"github.com/go-chi/chi/v5"

	"copyforge/internal/handlers"
	"copyforge/internal/middleware"
)

// New creates the configured Chi router with all middleware and routes.
func New(clients *handlers.Clients, articles *handlers.Articles, images *handlers.Images, posts *handlers.Posts, publishing *handlers.Publishing, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/ping", handlers.Ping)

	r.Route("/api", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Post("/setup", clients.Setup)
			r.Post("/finish-setup", clients.FinishSetup)
			r.Post("/ideas", clients.GenerateIdeas)
			r.Post("/next-ideas", clients.UpdateNextIdeas)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Post("/", articles.Create)
			r.Post("/delete", articles.Delete)
			r.Post("/translations", articles.Translations)
			r.Post("/chart", articles.UpdateChartDataset)
		})

		r.Route("/images", func(r chi.Router) {
			r.Post("/update", images.Update)
			r.Post("/save", images.Save)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/regenerate", posts.Regenerate)
			r.Post("/email", posts.SendEmail)
		})

		r.Route("/publishing", func(r chi.Router) {
			r.Post("/publish", publishing.Publish)
			r.Post("/unpublish", publishing.Unpublish)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/daily-run", admin.TriggerDailyRun)
		})
	})

	// Legacy flat routes, kept path-for-path for existing callers.
	r.Post("/setup-client", clients.Setup)
	r.Post("/finish-setup", clients.FinishSetup)
	r.Get("/get-100-ideas", clients.GenerateIdeas)
	r.Post("/get-100-ideas", clients.GenerateIdeas)
	r.Post("/update-next-ideas", clients.UpdateNextIdeas)
	r.Post("/updateNextIdeas", clients.UpdateNextIdeas)
	r.Post("/createNewArticle", articles.Create)
	r.Delete("/deleteUnpublishedArticle", articles.Delete)
	r.Post("/deleteUnpublishedArticle", articles.Delete)
	r.Post("/get-translations", articles.Translations)
	r.Get("/update-chart-dataset", articles.UpdateChartDataset)
	r.Post("/update-chart-dataset", articles.UpdateChartDataset)
	r.Post("/update-image", images.Update)
	r.Post("/save-image-storage", images.Save)
	r.Post("/get-linkedin-post", posts.Regenerate)
	r.Post("/send-post-to-email", posts.SendEmail)
	r.Post("/publish", publishing.Publish)
	r.Post("/unpublish", publishing.Unpublish)
	r.Post("/trigger-daily-cronjob", admin.TriggerDailyRun)

	return r
}
