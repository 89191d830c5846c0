// Package main is the entry point for the copyforge content server.
// It loads configuration, connects to services, wires the content
// pipeline and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"copyforge/internal/ai"
	"copyforge/internal/article"
	"copyforge/internal/config"
	"copyforge/internal/database"
	"copyforge/internal/handlers"
	"copyforge/internal/ideas"
	"copyforge/internal/imaging"
	"copyforge/internal/mail"
	"copyforge/internal/publish"
	"copyforge/internal/router"
	"copyforge/internal/schedule"
	"copyforge/internal/scheduler"
	"copyforge/internal/social"
	"copyforge/internal/storage"
	"copyforge/internal/store"
)

func main() {
	// Structured logger — text output, debug level everywhere for now.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Redis for the schedule index.
	rdb, err := schedule.Connect(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	index := schedule.NewIndex(rdb)

	// Data stores.
	clientStore := store.NewClientStore(db)
	articleStore := store.NewArticleStore(db)

	// S3-compatible object storage for generated thumbnails (optional —
	// the app works without it, minus images).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient == nil {
		slog.Warn("s3 storage not configured — thumbnails disabled")
	}

	// AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, ImageModel: cfg.ImageModel, BaseURL: cfg.OpenAIBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Content pipeline services.
	var thumbs *imaging.Creator
	if storageClient != nil && aiRegistry.SupportsImageGeneration() {
		thumbs = imaging.NewCreator(aiRegistry, aiRegistry, storageClient)
	}

	var lifecycle *article.Lifecycle
	if thumbs != nil {
		lifecycle = article.NewLifecycle(articleStore, aiRegistry, thumbs)
	} else {
		lifecycle = article.NewLifecycle(articleStore, aiRegistry, nil)
	}

	ideaService := ideas.NewService(aiRegistry, clientStore, index)
	composer := social.NewComposer(aiRegistry)

	smtpPort, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		slog.Error("invalid SMTP_PORT", "value", cfg.SMTPPort)
		os.Exit(1)
	}
	var mailer mail.Mailer
	if m := mail.NewSMTPMailer(cfg.SMTPHost, smtpPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom); m != nil {
		mailer = m
	} else {
		slog.Warn("smtp not configured — publication emails disabled")
	}
	mailTo := splitRecipients(cfg.MailTo)

	coordinator := publish.NewCoordinator(articleStore, lifecycle, composer, mailer, mailTo, cfg.PublishSecret, cfg.HomeClientID)

	// Daily scheduler.
	runner := scheduler.NewRunner(clientStore, index, lifecycle, ideaService, cfg.ScheduleHourUTC)
	schedCtx, stopSched := context.WithCancel(context.Background())
	defer stopSched()
	go runner.Start(schedCtx)

	// Handler groups.
	clientHandlers := handlers.NewClients(clientStore, ideaService, index)
	articleHandlers := handlers.NewArticles(clientStore, lifecycle, cfg.PublishSecret)
	imageHandlers := handlers.NewImages(clientStore, articleStore, lifecycle, thumbsOrNil(thumbs))
	postHandlers := handlers.NewPosts(clientStore, coordinator)
	publishingHandlers := handlers.NewPublishing(clientStore, coordinator)
	adminHandlers := handlers.NewAdmin(runner)

	r := router.New(clientHandlers, articleHandlers, imageHandlers, postHandlers, publishingHandlers, adminHandlers)

	// Generation endpoints wait on LLM and image providers, so the write
	// timeout is generous.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	stopSched()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// splitRecipients parses the comma-separated MAIL_TO value.
func splitRecipients(raw string) []string {
	var out []string
	for _, addr := range strings.Split(raw, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// thumbsOrNil keeps the Images handler's interface value nil when no
// creator exists, instead of a non-nil interface holding a nil pointer.
func thumbsOrNil(c *imaging.Creator) handlers.ImageSaver {
	if c == nil {
		return nil
	}
	return c
}
