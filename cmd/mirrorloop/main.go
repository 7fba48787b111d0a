package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mirrorloop/mirrorloop/internal/api"
	"github.com/mirrorloop/mirrorloop/internal/config"
	"github.com/mirrorloop/mirrorloop/internal/events"
	"github.com/mirrorloop/mirrorloop/internal/notify"
	"github.com/mirrorloop/mirrorloop/internal/openai"
	"github.com/mirrorloop/mirrorloop/internal/pipeline"
	"github.com/mirrorloop/mirrorloop/internal/store"
	"github.com/mirrorloop/mirrorloop/internal/surveymonkey"
)

func main() {
	// .env is developer convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("mirrorloop starting", "env", cfg.AppEnv, "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Case store: durable when a database is configured, in-memory otherwise.
	var caseStore store.CaseStore
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		caseStore = pg
		slog.Info("database connected")
	} else {
		caseStore = store.NewMemory()
		slog.Warn("no DATABASE_URL — cases are process-lifetime only")
	}

	// Model provider
	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	llm := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	slog.Info("openai client ready", "model", cfg.OpenAIModel)

	pipe := pipeline.New(llm, slog.Default())

	// SurveyMonkey adapter — runs in demo mode without a token.
	sm := surveymonkey.NewClient(cfg.SurveyMonkeyBase, cfg.SurveyMonkeyToken, slog.Default())
	if sm.Enabled() {
		slog.Info("surveymonkey adapter enabled", "base_url", cfg.SurveyMonkeyBase)
	} else {
		slog.Warn("surveymonkey not configured — running in demo mode")
	}

	// Event publisher (optional)
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		var err error
		publisher, err = events.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — case events disabled")
	}

	// Slack notifier (optional)
	var notifier api.Notifier
	if cfg.SlackBotToken != "" && cfg.SlackCasesChannel != "" {
		notifier = notify.NewPoster(cfg.SlackBotToken, cfg.SlackCasesChannel, slog.Default())
		slog.Info("slack notifier ready", "channel", cfg.SlackCasesChannel)
	} else {
		slog.Warn("slack not configured — high-severity alerts disabled")
	}

	srv := api.NewServer(api.Options{
		Port:           cfg.Port,
		Env:            cfg.AppEnv,
		AllowedOrigins: cfg.CorsList(),
		Pipeline:       pipe,
		Survey:         sm,
		Store:          caseStore,
		Events:         publisher,
		Notifier:       notifier,
		Logger:         slog.Default(),
	})

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("mirrorloop ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}
	cancel()
	slog.Info("mirrorloop stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
