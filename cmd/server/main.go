package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hareru-app/backend/internal/auth"
	"github.com/hareru-app/backend/internal/config"
	"github.com/hareru-app/backend/internal/genai"
	"github.com/hareru-app/backend/internal/insights"
	"github.com/hareru-app/backend/internal/quota"
	"github.com/hareru-app/backend/internal/receipt"
	"github.com/hareru-app/backend/internal/service"
	"github.com/hareru-app/backend/internal/store"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var storeImpl store.Store
	var verifier service.TokenVerifier

	if cfg.UseMemoryStore {
		logger.Info("using in-memory store with mock authentication for local development")
		storeImpl = store.NewMemoryStore()
	} else {
		firestoreClient, err := firestore.NewClient(ctx, cfg.GoogleCloudProject)
		if err != nil {
			logger.Error("failed to create firestore client", "error", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()
		storeImpl = store.NewFirestoreStore(firestoreClient, cfg.Timezone)

		if cfg.SkipAuth {
			logger.Warn("SKIP_AUTH enabled, using mock authentication with firestore")
		} else {
			firebaseAuth, err := auth.NewFirebaseAuth(ctx)
			if err != nil {
				logger.Error("failed to initialize firebase auth", "error", err)
				os.Exit(1)
			}
			verifier = firebaseAuth
		}
	}

	completer := genai.NewClient(cfg.GeminiAPIKey)

	var webhookHandler *service.StripeWebhookHandler
	if cfg.StripeWebhookSecret != "" {
		webhookHandler = service.NewStripeWebhookHandler(storeImpl, cfg.StripeWebhookSecret, logger)
	} else {
		logger.Info("STRIPE_WEBHOOK_SECRET not set, billing webhook disabled")
	}

	svc := service.New(service.Options{
		Store:    storeImpl,
		Insights: insights.NewOrchestrator(storeImpl, completer, logger),
		Receipts: receipt.NewParser(completer, logger),
		Gate:     quota.NewGate(storeImpl, cfg.Timezone, logger),
		Verifier: verifier,
		Webhook:  webhookHandler,
		Logger:   logger,
		Timezone: cfg.Timezone,
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:1234",
			"http://127.0.0.1:1234",
			"https://hareru.app",
			"https://www.hareru.app",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			"X-Debug-User-ID",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
	})

	handler := c.Handler(svc.Routes())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	logger.Info("starting server", "port", cfg.Port, "timezone", cfg.Timezone.String())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
