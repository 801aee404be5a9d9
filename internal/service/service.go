// Package service exposes the AI features over HTTP: insight generation,
// receipt parsing, the coaching placeholder, and the Stripe billing webhook.
// Every AI endpoint runs the same ladder of checks before doing work:
// authentication, subscription entitlement, then the daily quota gate.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hareru-app/backend/internal/auth"
	"github.com/hareru-app/backend/internal/insights"
	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/quota"
	"github.com/hareru-app/backend/internal/receipt"
	"github.com/hareru-app/backend/internal/store"
)

const upgradeURL = "https://hareru.app/pricing"

// TokenVerifier validates a Firebase ID token. A nil verifier switches the
// service to mock authentication for local development.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*auth.UserClaims, error)
}

// Service wires the HTTP surface to the feature pipelines.
type Service struct {
	store    store.Store
	insights *insights.Orchestrator
	receipts *receipt.Parser
	gate     *quota.Gate
	verifier TokenVerifier
	webhook  *StripeWebhookHandler
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

// Options collects the service collaborators.
type Options struct {
	Store    store.Store
	Insights *insights.Orchestrator
	Receipts *receipt.Parser
	Gate     *quota.Gate
	Verifier TokenVerifier
	Webhook  *StripeWebhookHandler
	Logger   *slog.Logger
	Timezone *time.Location
}

func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	return &Service{
		store:    opts.Store,
		insights: opts.Insights,
		receipts: opts.Receipts,
		gate:     opts.Gate,
		verifier: opts.Verifier,
		webhook:  opts.Webhook,
		logger:   opts.Logger,
		loc:      opts.Timezone,
		now:      time.Now,
	}
}

// Routes builds the request mux with logging middleware applied.
func (s *Service) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/generateInsights", s.handleGenerateInsights)
	mux.HandleFunc("/parseReceipt", s.handleParseReceipt)
	mux.HandleFunc("/aiCoach", s.handleAICoach)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if s.webhook != nil {
		mux.HandleFunc("/webhooks/stripe", s.webhook.HandleWebhook)
	}
	return s.withRequestLogging(mux)
}

// authenticate verifies the caller and returns the request with the
// caller's claims attached to its context, or writes the 401 response.
// With no verifier configured (local development) the debug header names
// the user, defaulting to a fixed dev identity.
func (s *Service) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	if s.verifier == nil {
		uid := r.Header.Get("X-Debug-User-ID")
		if uid == "" {
			uid = "local-dev-user"
		}
		claims := &auth.UserClaims{UID: uid}
		return r.WithContext(auth.WithUserClaims(r.Context(), claims)), true
	}

	token, err := auth.ExtractTokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Error:   "Unauthorized",
			Message: "Missing or invalid Authorization header. Expected: Bearer <token>",
		})
		return nil, false
	}

	claims, err := s.verifier.VerifyToken(r.Context(), token)
	if err != nil {
		s.logger.Warn("auth token verification failed", "error", err)
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Error:   "Unauthorized",
			Message: "Invalid or expired authentication token.",
		})
		return nil, false
	}
	return r.WithContext(auth.WithUserClaims(r.Context(), claims)), true
}

// admit runs the entitlement and quota checks for one feature, writing the
// 403 or 429 response on rejection. It returns the caller's tier on success.
func (s *Service) admit(w http.ResponseWriter, r *http.Request, userID string, feature model.Feature) (model.SubscriptionTier, bool) {
	tier := auth.LookupTier(r.Context(), s.store, userID, s.logger)

	if authorized, required := auth.Authorize(tier, feature); !authorized {
		names := make([]string, len(required))
		for i, t := range required {
			names[i] = string(t)
		}
		writeJSON(w, http.StatusForbidden, forbiddenBody{
			Error:         "Forbidden",
			Message:       "This feature requires a " + strings.Join(names, " or ") + " subscription.",
			CurrentTier:   tier,
			RequiredTiers: required,
			UpgradeURL:    upgradeURL,
		})
		return tier, false
	}

	switch decision, usage := s.gate.Check(r.Context(), userID, feature, tier); decision {
	case quota.NotEntitled:
		writeJSON(w, http.StatusForbidden, errorBody{
			Error:   "Forbidden",
			Message: "Feature not available for your subscription tier.",
		})
		return tier, false
	case quota.LimitReached:
		writeJSON(w, http.StatusTooManyRequests, limitBody{
			Error:   "Too Many Requests",
			Message: fmtLimitMessage(usage.Limit, feature),
			Usage:   usage,
		})
		return tier, false
	}
	return tier, true
}

func fmtLimitMessage(limit int, feature model.Feature) string {
	return fmt.Sprintf("Daily limit of %d reached for %s. Resets at midnight (JST).", limit, feature)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type forbiddenBody struct {
	Error         string                   `json:"error"`
	Message       string                   `json:"message"`
	CurrentTier   model.SubscriptionTier   `json:"currentTier"`
	RequiredTiers []model.SubscriptionTier `json:"requiredTiers"`
	UpgradeURL    string                   `json:"upgradeUrl"`
}

type limitBody struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Usage   model.Usage `json:"usage"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, struct {
		Error string `json:"error"`
	}{Error: "Method Not Allowed"})
}
