package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/store"
)

// userIDMetadataKey is the checkout metadata field carrying our user ID.
const userIDMetadataKey = "hareru_user_id"

// StripeWebhookHandler keeps the stored subscription tier in sync with
// Stripe billing events.
type StripeWebhookHandler struct {
	store         store.Store
	webhookSecret string
	logger        *slog.Logger
	now           func() time.Time
}

func NewStripeWebhookHandler(s store.Store, webhookSecret string, logger *slog.Logger) *StripeWebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StripeWebhookHandler{store: s, webhookSecret: webhookSecret, logger: logger, now: time.Now}
}

// HandleWebhook processes incoming Stripe webhook events.
func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(body, sigHeader, h.webhookSecret)
	if err != nil {
		h.logger.Warn("stripe webhook signature verification failed", "error", err)
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutCompleted(ctx, event)
	case "customer.subscription.deleted":
		h.handleSubscriptionEnded(ctx, event, "subscription deleted")
	case "invoice.payment_failed":
		h.handleSubscriptionEnded(ctx, event, "payment failed")
	default:
		h.logger.Info("unhandled stripe event type", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"received": true}`)
}

// handleCheckoutCompleted upgrades the user to the purchased tier. The
// checkout session metadata names the user and the tier; an unknown tier
// value falls back to clear.
func (h *StripeWebhookHandler) handleCheckoutCompleted(ctx context.Context, event stripe.Event) {
	var session struct {
		Customer     string            `json:"customer"`
		Subscription string            `json:"subscription"`
		Metadata     map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		h.logger.Error("failed to parse checkout.session.completed", "error", err)
		return
	}

	userID := session.Metadata[userIDMetadataKey]
	if userID == "" {
		h.logger.Warn("checkout.session.completed missing user metadata")
		return
	}

	tier := model.SubscriptionTier(session.Metadata["tier"])
	if tier != model.TierClear && tier != model.TierClearPro {
		tier = model.TierClear
	}

	h.logger.Info("checkout completed",
		"user_id", userID, "tier", string(tier), "customer", session.Customer)

	now := h.now()
	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		// First billing event for this user, create the record.
		user = &model.User{ID: userID, CreatedAt: now}
	}

	user.SubscriptionTier = tier
	user.StripeCustomerID = session.Customer
	user.StripeSubscriptionID = session.Subscription
	user.UpdatedAt = now

	if err := h.store.UpdateUser(ctx, user); err != nil {
		h.logger.Error("failed to update user after checkout", "user_id", userID, "error", err)
	}
}

// handleSubscriptionEnded drops the user back to the free tier.
func (h *StripeWebhookHandler) handleSubscriptionEnded(ctx context.Context, event stripe.Event, reason string) {
	var sub struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		h.logger.Error("failed to parse stripe event", "type", string(event.Type), "error", err)
		return
	}

	userID := sub.Metadata[userIDMetadataKey]
	if userID == "" {
		h.logger.Warn("stripe event missing user metadata", "type", string(event.Type), "object_id", sub.ID)
		return
	}

	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to get user for downgrade", "user_id", userID, "error", err)
		return
	}

	h.logger.Info("downgrading subscription", "user_id", userID, "reason", reason)

	user.SubscriptionTier = model.TierFree
	user.UpdatedAt = h.now()

	if err := h.store.UpdateUser(ctx, user); err != nil {
		h.logger.Error("failed to downgrade user", "user_id", userID, "error", err)
	}
}
