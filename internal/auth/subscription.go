package auth

import (
	"context"
	"log/slog"

	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/store"
)

// featureAccess lists which tiers are entitled to each AI feature.
var featureAccess = map[model.Feature][]model.SubscriptionTier{
	model.FeatureGenerateInsights: {model.TierClear, model.TierClearPro},
	model.FeatureParseReceipt:     {model.TierClearPro},
	model.FeatureAICoach:          {model.TierClearPro},
}

// LookupTier fetches the user's subscription tier from the store. A missing
// user record or a store error both resolve to the free tier: an unknown
// caller never gets paid features by accident.
func LookupTier(ctx context.Context, s store.Store, userID string, logger *slog.Logger) model.SubscriptionTier {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		if err != store.ErrNotFound && logger != nil {
			logger.Error("subscription tier lookup failed", "user_id", userID, "error", err)
		}
		return model.TierFree
	}
	if user.SubscriptionTier == "" {
		return model.TierFree
	}
	return user.SubscriptionTier
}

// Authorize reports whether the tier is entitled to the feature, and the
// tiers that would be.
func Authorize(tier model.SubscriptionTier, feature model.Feature) (authorized bool, required []model.SubscriptionTier) {
	required = featureAccess[feature]
	for _, allowed := range required {
		if tier == allowed {
			return true, required
		}
	}
	return false, required
}
