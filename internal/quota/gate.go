// Package quota enforces per-user daily call limits on the AI features.
package quota

import (
	"context"
	"log/slog"
	"time"

	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/store"
)

// dailyLimits is the static tier×feature limit table. A pair with no entry
// means the feature is not entitled for that tier, which is a different
// outcome from a reached limit.
var dailyLimits = map[model.SubscriptionTier]map[model.Feature]int{
	model.TierFree: {},
	model.TierClear: {
		model.FeatureGenerateInsights: 3,
	},
	model.TierClearPro: {
		model.FeatureGenerateInsights: 5,
		model.FeatureParseReceipt:     20,
		model.FeatureAICoach:          10,
	},
}

// Decision is the outcome of a quota check.
type Decision int

const (
	Allowed Decision = iota
	LimitReached
	NotEntitled
)

// Gate performs the atomic daily-usage check against the counter store.
// Day keys roll over in the service operating timezone.
type Gate struct {
	store  store.Store
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time
}

// NewGate creates a quota gate. loc is the timezone whose midnight resets
// the daily counters.
func NewGate(s store.Store, loc *time.Location, logger *slog.Logger) *Gate {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{store: s, loc: loc, logger: logger, now: time.Now}
}

// Check admits or rejects one call for the user/feature/tier. On allow the
// persisted counter has already been incremented; a deny mutates nothing.
// The check-and-increment is serializable per key through the store, so
// concurrent callers cannot both take the last slot. If the counter store
// is unreachable the gate fails open: feature availability is prioritized
// over perfect quota enforcement.
func (g *Gate) Check(ctx context.Context, userID string, feature model.Feature, tier model.SubscriptionTier) (Decision, model.Usage) {
	limit, ok := dailyLimits[tier][feature]
	if !ok {
		return NotEntitled, model.Usage{}
	}

	now := g.now().In(g.loc)
	yearMonth := now.Format("2006-01")
	dayKey := now.Format("2006-01-02")

	allowed, current, err := g.store.IncrementDailyUsage(ctx, userID, feature, yearMonth, dayKey, limit)
	if err != nil {
		g.logger.Error("quota counter unreachable, failing open",
			"user_id", userID, "feature", string(feature), "error", err)
		return Allowed, model.Usage{Limit: limit}
	}

	if !allowed {
		return LimitReached, model.Usage{Current: current, Limit: limit}
	}
	return Allowed, model.Usage{Current: current, Limit: limit}
}

// Limit returns the configured daily limit for a tier/feature pair.
func Limit(tier model.SubscriptionTier, feature model.Feature) (int, bool) {
	limit, ok := dailyLimits[tier][feature]
	return limit, ok
}
