// Package store provides the persistence layer: monthly transaction reads,
// the insight cache, daily API usage counters and user records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/hareru-app/backend/internal/model"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: not found")

// Store defines the database operations used by the service.
type Store interface {
	// ListMonthlyTransactions returns the user's transactions for the given
	// "YYYY-MM" period, ordered by date ascending. Transactions are owned by
	// the client sync layer; this side never writes them.
	ListMonthlyTransactions(ctx context.Context, userID, yearMonth string) ([]*model.Transaction, error)

	// GetCachedInsight returns the stored insight document for the period,
	// or ErrNotFound when none exists. Freshness is the caller's concern.
	GetCachedInsight(ctx context.Context, userID, yearMonth string) (*model.CachedInsight, error)

	// PutInsight stores an insight document with the given cache timestamp.
	// The write uses merge semantics: a newer document supersedes the fields
	// it carries without destroying unrelated stored fields.
	PutInsight(ctx context.Context, userID, yearMonth string, insight *model.Insight, cachedAt time.Time) error

	// IncrementDailyUsage atomically reads the day's call count for the
	// feature and increments it only while below limit. It reports whether
	// the call was admitted and the count after the operation. The
	// read-modify-write is serializable per (userID, feature, yearMonth):
	// concurrent callers cannot both take the last slot.
	IncrementDailyUsage(ctx context.Context, userID string, feature model.Feature, yearMonth, dayKey string, limit int) (allowed bool, current int, err error)

	// GetUser returns the user record, or ErrNotFound.
	GetUser(ctx context.Context, userID string) (*model.User, error)

	// UpdateUser creates or replaces the user record.
	UpdateUser(ctx context.Context, user *model.User) error
}

// insightDoc flattens an insight plus its cache timestamp into the map shape
// needed for a Firestore merge write. A map (rather than the struct) keeps
// MergeAll available so unrelated stored fields survive a rewrite.
func insightDoc(insight *model.Insight, cachedAt time.Time) map[string]interface{} {
	doc := map[string]interface{}{
		"healthScore":        insight.HealthScore,
		"healthLabel":        insight.HealthLabel,
		"healthDescription":  insight.HealthDescription,
		"savingsPotential":   insight.SavingsPotential,
		"savingsDescription": insight.SavingsDescription,
		"topInsight":         insight.TopInsight,
		"weeklyTrend":        insight.WeeklyTrend,
		"suggestions":        insight.Suggestions,
		"encouragement":      insight.Encouragement,
		"generatedAt":        insight.GeneratedAt,
		"cachedAt":           cachedAt,
	}
	if insight.CategoryHighlight != nil {
		doc["categoryHighlight"] = map[string]interface{}{
			"category": insight.CategoryHighlight.Category,
			"amount":   insight.CategoryHighlight.Amount,
			"message":  insight.CategoryHighlight.Message,
		}
	} else {
		doc["categoryHighlight"] = nil
	}
	return doc
}
