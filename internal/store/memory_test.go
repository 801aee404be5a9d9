package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hareru-app/backend/internal/model"
)

func seedTx(s *MemoryStore, userID string, date time.Time, amount int64) {
	s.AddTransaction(userID, &model.Transaction{
		Amount:   amount,
		Category: "食費",
		Date:     date,
		Type:     model.TransactionExpense,
	})
}

func TestMemoryStoreListMonthlyTransactions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	seedTx(s, "u1", time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC), 100)
	seedTx(s, "u1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 200)
	seedTx(s, "u1", time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC), 300)
	seedTx(s, "u1", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 400)
	seedTx(s, "u2", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 999)

	got, err := s.ListMonthlyTransactions(ctx, "u1", "2025-06")
	if err != nil {
		t.Fatalf("ListMonthlyTransactions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (month boundaries are half-open)", len(got))
	}
	if got[0].Amount != 200 || got[1].Amount != 300 {
		t.Errorf("amounts = %d, %d; want 200, 300 in date order", got[0].Amount, got[1].Amount)
	}
}

func TestMemoryStoreListReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedTx(s, "u1", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 100)

	first, err := s.ListMonthlyTransactions(ctx, "u1", "2025-06")
	if err != nil {
		t.Fatalf("ListMonthlyTransactions() error = %v", err)
	}
	first[0].Amount = 9999

	second, _ := s.ListMonthlyTransactions(ctx, "u1", "2025-06")
	if second[0].Amount != 100 {
		t.Errorf("stored entry mutated through returned pointer: %d", second[0].Amount)
	}
}

func TestMemoryStoreInsightRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetCachedInsight(ctx, "u1", "2025-06"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetCachedInsight() error = %v, want ErrNotFound", err)
	}

	cachedAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	insight := &model.Insight{
		HealthScore:       82,
		HealthLabel:       "良好",
		Suggestions:       []string{"自炊を増やしましょう"},
		CategoryHighlight: &model.CategoryHighlight{Category: "食費", Amount: 74000, Message: "食費が最大の支出です"},
		GeneratedAt:       cachedAt,
	}
	if err := s.PutInsight(ctx, "u1", "2025-06", insight, cachedAt); err != nil {
		t.Fatalf("PutInsight() error = %v", err)
	}

	// Mutating the caller's copy after the write must not leak into the store.
	insight.Suggestions[0] = "mutated"
	insight.CategoryHighlight.Amount = 0

	got, err := s.GetCachedInsight(ctx, "u1", "2025-06")
	if err != nil {
		t.Fatalf("GetCachedInsight() error = %v", err)
	}
	if got.HealthScore != 82 || got.HealthLabel != "良好" {
		t.Errorf("insight = %+v", got.Insight)
	}
	if got.Suggestions[0] != "自炊を増やしましょう" {
		t.Errorf("suggestion mutated through caller's slice: %q", got.Suggestions[0])
	}
	if got.CategoryHighlight.Amount != 74000 {
		t.Errorf("highlight mutated through caller's pointer: %d", got.CategoryHighlight.Amount)
	}
	if !got.CachedAt.Equal(cachedAt) {
		t.Errorf("CachedAt = %v, want %v", got.CachedAt, cachedAt)
	}

	if _, err := s.GetCachedInsight(ctx, "u2", "2025-06"); !errors.Is(err, ErrNotFound) {
		t.Error("cache keys should be scoped per user")
	}
}

func TestMemoryStoreIncrementDailyUsage(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, current, err := s.IncrementDailyUsage(ctx, "u1", model.FeatureGenerateInsights, "2025-06", "2025-06-15", 3)
		if err != nil {
			t.Fatalf("IncrementDailyUsage() error = %v", err)
		}
		if !allowed || current != i {
			t.Fatalf("call %d: allowed = %v, current = %d", i, allowed, current)
		}
	}

	allowed, current, err := s.IncrementDailyUsage(ctx, "u1", model.FeatureGenerateInsights, "2025-06", "2025-06-15", 3)
	if err != nil {
		t.Fatalf("IncrementDailyUsage() error = %v", err)
	}
	if allowed {
		t.Error("fourth increment should be denied")
	}
	if current != 3 {
		t.Errorf("denied call reported current = %d, want 3", current)
	}

	// A new day gets a fresh counter.
	allowed, current, _ = s.IncrementDailyUsage(ctx, "u1", model.FeatureGenerateInsights, "2025-06", "2025-06-16", 3)
	if !allowed || current != 1 {
		t.Errorf("next day: allowed = %v, current = %d", allowed, current)
	}
}

func TestMemoryStoreUserRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetUser(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUser() error = %v, want ErrNotFound", err)
	}

	user := &model.User{ID: "u1", SubscriptionTier: model.TierClear}
	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.SubscriptionTier != model.TierClear {
		t.Errorf("tier = %q, want clear", got.SubscriptionTier)
	}

	got.SubscriptionTier = model.TierClearPro
	again, _ := s.GetUser(ctx, "u1")
	if again.SubscriptionTier != model.TierClear {
		t.Error("stored user mutated through returned pointer")
	}
}
