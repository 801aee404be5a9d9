package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/hareru-app/backend/internal/model"
)

// Firestore document layout, shared with the mobile client:
//
//	users/{uid}                      user record (subscriptionTier, ...)
//	users/{uid}/transactions/{id}    ledger entries, written by the client
//	users/{uid}/insights/{yearMonth} cached insight documents
//	users/{uid}/apiUsage/{yearMonth} daily usage counters per feature

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
	loc    *time.Location
}

// NewFirestoreStore creates a Firestore-backed store. Month boundaries for
// transaction queries are computed in loc, the service operating timezone.
func NewFirestoreStore(client *firestore.Client, loc *time.Location) Store {
	if loc == nil {
		loc = time.UTC
	}
	return &FirestoreStore{client: client, loc: loc}
}

func (s *FirestoreStore) userDoc(userID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID)
}

// ListMonthlyTransactions queries the user's transactions inside the month,
// ordered by date ascending.
func (s *FirestoreStore) ListMonthlyTransactions(ctx context.Context, userID, yearMonth string) ([]*model.Transaction, error) {
	start, end, err := model.MonthInterval(yearMonth, s.loc)
	if err != nil {
		return nil, err
	}

	iter := s.userDoc(userID).Collection("transactions").
		Where("date", ">=", start).
		Where("date", "<", end).
		OrderBy("date", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var txs []*model.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		var tx model.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return nil, fmt.Errorf("parse transaction %s: %w", doc.Ref.ID, err)
		}
		txs = append(txs, &tx)
	}
	return txs, nil
}

// GetCachedInsight reads the stored insight document for the period.
func (s *FirestoreStore) GetCachedInsight(ctx context.Context, userID, yearMonth string) (*model.CachedInsight, error) {
	doc, err := s.userDoc(userID).Collection("insights").Doc(yearMonth).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cached insight: %w", err)
	}
	var cached model.CachedInsight
	if err := doc.DataTo(&cached); err != nil {
		return nil, fmt.Errorf("parse cached insight: %w", err)
	}
	return &cached, nil
}

// PutInsight writes the insight document with MergeAll so unrelated stored
// fields are preserved when a newer generation supersedes the document.
func (s *FirestoreStore) PutInsight(ctx context.Context, userID, yearMonth string, insight *model.Insight, cachedAt time.Time) error {
	_, err := s.userDoc(userID).Collection("insights").Doc(yearMonth).
		Set(ctx, insightDoc(insight, cachedAt), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("put insight: %w", err)
	}
	return nil
}

// IncrementDailyUsage performs the quota check-and-increment inside a single
// Firestore transaction. Firestore serializes transactions touching the same
// document, so two concurrent calls cannot both take the last slot even
// across service instances.
func (s *FirestoreStore) IncrementDailyUsage(ctx context.Context, userID string, feature model.Feature, yearMonth, dayKey string, limit int) (bool, int, error) {
	usageRef := s.userDoc(userID).Collection("apiUsage").Doc(yearMonth)

	var allowed bool
	var current int
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(usageRef)
		if err != nil && (doc == nil || doc.Exists()) {
			return err
		}

		count := 0
		if doc != nil && doc.Exists() {
			if featureUsage, ok := doc.Data()[string(feature)].(map[string]interface{}); ok {
				if n, ok := featureUsage[dayKey].(int64); ok {
					count = int(n)
				}
			}
		}

		if count >= limit {
			allowed = false
			current = count
			return nil
		}

		allowed = true
		current = count + 1
		return tx.Set(usageRef, map[string]interface{}{
			string(feature): map[string]interface{}{
				dayKey: current,
			},
		}, firestore.MergeAll)
	})
	if err != nil {
		return false, 0, fmt.Errorf("increment usage: %w", err)
	}
	return allowed, current, nil
}

// GetUser retrieves the user record.
func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	doc, err := s.userDoc(userID).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("parse user: %w", err)
	}
	return &user, nil
}

// UpdateUser creates or replaces the user record.
func (s *FirestoreStore) UpdateUser(ctx context.Context, user *model.User) error {
	_, err := s.userDoc(user.ID).Set(ctx, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
