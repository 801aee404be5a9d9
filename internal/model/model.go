// Package model holds the domain types shared across the service: ledger
// transactions, generated insight documents, usage counters and users.
package model

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single ledger movement recorded by the app. Amounts are
// whole yen. Transactions are owned by the mobile client's sync layer and
// are read-only on this side.
type Transaction struct {
	Amount   int64           `json:"amount" firestore:"amount"`
	Category string          `json:"category" firestore:"category"`
	Date     time.Time       `json:"date" firestore:"date"`
	Type     TransactionType `json:"type" firestore:"type"`
	Memo     string          `json:"memo,omitempty" firestore:"memo,omitempty"`
}

// CategoryHighlight calls out a single category worth the user's attention.
// It is either fully populated or absent, never partial.
type CategoryHighlight struct {
	Category string `json:"category" firestore:"category"`
	Amount   int64  `json:"amount" firestore:"amount"`
	Message  string `json:"message" firestore:"message"`
}

// Insight is the generated monthly financial-health document. Field names
// mirror the payload contract the mobile client renders.
type Insight struct {
	HealthScore        int                `json:"healthScore" firestore:"healthScore"`
	HealthLabel        string             `json:"healthLabel" firestore:"healthLabel"`
	HealthDescription  string             `json:"healthDescription" firestore:"healthDescription"`
	SavingsPotential   int64              `json:"savingsPotential" firestore:"savingsPotential"`
	SavingsDescription string             `json:"savingsDescription" firestore:"savingsDescription"`
	TopInsight         string             `json:"topInsight" firestore:"topInsight"`
	CategoryHighlight  *CategoryHighlight `json:"categoryHighlight" firestore:"categoryHighlight"`
	WeeklyTrend        string             `json:"weeklyTrend" firestore:"weeklyTrend"`
	Suggestions        []string           `json:"suggestions" firestore:"suggestions"`
	Encouragement      string             `json:"encouragement" firestore:"encouragement"`
	GeneratedAt        time.Time          `json:"generatedAt" firestore:"generatedAt"`
}

// CachedInsight is an Insight as stored, with the cache bookkeeping the
// freshness window is computed from.
type CachedInsight struct {
	Insight
	CachedAt time.Time `json:"-" firestore:"cachedAt"`
}

// FreshFor reports whether the cached document is still inside the freshness
// window at the given instant. A zero CachedAt never counts as fresh.
func (c *CachedInsight) FreshFor(window time.Duration, now time.Time) bool {
	if c == nil || c.CachedAt.IsZero() {
		return false
	}
	return now.Sub(c.CachedAt) <= window
}

// SubscriptionTier is the user's subscription level.
type SubscriptionTier string

const (
	TierFree     SubscriptionTier = "free"
	TierClear    SubscriptionTier = "clear"
	TierClearPro SubscriptionTier = "clearPro"
)

// Feature names the AI features gated by entitlement and quota.
type Feature string

const (
	FeatureGenerateInsights Feature = "generateInsights"
	FeatureParseReceipt     Feature = "parseReceipt"
	FeatureAICoach          Feature = "aiCoach"
)

// User is the backend-side user record. The subscription tier is maintained
// by the billing webhook and read by the entitlement check.
type User struct {
	ID                   string           `json:"id" firestore:"id"`
	SubscriptionTier     SubscriptionTier `json:"subscriptionTier" firestore:"subscriptionTier"`
	StripeCustomerID     string           `json:"stripeCustomerId,omitempty" firestore:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string           `json:"stripeSubscriptionId,omitempty" firestore:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time        `json:"createdAt" firestore:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt" firestore:"updatedAt"`
}

// Usage reports quota consumption for one feature on one day.
type Usage struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
}

// ReceiptItem is one line item extracted from a receipt.
type ReceiptItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
	Price    int64  `json:"price"`
}

// ReceiptExtraction is the structured result of parsing a receipt. Every
// field except the total is optional; absent fields stay zero-valued.
type ReceiptExtraction struct {
	StoreName     string        `json:"storeName,omitempty"`
	Date          string        `json:"date,omitempty"`
	Items         []ReceiptItem `json:"items,omitempty"`
	Total         int64         `json:"total"`
	Tax           int64         `json:"tax,omitempty"`
	Discount      int64         `json:"discount,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Memo          string        `json:"memo,omitempty"`
}
