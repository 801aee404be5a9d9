package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hareru-app/backend/internal/model"
)

// MemoryStore is an in-memory Store for local development and tests. A
// single mutex gives it the same serializable counter semantics the
// Firestore transaction provides in production.
type MemoryStore struct {
	mu           sync.Mutex
	transactions map[string][]*model.Transaction      // userID -> entries
	insights     map[string]*model.CachedInsight      // userID/yearMonth -> doc
	usage        map[string]map[string]map[string]int // userID/yearMonth -> feature -> day -> count
	users        map[string]*model.User               // userID -> record
	loc          *time.Location
}

// NewMemoryStore creates an empty in-memory store using UTC month
// boundaries.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string][]*model.Transaction),
		insights:     make(map[string]*model.CachedInsight),
		usage:        make(map[string]map[string]map[string]int),
		users:        make(map[string]*model.User),
		loc:          time.UTC,
	}
}

func cacheKey(userID, yearMonth string) string {
	return userID + "/" + yearMonth
}

// AddTransaction seeds a ledger entry. Test/dev helper; the service itself
// never writes transactions.
func (s *MemoryStore) AddTransaction(userID string, tx *model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.transactions[userID] = append(s.transactions[userID], &cp)
}

func (s *MemoryStore) ListMonthlyTransactions(_ context.Context, userID, yearMonth string) ([]*model.Transaction, error) {
	start, end, err := model.MonthInterval(yearMonth, s.loc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.Transaction
	for _, tx := range s.transactions[userID] {
		if !tx.Date.Before(start) && tx.Date.Before(end) {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) GetCachedInsight(_ context.Context, userID, yearMonth string) (*model.CachedInsight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.insights[cacheKey(userID, yearMonth)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *cached
	if cached.CategoryHighlight != nil {
		h := *cached.CategoryHighlight
		cp.CategoryHighlight = &h
	}
	cp.Suggestions = append([]string(nil), cached.Suggestions...)
	return &cp, nil
}

func (s *MemoryStore) PutInsight(_ context.Context, userID, yearMonth string, insight *model.Insight, cachedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *insight
	if insight.CategoryHighlight != nil {
		h := *insight.CategoryHighlight
		cp.CategoryHighlight = &h
	}
	cp.Suggestions = append([]string(nil), insight.Suggestions...)
	s.insights[cacheKey(userID, yearMonth)] = &model.CachedInsight{Insight: cp, CachedAt: cachedAt}
	return nil
}

func (s *MemoryStore) IncrementDailyUsage(_ context.Context, userID string, feature model.Feature, yearMonth, dayKey string, limit int) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cacheKey(userID, yearMonth)
	byFeature, ok := s.usage[key]
	if !ok {
		byFeature = make(map[string]map[string]int)
		s.usage[key] = byFeature
	}
	byDay, ok := byFeature[string(feature)]
	if !ok {
		byDay = make(map[string]int)
		byFeature[string(feature)] = byDay
	}

	current := byDay[dayKey]
	if current >= limit {
		return false, current, nil
	}
	byDay[dayKey]++
	return true, current + 1, nil
}

func (s *MemoryStore) GetUser(_ context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *user
	s.users[user.ID] = &cp
	return nil
}
