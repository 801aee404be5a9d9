package insights

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/hareru-app/backend/internal/genai"
	"github.com/hareru-app/backend/internal/locale"
	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/store"
)

const validInsightJSON = `{
	"healthScore": 82,
	"healthLabel": "良好",
	"healthDescription": "安定した支出です。",
	"savingsPotential": 12000,
	"savingsDescription": "外食を週1回減らすと生まれます。",
	"topInsight": "食費が先月より減っています。",
	"categoryHighlight": {"category": "食費", "amount": 45000, "message": "バランスの良い水準です。"},
	"weeklyTrend": "週ごとの支出は安定しています。",
	"suggestions": ["固定費を見直しましょう。", "袋分けを試しましょう。", "先取り貯金をしましょう。"],
	"encouragement": "この調子で続けましょう！",
	"generatedAt": "2000-01-01T00:00:00Z"
}`

// step is one scripted model attempt: either a response text or an error.
type step struct {
	text string
	err  error
}

type fakeCompleter struct {
	mu       sync.Mutex
	script   []step
	calls    int
	lastUser string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string, _ int, _ float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	f.lastUser = user
	s := f.script[idx]
	return s.text, s.err
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestOrchestrator(s store.Store, completer genai.Completer) *Orchestrator {
	o := NewOrchestrator(s, completer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.retry = genai.RetryConfig{
		MaxRetries:    1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
	o.now = func() time.Time { return testNow }
	return o
}

func seedMarch(s *store.MemoryStore, userID string) {
	s.AddTransaction(userID, entry(2025, 3, 3, "食費", 4500, model.TransactionExpense))
	s.AddTransaction(userID, entry(2025, 3, 10, "交通費", 1200, model.TransactionExpense))
	s.AddTransaction(userID, entry(2025, 3, 24, "趣味・娯楽", 8000, model.TransactionExpense))
}

func TestOrchestratorCacheIdempotence(t *testing.T) {
	mem := store.NewMemoryStore()
	seedMarch(mem, "user-1")
	completer := &fakeCompleter{script: []step{{text: validInsightJSON}}}
	o := newTestOrchestrator(mem, completer)

	first, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if completer.callCount() != 1 {
		t.Errorf("expected 1 model call across both runs, got %d", completer.callCount())
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("cached document not byte-identical:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestOrchestratorGeneratedAtOverwritten(t *testing.T) {
	mem := store.NewMemoryStore()
	seedMarch(mem, "user-1")
	completer := &fakeCompleter{script: []step{{text: validInsightJSON}}}
	o := newTestOrchestrator(mem, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// The model's own generatedAt (year 2000) is never trusted.
	if !insight.GeneratedAt.Equal(testNow) {
		t.Errorf("generatedAt = %v, want %v", insight.GeneratedAt, testNow)
	}
	if insight.HealthScore != 82 || insight.HealthLabel != "良好" {
		t.Errorf("parsed fields wrong: %+v", insight)
	}
	if insight.CategoryHighlight == nil || insight.CategoryHighlight.Category != "食費" {
		t.Errorf("category highlight not parsed: %+v", insight.CategoryHighlight)
	}
}

func TestOrchestratorRetryThenSuccess(t *testing.T) {
	mem := store.NewMemoryStore()
	seedMarch(mem, "user-1")
	completer := &fakeCompleter{script: []step{
		{err: &genai.GenError{Code: genai.ErrUpstream, Message: "boom", Retryable: true}},
		{text: validInsightJSON},
	}}
	o := newTestOrchestrator(mem, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if completer.callCount() != 2 {
		t.Errorf("expected 2 attempts, got %d", completer.callCount())
	}
	if insight.HealthScore != 82 {
		t.Errorf("expected generated insight after retry, got %+v", insight)
	}
}

func TestOrchestratorUnparsableOutputRetried(t *testing.T) {
	mem := store.NewMemoryStore()
	seedMarch(mem, "user-1")
	completer := &fakeCompleter{script: []step{
		{text: "I'm sorry, I can't produce JSON today."},
		{text: validInsightJSON},
	}}
	o := newTestOrchestrator(mem, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if completer.callCount() != 2 {
		t.Errorf("expected 2 attempts, got %d", completer.callCount())
	}
	if insight.HealthScore != 82 {
		t.Errorf("expected generated insight, got %+v", insight)
	}
}

func TestOrchestratorFallbackNotCached(t *testing.T) {
	for _, loc := range []locale.Locale{locale.Japanese, locale.Korean, locale.English} {
		t.Run(string(loc), func(t *testing.T) {
			mem := store.NewMemoryStore()
			seedMarch(mem, "user-1")
			completer := &fakeCompleter{script: []step{
				{err: &genai.GenError{Code: genai.ErrUpstream, Message: "down", Retryable: true}},
			}}
			o := newTestOrchestrator(mem, completer)

			insight, err := o.Run(context.Background(), "user-1", "2025-03", loc)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if completer.callCount() != 2 {
				t.Errorf("expected exactly 2 attempts, got %d", completer.callCount())
			}

			want := FallbackInsight(loc, testNow)
			if !reflect.DeepEqual(insight, want) {
				t.Errorf("fallback mismatch:\ngot  %+v\nwant %+v", insight, want)
			}
			if insight.HealthLabel != loc.HealthLabel(50) {
				t.Errorf("fallback label %q not from the 50-band table", insight.HealthLabel)
			}

			// A fallback must not poison the cache window.
			if _, err := mem.GetCachedInsight(context.Background(), "user-1", "2025-03"); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("fallback was cached: %v", err)
			}
		})
	}
}

func TestOrchestratorZeroTransactions(t *testing.T) {
	mem := store.NewMemoryStore()
	completer := &fakeCompleter{script: []step{{text: validInsightJSON}}}
	o := newTestOrchestrator(mem, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.English)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if completer.callCount() != 0 {
		t.Errorf("no-data path must not invoke the model, got %d calls", completer.callCount())
	}
	want := NoDataInsight(locale.English, testNow)
	if !reflect.DeepEqual(insight, want) {
		t.Errorf("no-data mismatch:\ngot  %+v\nwant %+v", insight, want)
	}
	if insight.HealthScore != 0 || insight.HealthLabel != "No Data" {
		t.Errorf("no-data document wrong: %+v", insight)
	}
	if _, err := mem.GetCachedInsight(context.Background(), "user-1", "2025-03"); !errors.Is(err, store.ErrNotFound) {
		t.Error("no-data path wrote the cache")
	}
}

func TestOrchestratorExpiredCacheRegenerates(t *testing.T) {
	mem := store.NewMemoryStore()
	seedMarch(mem, "user-1")

	stale := &model.Insight{HealthScore: 10, HealthLabel: "改善しましょう", GeneratedAt: testNow.Add(-30 * time.Hour)}
	if err := mem.PutInsight(context.Background(), "user-1", "2025-03", stale, testNow.Add(-25*time.Hour)); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	completer := &fakeCompleter{script: []step{{text: validInsightJSON}}}
	o := newTestOrchestrator(mem, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if completer.callCount() != 1 {
		t.Errorf("expired cache should trigger regeneration, calls = %d", completer.callCount())
	}
	if insight.HealthScore != 82 {
		t.Errorf("expected fresh document, got %+v", insight)
	}

	// The new generation supersedes the stale cached document.
	cached, err := mem.GetCachedInsight(context.Background(), "user-1", "2025-03")
	if err != nil {
		t.Fatalf("cache read: %v", err)
	}
	if cached.HealthScore != 82 || !cached.CachedAt.Equal(testNow) {
		t.Errorf("cache not superseded: %+v", cached)
	}
}

func TestOrchestratorPassesThroughSparseDocument(t *testing.T) {
	// Parse succeeds but suggestions are short and the highlight is absent:
	// the document is returned as parsed, unmodified.
	sparse := `{"healthScore": 64, "healthLabel": "要注意", "suggestions": ["一つだけ"]}`

	mem := store.NewMemoryStore()
	seedMarch(mem, "user-1")
	completer := &fakeCompleter{script: []step{{text: sparse}}}
	o := newTestOrchestrator(mem, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if completer.callCount() != 1 {
		t.Errorf("sparse-but-valid document must not trigger a retry, calls = %d", completer.callCount())
	}
	if insight.HealthScore != 64 || len(insight.Suggestions) != 1 {
		t.Errorf("sparse document modified: %+v", insight)
	}
	if insight.CategoryHighlight != nil {
		t.Errorf("absent highlight should stay nil: %+v", insight.CategoryHighlight)
	}
}

func TestOrchestratorCacheWriteFailureNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := store.NewMockStore(ctrl)

	mockStore.EXPECT().GetCachedInsight(gomock.Any(), "user-1", "2025-03").Return(nil, store.ErrNotFound)
	mockStore.EXPECT().ListMonthlyTransactions(gomock.Any(), "user-1", "2025-03").
		Return([]*model.Transaction{entry(2025, 3, 5, "食費", 3000, model.TransactionExpense)}, nil)
	mockStore.EXPECT().ListMonthlyTransactions(gomock.Any(), "user-1", "2025-02").Return(nil, nil)
	mockStore.EXPECT().PutInsight(gomock.Any(), "user-1", "2025-03", gomock.Any(), testNow).
		Return(errors.New("firestore unavailable"))

	completer := &fakeCompleter{script: []step{{text: validInsightJSON}}}
	o := newTestOrchestrator(mockStore, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("cache write failure must not fail the request: %v", err)
	}
	if insight.HealthScore != 82 {
		t.Errorf("expected generated insight despite write failure, got %+v", insight)
	}
}

func TestOrchestratorUpstreamFetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := store.NewMockStore(ctrl)

	mockStore.EXPECT().GetCachedInsight(gomock.Any(), "user-1", "2025-03").Return(nil, store.ErrNotFound)
	mockStore.EXPECT().ListMonthlyTransactions(gomock.Any(), "user-1", "2025-03").
		Return(nil, errors.New("ledger unreachable"))
	mockStore.EXPECT().ListMonthlyTransactions(gomock.Any(), "user-1", "2025-02").Return(nil, nil).AnyTimes()

	completer := &fakeCompleter{script: []step{{text: validInsightJSON}}}
	o := newTestOrchestrator(mockStore, completer)

	_, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("expected ErrUpstreamFetch, got %v", err)
	}
	if completer.callCount() != 0 {
		t.Errorf("model must not be called on fetch failure, calls = %d", completer.callCount())
	}
}

func TestOrchestratorPriorFetchFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := store.NewMockStore(ctrl)

	mockStore.EXPECT().GetCachedInsight(gomock.Any(), "user-1", "2025-03").Return(nil, store.ErrNotFound)
	mockStore.EXPECT().ListMonthlyTransactions(gomock.Any(), "user-1", "2025-03").
		Return([]*model.Transaction{entry(2025, 3, 5, "食費", 3000, model.TransactionExpense)}, nil)
	mockStore.EXPECT().ListMonthlyTransactions(gomock.Any(), "user-1", "2025-02").
		Return(nil, errors.New("prior month unreachable"))
	mockStore.EXPECT().PutInsight(gomock.Any(), "user-1", "2025-03", gomock.Any(), testNow).Return(nil)

	completer := &fakeCompleter{script: []step{{text: validInsightJSON}}}
	o := newTestOrchestrator(mockStore, completer)

	insight, err := o.Run(context.Background(), "user-1", "2025-03", locale.Japanese)
	if err != nil {
		t.Fatalf("prior fetch failure must degrade, not fail: %v", err)
	}
	if insight.HealthScore != 82 {
		t.Errorf("expected generated insight, got %+v", insight)
	}
	if !strings.Contains(completer.lastUser, "No previous month data available (first month of usage).") {
		t.Error("prompt should carry the no-prior-data marker when the prior fetch fails")
	}
}
