package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hareru-app/backend/internal/genai"
	"github.com/hareru-app/backend/internal/locale"
	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/store"
)

const (
	// CacheWindow is the freshness window for cached insight documents.
	CacheWindow = 24 * time.Hour

	insightMaxTokens   = 1024
	insightTemperature = 0.2
)

// ErrUpstreamFetch marks a failure to read the target month's ledger. It is
// the only error the orchestrator surfaces: everything downstream of a
// successful fetch degrades to a well-formed document instead.
var ErrUpstreamFetch = errors.New("insights: ledger fetch failed")

// Orchestrator runs the generation pipeline: cache check, aggregation,
// prompt assembly, the bounded model-call loop and the fallback ladder.
type Orchestrator struct {
	store     store.Store
	completer genai.Completer
	retry     genai.RetryConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrchestrator wires the pipeline. The completer is constructed once per
// process and injected; the orchestrator itself is stateless across
// requests.
func NewOrchestrator(s store.Store, completer genai.Completer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:     s,
		completer: completer,
		retry:     genai.DefaultInsightRetryConfig,
		logger:    logger,
		now:       time.Now,
	}
}

// Run produces the insight document for (userID, yearMonth). Within the
// freshness window it returns the cached document unchanged; otherwise it
// generates, caches best-effort, and on repeated generation failure returns
// the canned fallback without caching it.
func (o *Orchestrator) Run(ctx context.Context, userID, yearMonth string, loc locale.Locale) (*model.Insight, error) {
	log := o.logger.With("component", "insights", "user_id", userID, "year_month", yearMonth)

	cached, err := o.store.GetCachedInsight(ctx, userID, yearMonth)
	if err == nil && cached.FreshFor(CacheWindow, o.now()) {
		log.Info("returning cached insight")
		return &cached.Insight, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		// A cache read failure is just a miss.
		log.Warn("insight cache read failed", "error", err)
	}

	entries, priorEntries, err := o.fetchEntries(ctx, userID, yearMonth, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}

	if len(entries) == 0 {
		log.Info("no transactions for period, returning no-data insight")
		return NoDataInsight(loc, o.now()), nil
	}

	summary, err := Aggregate(entries, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	var prior *PeriodSummary
	if len(priorEntries) > 0 {
		prevYM, _ := model.PreviousYearMonth(yearMonth)
		if prior, err = Aggregate(priorEntries, prevYM); err != nil {
			log.Warn("prior month aggregation failed", "error", err)
			prior = nil
		}
	}

	userPrompt := BuildUserPrompt(summary, prior, loc, summary.TransactionCount)

	insight, err := genai.WithRetry(ctx, o.retry, func(ctx context.Context) (*model.Insight, error) {
		return o.generate(ctx, userPrompt)
	})
	if err != nil {
		log.Warn("generation failed after retry, returning fallback", "error", err)
		return FallbackInsight(loc, o.now()), nil
	}

	// The model's timestamp is never trusted.
	insight.GeneratedAt = o.now()

	if err := o.store.PutInsight(ctx, userID, yearMonth, insight, o.now()); err != nil {
		// Best effort: the fresh document is still returned.
		log.Warn("insight cache write failed", "error", err)
	}

	log.Info("generated new insight", "health_score", insight.HealthScore)
	return insight, nil
}

// fetchEntries reads the target and prior month concurrently. Only the
// target month's failure is fatal; a prior-month failure degrades to "no
// prior data" since the comparison block is optional by contract.
func (o *Orchestrator) fetchEntries(ctx context.Context, userID, yearMonth string, log *slog.Logger) (entries, priorEntries []*model.Transaction, err error) {
	prevYM, prevErr := model.PreviousYearMonth(yearMonth)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = o.store.ListMonthlyTransactions(gctx, userID, yearMonth)
		return err
	})
	if prevErr == nil {
		g.Go(func() error {
			prior, err := o.store.ListMonthlyTransactions(gctx, userID, prevYM)
			if err != nil {
				log.Warn("prior month fetch failed", "prior_year_month", prevYM, "error", err)
				return nil
			}
			priorEntries = prior
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return entries, priorEntries, nil
}

// generate performs one model attempt: invoke, then parse the raw text as a
// single structured object. Malformed JSON is the only hard parse failure;
// a sparse but well-formed object is passed through unmodified.
func (o *Orchestrator) generate(ctx context.Context, userPrompt string) (*model.Insight, error) {
	raw, err := o.completer.Complete(ctx, systemPrompt, userPrompt, insightMaxTokens, insightTemperature)
	if err != nil {
		return nil, err
	}

	var insight model.Insight
	if err := json.Unmarshal([]byte(genai.StripCodeFences(raw)), &insight); err != nil {
		return nil, &genai.GenError{
			Code:      genai.ErrUpstream,
			Message:   "unparsable insight response",
			Retryable: true,
			Cause:     err,
		}
	}
	return &insight, nil
}
