// Package services orchestrates the transaction store, the aggregation
// functions and the AI gateway behind the operations the presentation
// layer consumes.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"smartspend/internal/cache"
	"smartspend/internal/core"
	"smartspend/internal/storage"

	"golang.org/x/sync/singleflight"
)

// ErrCannotParse is surfaced to the user as "could not interpret input,
// try rephrasing". Every AI-parse failure collapses into it.
var ErrCannotParse = errors.New("could not interpret expense text")

// AIGateway is the boundary to the remote structured-generation service.
type AIGateway interface {
	ParseExpense(ctx context.Context, text string) (*core.Draft, error)
	GenerateInsights(ctx context.Context, txs []core.Transaction) ([]core.AIInsight, error)
}

// FinanceService owns the single-writer mutation path and the AI request
// lifecycle. A monotonic collection version stamps every insight request;
// a response whose version is no longer current is not applied to the
// cache, only returned to its own caller.
type FinanceService struct {
	store   storage.TransactionStore
	gateway AIGateway

	insightCache *cache.LRUCache[[]core.AIInsight]
	flight       singleflight.Group
	version      atomic.Uint64

	now func() time.Time
}

func NewFinanceService(store storage.TransactionStore, gateway AIGateway, insightTTL time.Duration) *FinanceService {
	if insightTTL <= 0 {
		insightTTL = 10 * time.Minute
	}
	return &FinanceService{
		store:        store,
		gateway:      gateway,
		insightCache: cache.NewLRUCache[[]core.AIInsight](16, insightTTL),
		now:          time.Now,
	}
}

func (s *FinanceService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *FinanceService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.List(ctx)
}

// AddTransaction validates and stores a draft. An empty date means "today",
// resolved on the service clock.
func (s *FinanceService) AddTransaction(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if d.Date == "" {
		d.Date = s.now().Format(core.DateLayout)
	}
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx, err := s.store.Add(ctx, d)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.version.Add(1)
	return tx, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.version.Add(1)
	return nil
}

func (s *FinanceService) GetSummary(ctx context.Context) (core.Summary, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load collection: %w", err)
	}
	return core.Summarize(txs), nil
}

func (s *FinanceService) GetCategoryBreakdown(ctx context.Context) (map[core.Category]core.Money, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return core.CategoryTotals(txs), nil
}

// GetRecentTrend returns the trailing 7-day series anchored at today.
func (s *FinanceService) GetRecentTrend(ctx context.Context) ([]core.DayTotal, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return core.Last7Days(txs, s.now()), nil
}

// ParseExpenseText delegates free text to the gateway and resolves an absent
// date to today locally, after the call, so the current date is never the
// model's responsibility. All gateway failures map to ErrCannotParse.
func (s *FinanceService) ParseExpenseText(ctx context.Context, text string) (core.Draft, error) {
	draft, err := s.gateway.ParseExpense(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "AI expense parse failed", "error", err)
		return core.Draft{}, ErrCannotParse
	}
	if draft.Date == "" {
		draft.Date = s.now().Format(core.DateLayout)
	}
	return *draft, nil
}

// RequestInsights produces insight messages for the current collection.
//
// An empty collection short-circuits with zero gateway calls. Responses are
// cached per collection version; concurrent refreshes for the same version
// share one in-flight call. Gateway failures degrade to an empty list,
// never an error.
func (s *FinanceService) RequestInsights(ctx context.Context) ([]core.AIInsight, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	if len(txs) == 0 {
		return []core.AIInsight{}, nil
	}

	requested := s.version.Load()
	key := strconv.FormatUint(requested, 10)
	if cached, ok := s.insightCache.Get(key); ok {
		return cached, nil
	}

	res, err, _ := s.flight.Do(key, func() (any, error) {
		return s.gateway.GenerateInsights(ctx, txs)
	})
	if err != nil {
		slog.WarnContext(ctx, "Insight generation failed", "error", err)
		return []core.AIInsight{}, nil
	}
	insights := res.([]core.AIInsight)

	if current := s.version.Load(); current != requested {
		// The collection moved on while the call was in flight. The caller
		// still gets the answer to the snapshot it asked about, but it is
		// not applied as the current cached state.
		slog.DebugContext(ctx, "Discarding stale insight response",
			"requested_version", requested, "current_version", current)
		return insights, nil
	}
	s.insightCache.Set(key, insights)
	return insights, nil
}

// RunCacheJanitor periodically drops expired insight entries until ctx ends.
func (s *FinanceService) RunCacheJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if removed := s.insightCache.CleanExpired(); removed > 0 {
				slog.Debug("Insight cache cleanup completed", "entries_removed", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}
