package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"operadoras/internal/cache"
	"operadoras/internal/core"
	"operadoras/internal/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrOperatorNotFound is returned when no operator matches a CNPJ.
var ErrOperatorNotFound = errors.New("operator not found")

// ListParams selects a page of operators.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// OperatorPage is one page of a filtered operator listing.
type OperatorPage struct {
	Data       []core.Operator `json:"data"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// QueryService answers every read over the dataset. It holds no mutable
// dataset state; the optional caches only memoise CNPJ lookups.
type QueryService struct {
	reader store.Reader
	now    func() time.Time

	operatorCache cache.Cache[core.Operator]
	expenseCache  cache.Cache[[]core.Expense]
}

// NewQueryService creates a service over reader. A cacheSize below one
// disables lookup caching.
func NewQueryService(reader store.Reader, cacheSize int, cacheTTL time.Duration) *QueryService {
	s := &QueryService{
		reader: reader,
		now:    time.Now,
	}
	if cacheSize > 0 && cacheTTL > 0 {
		s.operatorCache = cache.NewLRUCache[core.Operator](cacheSize, cacheTTL)
		s.expenseCache = cache.NewLRUCache[[]core.Expense](cacheSize, cacheTTL)
	}
	return s
}

// Caches returns the lookup caches so a cache.Manager can clean them.
func (s *QueryService) Caches() []cache.Cleaner {
	if s.operatorCache == nil {
		return nil
	}
	return []cache.Cleaner{s.operatorCache, s.expenseCache}
}

// CacheStats returns counters for the operator and expense lookup caches.
func (s *QueryService) CacheStats() (operators, expenses cache.Stats) {
	if s.operatorCache == nil {
		return cache.Stats{}, cache.Stats{}
	}
	return cache.StatsOf(s.operatorCache), cache.StatsOf(s.expenseCache)
}

// ListOperators filters operators by name or CNPJ substring and paginates
// the result in store order. Page and limit below one are clamped to one.
func (s *QueryService) ListOperators(ctx context.Context, p ListParams) (OperatorPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 1
	}

	ops, err := s.reader.ListOperators(ctx)
	if err != nil {
		return OperatorPage{}, fmt.Errorf("list operators: %w", err)
	}

	matches := ops
	if p.Search != "" {
		term := strings.ToLower(p.Search)
		matches = make([]core.Operator, 0, len(ops))
		for _, op := range ops {
			if strings.Contains(strings.ToLower(op.Name), term) || strings.Contains(op.CNPJ, term) {
				matches = append(matches, op)
			}
		}
	}

	total := len(matches)
	totalPages := total / p.Limit
	if total%p.Limit != 0 {
		totalPages++
	}

	page := OperatorPage{
		Data:       []core.Operator{},
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
	if p.Page > totalPages {
		return page, nil
	}

	offset := (p.Page - 1) * p.Limit
	end := offset + p.Limit
	if end > total {
		end = total
	}
	page.Data = append(page.Data, matches[offset:end]...)
	return page, nil
}

// GetOperator returns the first operator whose CNPJ equals cnpj once both
// have '.', '/' and '-' removed.
func (s *QueryService) GetOperator(ctx context.Context, cnpj string) (core.Operator, error) {
	key := core.NormalizeCNPJ(cnpj)

	if s.operatorCache != nil {
		if op, found := s.operatorCache.Get(key); found {
			slog.DebugContext(ctx, "Operator cache hit", "cnpj", key)
			return op, nil
		}
	}

	ops, err := s.reader.ListOperators(ctx)
	if err != nil {
		return core.Operator{}, fmt.Errorf("list operators: %w", err)
	}

	for _, op := range ops {
		if op.NormalizedCNPJ() == key {
			if s.operatorCache != nil {
				s.operatorCache.Set(key, op)
			}
			return op, nil
		}
	}

	return core.Operator{}, fmt.Errorf("%w: cnpj %q", ErrOperatorNotFound, cnpj)
}

// ListOperatorExpenses resolves the operator like GetOperator and returns its
// expenses in store order.
func (s *QueryService) ListOperatorExpenses(ctx context.Context, cnpj string) ([]core.Expense, error) {
	op, err := s.GetOperator(ctx, cnpj)
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(op.ID)
	if s.expenseCache != nil {
		if items, found := s.expenseCache.Get(key); found {
			slog.DebugContext(ctx, "Expenses cache hit", "operator_id", op.ID, "count", len(items))
			return append([]core.Expense{}, items...), nil
		}
	}

	all, err := s.reader.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	out := []core.Expense{}
	for _, e := range all {
		if e.OperatorID == op.ID {
			out = append(out, e)
		}
	}

	if s.expenseCache != nil {
		s.expenseCache.Set(key, append([]core.Expense(nil), out...))
	}
	return out, nil
}

// Statistics aggregates every expense. It is recomputed on every call.
func (s *QueryService) Statistics(ctx context.Context) (core.Statistics, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return core.Statistics{}, err
	}
	return core.Summarize(ds, s.now()), nil
}

// Dataset reads the full dataset from the backend.
func (s *QueryService) Dataset(ctx context.Context) (core.Dataset, error) {
	ops, err := s.reader.ListOperators(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("list operators: %w", err)
	}
	exps, err := s.reader.ListExpenses(ctx)
	if err != nil {
		return core.Dataset{}, fmt.Errorf("list expenses: %w", err)
	}
	return core.Dataset{Operators: ops, Expenses: exps}, nil
}

// Ready reports whether the backend answers.
func (s *QueryService) Ready(ctx context.Context) error {
	if p, ok := s.reader.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	_, err := s.reader.ListOperators(ctx)
	return err
}
