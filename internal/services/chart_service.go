package services

import (
	"context"
	"sort"

	"fintrack/internal/core"
)

// LabelAmount is one entry of an ordered aggregation: a grouping key and the
// summed amount for it.
type LabelAmount struct {
	Label  string
	Amount core.Money
}

// ChartService computes the per-card dashboard aggregations over the
// current-month window. Each result is ordered by ascending key, and keys
// are unique within a result.
type ChartService struct {
	store ExpenseStore
}

func NewChartService(store ExpenseStore) *ChartService {
	return &ChartService{store: store}
}

func (s *ChartService) currentMonthExpenses(ctx context.Context, cardID int64) ([]core.Expense, error) {
	start, end := CurrentMonthWindow()
	return s.store.FindExpensesByCardAndDateBetween(ctx, cardID, start, end)
}

// GetCategoryTotals sums amounts per category, sorted by category.
func (s *ChartService) GetCategoryTotals(ctx context.Context, cardID int64) ([]LabelAmount, error) {
	expenses, err := s.currentMonthExpenses(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return sumBy(expenses, func(e core.Expense) string { return e.Category }), nil
}

// GetVendorTotals sums amounts per vendor, sorted by vendor.
func (s *ChartService) GetVendorTotals(ctx context.Context, cardID int64) ([]LabelAmount, error) {
	expenses, err := s.currentMonthExpenses(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return sumBy(expenses, func(e core.Expense) string { return e.Vendor }), nil
}

// GetDailySpend sums amounts per day keyed by the ISO date, so lexicographic
// key order is chronological order.
func (s *ChartService) GetDailySpend(ctx context.Context, cardID int64) ([]LabelAmount, error) {
	expenses, err := s.currentMonthExpenses(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return sumBy(expenses, func(e core.Expense) string { return e.Date.ISO() }), nil
}

// sumBy groups expenses by key and sums amounts, returning entries in
// ascending key order. Empty keys are kept as literal keys.
func sumBy(expenses []core.Expense, key func(core.Expense) string) []LabelAmount {
	totals := make(map[string]int64)
	for _, e := range expenses {
		totals[key(e)] += e.Amount.Cents
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]LabelAmount, 0, len(keys))
	for _, k := range keys {
		out = append(out, LabelAmount{Label: k, Amount: core.FromCents(totals[k])})
	}
	return out
}
