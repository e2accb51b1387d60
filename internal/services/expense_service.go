// Package services holds the domain operations over the store: the
// current-month window, expense CRUD and the dashboard aggregations.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// ExpenseStore is the slice of the storage layer the services depend on.
type ExpenseStore interface {
	SaveExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	FindExpensesByDateBetween(ctx context.Context, start, end core.Date) ([]core.Expense, error)
	FindExpensesByCardAndDateBetween(ctx context.Context, cardID int64, start, end core.Date) ([]core.Expense, error)
}

// EventPublisher emits expense-created events. Publishing is best effort;
// a nil publisher disables it.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, id, cardID int64) error
}

// ExpenseService answers current-month expense queries and saves expenses.
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
}

func NewExpenseService(store ExpenseStore, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// CurrentMonthWindow returns the inclusive range [first day of the current
// calendar month, today] in the server's local time zone. It is recomputed
// on every call so the window moves at midnight.
func CurrentMonthWindow() (start, end core.Date) {
	end = core.Today()
	start = core.NewDate(end.Year(), int(end.Month()), 1)
	return start, end
}

// FindMonthlyExpenses returns all expenses in the current-month window,
// across all cards.
func (s *ExpenseService) FindMonthlyExpenses(ctx context.Context) ([]core.Expense, error) {
	start, end := CurrentMonthWindow()
	expenses, err := s.store.FindExpensesByDateBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly expenses: %w", err)
	}
	return expenses, nil
}

// FindExpensesByCardIDThisMonth returns the current-month expenses for one card.
func (s *ExpenseService) FindExpensesByCardIDThisMonth(ctx context.Context, cardID int64) ([]core.Expense, error) {
	start, end := CurrentMonthWindow()
	expenses, err := s.store.FindExpensesByCardAndDateBetween(ctx, cardID, start, end)
	if err != nil {
		return nil, fmt.Errorf("expenses for card %d: %w", cardID, err)
	}
	return expenses, nil
}

// CalculateTotalForCardThisMonth sums the current-month spend on one card.
// An empty set yields zero.
func (s *ExpenseService) CalculateTotalForCardThisMonth(ctx context.Context, cardID int64) (core.Money, error) {
	expenses, err := s.FindExpensesByCardIDThisMonth(ctx, cardID)
	if err != nil {
		return core.Money{}, err
	}
	var total core.Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// Save persists the expense through the store, which resolves the card
// reference, then publishes an expense-created event if a publisher is
// configured. A publish failure never fails the save.
func (s *ExpenseService) Save(ctx context.Context, e core.Expense) (core.Expense, error) {
	saved, err := s.store.SaveExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseCreated(ctx, saved.ID, saved.CardID()); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense-created event",
				"id", saved.ID, "error", err)
		}
	}

	return saved, nil
}
