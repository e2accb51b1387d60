package storage

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
)

// Seed inserts two sample cards and one sample expense when the store is
// empty. Running it again is a no-op, so it is safe on every startup.
func Seed(ctx context.Context, repo *SQLiteRepository) error {
	count, err := repo.CountCards(ctx)
	if err != nil {
		return fmt.Errorf("count cards: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "Data already exists, skipping seeding", "cards", count)
		return nil
	}

	visa, err := repo.SaveCard(ctx, core.Card{
		HolderName:   "Alex Johnson",
		CardType:     "Visa",
		CreditLimit:  core.FromCents(500000),
		MaskedNumber: "**** **** **** 1234",
		Expiry:       core.NewDate(2026, 12, 31),
	})
	if err != nil {
		return fmt.Errorf("seed visa card: %w", err)
	}

	if _, err := repo.SaveCard(ctx, core.Card{
		HolderName:   "Maria Gomez",
		CardType:     "MasterCard",
		CreditLimit:  core.FromCents(750000),
		MaskedNumber: "**** **** **** 5678",
		Expiry:       core.NewDate(2025, 9, 30),
	}); err != nil {
		return fmt.Errorf("seed mastercard: %w", err)
	}

	if _, err := repo.SaveExpense(ctx, core.Expense{
		Vendor:   "Whole Foods",
		Amount:   core.FromCents(8525),
		Category: "Groceries",
		Date:     core.Today().AddDays(-2),
		Card:     &core.Card{ID: visa.ID},
	}); err != nil {
		return fmt.Errorf("seed expense: %w", err)
	}

	slog.InfoContext(ctx, "Sample data seeded", "cards", 2, "expenses", 1)
	return nil
}
