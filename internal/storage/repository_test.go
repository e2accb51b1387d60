package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func testCard(holder string) core.Card {
	return core.Card{
		HolderName:   holder,
		MaskedNumber: "**** **** **** 1234",
		CardType:     "Visa",
		Expiry:       core.NewDate(2026, 12, 31),
		CreditLimit:  core.FromCents(500000),
	}
}

func TestSaveAndFindCard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	saved, err := repo.SaveCard(ctx, testCard("Alex Johnson"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	found, err := repo.FindCardByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Alex Johnson", found.HolderName)
	require.Equal(t, "**** **** **** 1234", found.MaskedNumber)
	require.Equal(t, "2026-12-31", found.Expiry.ISO())
	require.Equal(t, int64(500000), found.CreditLimit.Cents)
}

func TestFindCardByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindCardByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrCardNotFound)
}

func TestListCardsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, holder := range []string{"Zed", "Alice", "Mid"} {
		_, err := repo.SaveCard(ctx, testCard(holder))
		require.NoError(t, err)
	}

	cards, err := repo.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	// insertion order, not name order
	require.Equal(t, "Zed", cards[0].HolderName)
	require.Equal(t, "Alice", cards[1].HolderName)
	require.Equal(t, "Mid", cards[2].HolderName)
	require.Less(t, cards[0].ID, cards[1].ID)
	require.Less(t, cards[1].ID, cards[2].ID)
}

func TestSaveExpenseResolvesCard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	card, err := repo.SaveCard(ctx, testCard("Alex Johnson"))
	require.NoError(t, err)

	saved, err := repo.SaveExpense(ctx, core.Expense{
		Vendor:   "Shell",
		Amount:   core.FromCents(4000),
		Category: "Fuel",
		Date:     core.Today(),
		Card:     &core.Card{ID: card.ID},
	})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.NotNil(t, saved.Card)
	require.Equal(t, "Alex Johnson", saved.Card.HolderName, "store must attach the full card on save")
}

func TestSaveExpenseUnknownCard(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.SaveExpense(context.Background(), core.Expense{
		Vendor:   "Shell",
		Amount:   core.FromCents(4000),
		Category: "Fuel",
		Date:     core.Today(),
		Card:     &core.Card{ID: 99},
	})
	require.True(t, errors.Is(err, ErrCardNotFound))
}

func TestFindExpensesByDateBetweenInclusive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	card, err := repo.SaveCard(ctx, testCard("Alex Johnson"))
	require.NoError(t, err)

	days := []core.Date{
		core.NewDate(2026, 8, 1),
		core.NewDate(2026, 8, 15),
		core.NewDate(2026, 8, 29),
		core.NewDate(2026, 7, 31), // outside
	}
	for i, d := range days {
		_, err := repo.SaveExpense(ctx, core.Expense{
			Vendor:   "V",
			Amount:   core.FromCents(int64(100 * (i + 1))),
			Category: "C",
			Date:     d,
			Card:     &core.Card{ID: card.ID},
		})
		require.NoError(t, err)
	}

	got, err := repo.FindExpensesByDateBetween(ctx, core.NewDate(2026, 8, 1), core.NewDate(2026, 8, 29))
	require.NoError(t, err)
	require.Len(t, got, 3, "range is inclusive on both ends")
	for _, e := range got {
		require.NotNil(t, e.Card)
		require.Equal(t, card.ID, e.Card.ID)
	}
}

func TestFindExpensesByCardAndDateBetween(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	visa, err := repo.SaveCard(ctx, testCard("Alex Johnson"))
	require.NoError(t, err)
	master, err := repo.SaveCard(ctx, testCard("Maria Gomez"))
	require.NoError(t, err)

	day := core.NewDate(2026, 8, 10)
	for _, cardID := range []int64{visa.ID, visa.ID, master.ID} {
		_, err := repo.SaveExpense(ctx, core.Expense{
			Vendor:   "V",
			Amount:   core.FromCents(100),
			Category: "C",
			Date:     day,
			Card:     &core.Card{ID: cardID},
		})
		require.NoError(t, err)
	}

	got, err := repo.FindExpensesByCardAndDateBetween(ctx, visa.ID, day, day)
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.FindExpensesByCardAndDateBetween(ctx, master.ID, day, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestEmptyReadsReturnEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	expenses, err := repo.FindExpensesByDateBetween(ctx, core.NewDate(2026, 1, 1), core.NewDate(2026, 12, 31))
	require.NoError(t, err)
	require.Empty(t, expenses)

	cards, err := repo.ListCards(ctx)
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, repo))
	require.NoError(t, Seed(ctx, repo))

	count, err := repo.CountCards(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	cards, err := repo.ListCards(ctx)
	require.NoError(t, err)
	require.Equal(t, "Visa", cards[0].CardType)
	require.Equal(t, "MasterCard", cards[1].CardType)

	start := core.Today().AddDays(-3)
	expenses, err := repo.FindExpensesByCardAndDateBetween(ctx, cards[0].ID, start, core.Today())
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	require.Equal(t, "Whole Foods", expenses[0].Vendor)
	require.Equal(t, int64(8525), expenses[0].Amount.Cents)
}
