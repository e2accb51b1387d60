package services

import (
	"context"
	"testing"

	"fintrack/internal/core"
)

func TestGetCategoryTotals(t *testing.T) {
	store := newFakeStore(scenarioCards()...)
	seedScenario(t, store)
	charts := NewChartService(store)

	got, err := charts.GetCategoryTotals(context.Background(), 1)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}

	want := []LabelAmount{
		{Label: "Fuel", Amount: core.FromCents(4000)},
		{Label: "Groceries", Amount: core.FromCents(10000)},
	}
	assertEqualTotals(t, got, want)
}

func TestGetVendorTotals(t *testing.T) {
	store := newFakeStore(scenarioCards()...)
	seedScenario(t, store)
	charts := NewChartService(store)

	got, err := charts.GetVendorTotals(context.Background(), 1)
	if err != nil {
		t.Fatalf("vendor totals: %v", err)
	}

	want := []LabelAmount{
		{Label: "Shell", Amount: core.FromCents(4000)},
		{Label: "Trader Joes", Amount: core.FromCents(1475)},
		{Label: "Whole Foods", Amount: core.FromCents(8525)},
	}
	assertEqualTotals(t, got, want)
}

func TestGetDailySpend(t *testing.T) {
	store := newFakeStore(scenarioCards()...)
	seedScenario(t, store)
	charts := NewChartService(store)

	got, err := charts.GetDailySpend(context.Background(), 1)
	if err != nil {
		t.Fatalf("daily spend: %v", err)
	}

	today := core.Today()
	want := []LabelAmount{
		{Label: today.AddDays(-2).ISO(), Amount: core.FromCents(8525)},
		{Label: today.AddDays(-1).ISO(), Amount: core.FromCents(1475)},
		{Label: today.ISO(), Amount: core.FromCents(4000)},
	}
	assertEqualTotals(t, got, want)
}

func TestAggregationsEmptyForUnknownCard(t *testing.T) {
	store := newFakeStore(scenarioCards()...)
	seedScenario(t, store)
	charts := NewChartService(store)
	ctx := context.Background()

	for name, fn := range map[string]func(context.Context, int64) ([]LabelAmount, error){
		"category": charts.GetCategoryTotals,
		"vendor":   charts.GetVendorTotals,
		"daily":    charts.GetDailySpend,
	} {
		got, err := fn(ctx, 99)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(got) != 0 {
			t.Fatalf("%s: expected empty result for card with no expenses, got %v", name, got)
		}
	}
}

func TestAggregationTotalsAgree(t *testing.T) {
	store := newFakeStore(scenarioCards()...)
	seedScenario(t, store)
	charts := NewChartService(store)
	expenses := NewExpenseService(store, nil)
	ctx := context.Background()

	total, err := expenses.CalculateTotalForCardThisMonth(ctx, 1)
	if err != nil {
		t.Fatalf("total: %v", err)
	}

	for name, fn := range map[string]func(context.Context, int64) ([]LabelAmount, error){
		"category": charts.GetCategoryTotals,
		"vendor":   charts.GetVendorTotals,
		"daily":    charts.GetDailySpend,
	} {
		rows, err := fn(ctx, 1)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var sum core.Money
		for _, r := range rows {
			sum = sum.Add(r.Amount)
		}
		if sum.Cents != total.Cents {
			t.Fatalf("%s totals sum to %s, want %s", name, sum, total)
		}
	}
}

func TestEmptyLabelIsKeptLiteral(t *testing.T) {
	store := newFakeStore(scenarioCards()...)
	store.expenses = append(store.expenses, core.Expense{
		Vendor: "", Amount: core.FromCents(500), Category: "",
		Date: core.Today(), Card: &core.Card{ID: 1},
	})
	charts := NewChartService(store)

	got, err := charts.GetCategoryTotals(context.Background(), 1)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	if len(got) != 1 || got[0].Label != "" {
		t.Fatalf("empty category must stay a literal key, got %v", got)
	}
}

func assertEqualTotals(t *testing.T, got, want []LabelAmount) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].Label != want[i].Label || got[i].Amount.Cents != want[i].Amount.Cents {
			t.Fatalf("entry %d = {%q %s}, want {%q %s}", i, got[i].Label, got[i].Amount, want[i].Label, want[i].Amount)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Label >= got[i].Label {
			t.Fatalf("labels not strictly ascending: %q >= %q", got[i-1].Label, got[i].Label)
		}
	}
}
