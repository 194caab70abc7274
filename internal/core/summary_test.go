package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

func TestBuildMonthOverview(t *testing.T) {
	cats := []Category{{Record: Record{ID: "food"}, Name: "Food"}, {Record: Record{ID: "rent"}, Name: "Rent"}}
	txs := []Transaction{
		{CategoryID: "food", Amount: Money{Cents: -1500}, Date: day(2025, 3, 2)},
		{CategoryID: "rent", Amount: Money{Cents: -80000}, Date: day(2025, 3, 1)},
		{CategoryID: "food", Amount: Money{Cents: -500}, Date: day(2025, 3, 20)},
		{Amount: Money{Cents: 250000}, Date: day(2025, 3, 27)},
		{CategoryID: "food", Amount: Money{Cents: -9999}, Date: day(2025, 4, 1)},
		{Amount: Money{Cents: -100}, Date: day(2025, 3, 5)},
	}
	ov := BuildMonthOverview(2025, 3, txs, cats)

	if ov.Income.Cents != 250000 || ov.Expenses.Cents != 82100 || ov.Net.Cents != 167900 {
		t.Fatalf("unexpected totals: %+v", ov)
	}
	if len(ov.ByCategory) != 3 {
		t.Fatalf("expected 3 categories, got %+v", ov.ByCategory)
	}
	if ov.ByCategory[0].Name != "Rent" || ov.ByCategory[1].Name != "Food" || ov.ByCategory[1].Amount.Cents != 2000 {
		t.Fatalf("unexpected ordering: %+v", ov.ByCategory)
	}
	if ov.ByCategory[2].Name != "Uncategorized" {
		t.Fatalf("expected uncategorized bucket, got %+v", ov.ByCategory[2])
	}
}

func TestBuildMonthOverviewEmpty(t *testing.T) {
	ov := BuildMonthOverview(2025, 1, nil, nil)
	if ov.ByCategory == nil || ov.Income.Cents != 0 || ov.Net.Cents != 0 {
		t.Fatalf("unexpected empty overview: %+v", ov)
	}
}

func TestBuildBudgetProgress(t *testing.T) {
	ref := day(2025, 3, 15)
	budgets := []Budget{
		{CategoryID: "food", Amount: Money{Cents: 1000}, Period: Monthly},
		{CategoryID: "food", Amount: Money{Cents: 5000}, Period: Yearly},
	}
	txs := []Transaction{
		{CategoryID: "food", Amount: Money{Cents: -800}, Date: day(2025, 3, 1)},
		{CategoryID: "food", Amount: Money{Cents: -400}, Date: day(2025, 3, 2)},
		{CategoryID: "food", Amount: Money{Cents: -300}, Date: day(2025, 1, 2)},
		{CategoryID: "food", Amount: Money{Cents: 1000}, Date: day(2025, 3, 3)},
	}
	got := BuildBudgetProgress(budgets, txs, []Category{{Record: Record{ID: "food"}, Name: "Food"}}, ref)
	if got[0].Spent.Cents != 1200 || !got[0].Over || got[0].Remaining.Cents != -200 {
		t.Fatalf("monthly: %+v", got[0])
	}
	if got[1].Spent.Cents != 1500 || got[1].Over || got[1].Category != "Food" {
		t.Fatalf("yearly: %+v", got[1])
	}
}

func TestSummarizeInvestments(t *testing.T) {
	s := SummarizeInvestments([]Investment{
		{Quantity: decimal.NewFromInt(2), PurchasePrice: decimal.NewFromInt(10), CurrentPrice: decimal.NewFromInt(15)},
		{Quantity: decimal.NewFromInt(1), PurchasePrice: decimal.NewFromInt(100), CurrentPrice: decimal.NewFromInt(90)},
	})
	if s.Count != 2 || !s.CostBasis.Equal(decimal.NewFromInt(120)) || !s.Gain.Equal(decimal.Zero) {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
