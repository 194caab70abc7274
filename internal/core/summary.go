package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Amount     Money  `json:"amount"`
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int              `json:"year"`
	Month      int              `json:"month"` // 1-12
	Income     Money            `json:"income"`
	Expenses   Money            `json:"expenses"`
	Net        Money            `json:"net"`
	ByCategory []CategoryAmount `json:"by_category"`
}

// InvestmentSummary aggregates a portfolio.
type InvestmentSummary struct {
	Count       int             `json:"count"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	MarketValue decimal.Decimal `json:"market_value"`
	Gain        decimal.Decimal `json:"gain"`
}

// BudgetProgress compares a budget with what was spent in its period.
type BudgetProgress struct {
	Budget    Budget `json:"budget"`
	Category  string `json:"category"`
	Spent     Money  `json:"spent"`
	Remaining Money  `json:"remaining"`
	Over      bool   `json:"over"`
}

// Dashboard is the landing view for a user.
type Dashboard struct {
	Filter      string            `json:"filter"`
	Accounts    AccountsViewModel `json:"accounts"`
	Investments InvestmentSummary `json:"investments"`
	Budgets     []BudgetProgress  `json:"budgets"`
	Month       MonthOverview     `json:"month"`
	Recent      []Transaction     `json:"recent"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// SummarizeInvestments totals cost basis, market value and gain.
func SummarizeInvestments(items []Investment) InvestmentSummary {
	s := InvestmentSummary{Count: len(items)}
	for _, it := range items {
		s.CostBasis = s.CostBasis.Add(it.CostBasis())
		s.MarketValue = s.MarketValue.Add(it.MarketValue())
	}
	s.Gain = s.MarketValue.Sub(s.CostBasis)
	return s
}

// inMonth reports whether t falls in the given calendar month (UTC).
func inMonth(t time.Time, year, month int) bool {
	t = t.UTC()
	return t.Year() == year && int(t.Month()) == month
}

// inPeriod reports whether t falls in the budget period that contains ref.
func inPeriod(t time.Time, p BudgetPeriod, ref time.Time) bool {
	if p == Yearly {
		return t.UTC().Year() == ref.UTC().Year()
	}
	return inMonth(t, ref.UTC().Year(), int(ref.UTC().Month()))
}

// BuildMonthOverview splits a month's transactions into income and expenses
// and aggregates expenses by category. Categories are ordered by spend, largest first.
func BuildMonthOverview(year, month int, txs []Transaction, categories []Category) MonthOverview {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	ov := MonthOverview{Year: year, Month: month, ByCategory: []CategoryAmount{}}
	idx := map[string]int{}
	for _, tx := range txs {
		if !inMonth(tx.Date, year, month) {
			continue
		}
		if tx.Amount.Cents > 0 {
			ov.Income.Cents += tx.Amount.Cents
			continue
		}
		spent := -tx.Amount.Cents
		ov.Expenses.Cents += spent
		i, ok := idx[tx.CategoryID]
		if !ok {
			name := names[tx.CategoryID]
			if name == "" {
				name = "Uncategorized"
			}
			idx[tx.CategoryID] = len(ov.ByCategory)
			ov.ByCategory = append(ov.ByCategory, CategoryAmount{CategoryID: tx.CategoryID, Name: name})
			i = len(ov.ByCategory) - 1
		}
		ov.ByCategory[i].Amount.Cents += spent
	}
	ov.Net = Money{Cents: ov.Income.Cents - ov.Expenses.Cents}
	sortCategoryAmounts(ov.ByCategory)
	return ov
}

// BuildBudgetProgress computes spend against each budget for the period containing ref.
func BuildBudgetProgress(budgets []Budget, txs []Transaction, categories []Category, ref time.Time) []BudgetProgress {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	out := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		for _, tx := range txs {
			if tx.CategoryID != b.CategoryID || tx.Amount.Cents >= 0 || !inPeriod(tx.Date, b.Period, ref) {
				continue
			}
			spent -= tx.Amount.Cents
		}
		out = append(out, BudgetProgress{
			Budget:    b,
			Category:  names[b.CategoryID],
			Spent:     Money{Cents: spent},
			Remaining: Money{Cents: b.Amount.Cents - spent},
			Over:      spent > b.Amount.Cents,
		})
	}
	return out
}
