package actions

import (
	"context"

	"finboard/internal/core"
	"finboard/internal/invalidation"
)

func (a *Actions) CreateCategory(ctx context.Context, userID string, in core.CategoryInput) Result[core.Category] {
	return create(ctx, a, a.repos.Categories, "createCategory", invalidation.Category, userID, in)
}

func (a *Actions) UpdateCategory(ctx context.Context, userID, id string, p core.CategoryPatch) Result[core.Category] {
	return update(ctx, a, a.repos.Categories, "updateCategory", invalidation.Category, userID, id, p)
}

func (a *Actions) DeleteCategory(ctx context.Context, userID, id string) Result[core.Category] {
	return remove(ctx, a, a.repos.Categories, "deleteCategory", invalidation.Category, userID, id)
}

func (a *Actions) CreateAccount(ctx context.Context, userID string, in core.AccountInput) Result[core.Account] {
	return create(ctx, a, a.repos.Accounts, "createAccount", invalidation.Account, userID, in)
}

func (a *Actions) UpdateAccount(ctx context.Context, userID, id string, p core.AccountPatch) Result[core.Account] {
	return update(ctx, a, a.repos.Accounts, "updateAccount", invalidation.Account, userID, id, p)
}

func (a *Actions) DeleteAccount(ctx context.Context, userID, id string) Result[core.Account] {
	return remove(ctx, a, a.repos.Accounts, "deleteAccount", invalidation.Account, userID, id)
}

func (a *Actions) CreateInvestment(ctx context.Context, userID string, in core.InvestmentInput) Result[core.Investment] {
	return create(ctx, a, a.repos.Investments, "createInvestment", invalidation.Investment, userID, in)
}

func (a *Actions) UpdateInvestment(ctx context.Context, userID, id string, p core.InvestmentPatch) Result[core.Investment] {
	return update(ctx, a, a.repos.Investments, "updateInvestment", invalidation.Investment, userID, id, p)
}

func (a *Actions) DeleteInvestment(ctx context.Context, userID, id string) Result[core.Investment] {
	return remove(ctx, a, a.repos.Investments, "deleteInvestment", invalidation.Investment, userID, id)
}

func (a *Actions) CreateTransaction(ctx context.Context, userID string, in core.TransactionInput) Result[core.Transaction] {
	return create(ctx, a, a.repos.Transactions, "createTransaction", invalidation.Transaction, userID, in)
}

func (a *Actions) UpdateTransaction(ctx context.Context, userID, id string, p core.TransactionPatch) Result[core.Transaction] {
	return update(ctx, a, a.repos.Transactions, "updateTransaction", invalidation.Transaction, userID, id, p)
}

func (a *Actions) DeleteTransaction(ctx context.Context, userID, id string) Result[core.Transaction] {
	return remove(ctx, a, a.repos.Transactions, "deleteTransaction", invalidation.Transaction, userID, id)
}

func (a *Actions) CreateBudget(ctx context.Context, userID string, in core.BudgetInput) Result[core.Budget] {
	return create(ctx, a, a.repos.Budgets, "createBudget", invalidation.Budget, userID, in)
}

func (a *Actions) UpdateBudget(ctx context.Context, userID, id string, p core.BudgetPatch) Result[core.Budget] {
	return update(ctx, a, a.repos.Budgets, "updateBudget", invalidation.Budget, userID, id, p)
}

func (a *Actions) DeleteBudget(ctx context.Context, userID, id string) Result[core.Budget] {
	return remove(ctx, a, a.repos.Budgets, "deleteBudget", invalidation.Budget, userID, id)
}

func (a *Actions) CreateMember(ctx context.Context, userID string, in core.MemberInput) Result[core.Member] {
	return create(ctx, a, a.repos.Members, "createMember", invalidation.Member, userID, in)
}

func (a *Actions) UpdateMember(ctx context.Context, userID, id string, p core.MemberPatch) Result[core.Member] {
	return update(ctx, a, a.repos.Members, "updateMember", invalidation.Member, userID, id, p)
}

func (a *Actions) DeleteMember(ctx context.Context, userID, id string) Result[core.Member] {
	return remove(ctx, a, a.repos.Members, "deleteMember", invalidation.Member, userID, id)
}
