package storage

import (
	"context"

	"finboard/internal/core"
)

type BudgetRepository struct {
	t table[core.Budget]
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{t: table[core.Budget]{
		db:      db,
		name:    "budgets",
		entity:  "budget",
		columns: withRecord("category_id", "amount_cents", "period"),
		orderBy: "created_at",
		scan:    scanBudget,
	}}
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(append(recordDest(&b.Record), &b.CategoryID, &b.Amount.Cents, &b.Period)...)
	return b, err
}

func (r *BudgetRepository) Create(ctx context.Context, userID string, in core.BudgetInput) (core.Budget, error) {
	if err := r.t.db.checkRefs(ctx, userID, ref{"category_id", "categories", in.CategoryID}); err != nil {
		return core.Budget{}, err
	}
	return r.t.insert(ctx, userID, map[string]any{
		"category_id":  in.CategoryID,
		"amount_cents": in.Amount.Cents,
		"period":       string(in.Period),
	})
}

func (r *BudgetRepository) Update(ctx context.Context, userID, id string, p core.BudgetPatch) (core.Budget, error) {
	set := map[string]any{}
	if p.CategoryID != nil {
		if err := r.t.db.checkRefs(ctx, userID, ref{"category_id", "categories", *p.CategoryID}); err != nil {
			return core.Budget{}, err
		}
		set["category_id"] = *p.CategoryID
	}
	if p.Amount != nil {
		set["amount_cents"] = p.Amount.Cents
	}
	if p.Period != nil {
		set["period"] = string(*p.Period)
	}
	return r.t.update(ctx, userID, id, set)
}

func (r *BudgetRepository) Delete(ctx context.Context, userID, id string) error {
	return r.t.delete(ctx, userID, id)
}

func (r *BudgetRepository) GetByID(ctx context.Context, userID, id string) (core.Budget, error) {
	return r.t.get(ctx, userID, id)
}

func (r *BudgetRepository) GetByUser(ctx context.Context, userID string) ([]core.Budget, error) {
	return r.t.list(ctx, userID)
}
