package storage

import (
	"context"

	"finboard/internal/core"
)

type InvestmentRepository struct {
	t table[core.Investment]
}

func NewInvestmentRepository(db *DB) *InvestmentRepository {
	return &InvestmentRepository{t: table[core.Investment]{
		db:      db,
		name:    "investments",
		entity:  "investment",
		columns: withRecord("name", "symbol", "type", "quantity", "purchase_price", "current_price"),
		orderBy: "name",
		scan:    scanInvestment,
	}}
}

// Decimals travel as text in both dialects; decimal.Decimal implements
// sql.Scanner and driver.Valuer.
func scanInvestment(row rowScanner) (core.Investment, error) {
	var i core.Investment
	err := row.Scan(append(recordDest(&i.Record),
		&i.Name, &i.Symbol, &i.Type, &i.Quantity, &i.PurchasePrice, &i.CurrentPrice)...)
	return i, err
}

func (r *InvestmentRepository) Create(ctx context.Context, userID string, in core.InvestmentInput) (core.Investment, error) {
	return r.t.insert(ctx, userID, map[string]any{
		"name":           in.Name,
		"symbol":         in.Symbol,
		"type":           string(in.Type),
		"quantity":       in.Quantity.String(),
		"purchase_price": in.PurchasePrice.String(),
		"current_price":  in.CurrentPrice.String(),
	})
}

func (r *InvestmentRepository) Update(ctx context.Context, userID, id string, p core.InvestmentPatch) (core.Investment, error) {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Symbol != nil {
		set["symbol"] = *p.Symbol
	}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.Quantity != nil {
		set["quantity"] = p.Quantity.String()
	}
	if p.PurchasePrice != nil {
		set["purchase_price"] = p.PurchasePrice.String()
	}
	if p.CurrentPrice != nil {
		set["current_price"] = p.CurrentPrice.String()
	}
	return r.t.update(ctx, userID, id, set)
}

func (r *InvestmentRepository) Delete(ctx context.Context, userID, id string) error {
	return r.t.delete(ctx, userID, id)
}

func (r *InvestmentRepository) GetByID(ctx context.Context, userID, id string) (core.Investment, error) {
	return r.t.get(ctx, userID, id)
}

func (r *InvestmentRepository) GetByUser(ctx context.Context, userID string) ([]core.Investment, error) {
	return r.t.list(ctx, userID)
}
