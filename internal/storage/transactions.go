package storage

import (
	"context"

	"finboard/internal/core"
)

type TransactionRepository struct {
	t table[core.Transaction]
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{t: table[core.Transaction]{
		db:      db,
		name:    "transactions",
		entity:  "transaction",
		columns: withRecord("account_id", "category_id", "amount_cents", "description", "date"),
		orderBy: "date DESC",
		scan:    scanTransaction,
	}}
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	err := row.Scan(append(recordDest(&tx.Record),
		&tx.AccountID, optString{&tx.CategoryID}, &tx.Amount.Cents, &tx.Description, timeValue{&tx.Date})...)
	return tx, err
}

func (r *TransactionRepository) Create(ctx context.Context, userID string, in core.TransactionInput) (core.Transaction, error) {
	err := r.t.db.checkRefs(ctx, userID,
		ref{"account_id", "accounts", in.AccountID},
		ref{"category_id", "categories", in.CategoryID},
	)
	if err != nil {
		return core.Transaction{}, err
	}
	return r.t.insert(ctx, userID, map[string]any{
		"account_id":   in.AccountID,
		"category_id":  nullable(in.CategoryID),
		"amount_cents": in.Amount.Cents,
		"description":  in.Description,
		"date":         r.t.db.timeArg(in.Date),
	})
}

func (r *TransactionRepository) Update(ctx context.Context, userID, id string, p core.TransactionPatch) (core.Transaction, error) {
	var refs []ref
	if p.AccountID != nil {
		refs = append(refs, ref{"account_id", "accounts", *p.AccountID})
	}
	if p.CategoryID != nil {
		refs = append(refs, ref{"category_id", "categories", *p.CategoryID})
	}
	if err := r.t.db.checkRefs(ctx, userID, refs...); err != nil {
		return core.Transaction{}, err
	}

	set := map[string]any{}
	if p.AccountID != nil {
		set["account_id"] = *p.AccountID
	}
	if p.CategoryID != nil {
		set["category_id"] = nullable(*p.CategoryID)
	}
	if p.Amount != nil {
		set["amount_cents"] = p.Amount.Cents
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Date != nil {
		set["date"] = r.t.db.timeArg(*p.Date)
	}
	return r.t.update(ctx, userID, id, set)
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	return r.t.delete(ctx, userID, id)
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id string) (core.Transaction, error) {
	return r.t.get(ctx, userID, id)
}

// GetByUser returns the user's transactions, newest first.
func (r *TransactionRepository) GetByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	return r.t.list(ctx, userID)
}
