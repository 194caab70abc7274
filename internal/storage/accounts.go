package storage

import (
	"context"

	"finboard/internal/core"
)

type AccountRepository struct {
	t table[core.Account]
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{t: table[core.Account]{
		db:      db,
		name:    "accounts",
		entity:  "account",
		columns: withRecord("name", "type", "balance_cents", "currency", "member_id"),
		orderBy: "name",
		scan:    scanAccount,
	}}
}

func scanAccount(row rowScanner) (core.Account, error) {
	var a core.Account
	dest := append(recordDest(&a.Record), &a.Name, &a.Type, &a.Balance.Cents, &a.Currency, optString{&a.MemberID})
	err := row.Scan(dest...)
	return a, err
}

func (r *AccountRepository) Create(ctx context.Context, userID string, in core.AccountInput) (core.Account, error) {
	if err := r.t.db.checkRefs(ctx, userID, ref{"member_id", "members", in.MemberID}); err != nil {
		return core.Account{}, err
	}
	return r.t.insert(ctx, userID, map[string]any{
		"name":          in.Name,
		"type":          string(in.Type),
		"balance_cents": in.Balance.Cents,
		"currency":      in.Currency,
		"member_id":     nullable(in.MemberID),
	})
}

func (r *AccountRepository) Update(ctx context.Context, userID, id string, p core.AccountPatch) (core.Account, error) {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.Balance != nil {
		set["balance_cents"] = p.Balance.Cents
	}
	if p.Currency != nil {
		set["currency"] = *p.Currency
	}
	if p.MemberID != nil {
		if err := r.t.db.checkRefs(ctx, userID, ref{"member_id", "members", *p.MemberID}); err != nil {
			return core.Account{}, err
		}
		set["member_id"] = nullable(*p.MemberID)
	}
	return r.t.update(ctx, userID, id, set)
}

func (r *AccountRepository) Delete(ctx context.Context, userID, id string) error {
	return r.t.delete(ctx, userID, id)
}

func (r *AccountRepository) GetByID(ctx context.Context, userID, id string) (core.Account, error) {
	return r.t.get(ctx, userID, id)
}

func (r *AccountRepository) GetByUser(ctx context.Context, userID string) ([]core.Account, error) {
	return r.t.list(ctx, userID)
}
