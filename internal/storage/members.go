package storage

import (
	"context"
	"strings"

	"finboard/internal/core"
)

type MemberRepository struct {
	t table[core.Member]
}

func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{t: table[core.Member]{
		db:      db,
		name:    "members",
		entity:  "member",
		columns: withRecord("name", "email"),
		orderBy: "name",
		scan:    scanMember,
	}}
}

func scanMember(row rowScanner) (core.Member, error) {
	var m core.Member
	err := row.Scan(append(recordDest(&m.Record), &m.Name, &m.Email)...)
	return m, err
}

func (r *MemberRepository) Create(ctx context.Context, userID string, in core.MemberInput) (core.Member, error) {
	return r.t.insert(ctx, userID, map[string]any{
		"name":  in.Name,
		"email": strings.ToLower(strings.TrimSpace(in.Email)),
	})
}

func (r *MemberRepository) Update(ctx context.Context, userID, id string, p core.MemberPatch) (core.Member, error) {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	return r.t.update(ctx, userID, id, set)
}

func (r *MemberRepository) Delete(ctx context.Context, userID, id string) error {
	return r.t.delete(ctx, userID, id)
}

func (r *MemberRepository) GetByID(ctx context.Context, userID, id string) (core.Member, error) {
	return r.t.get(ctx, userID, id)
}

func (r *MemberRepository) GetByUser(ctx context.Context, userID string) ([]core.Member, error) {
	return r.t.list(ctx, userID)
}
