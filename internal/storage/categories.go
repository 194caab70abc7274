package storage

import (
	"context"

	"finboard/internal/core"
)

type CategoryRepository struct {
	t table[core.Category]
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{t: table[core.Category]{
		db:      db,
		name:    "categories",
		entity:  "category",
		columns: withRecord("name", "kind", "color"),
		orderBy: "name",
		scan:    scanCategory,
	}}
}

func scanCategory(row rowScanner) (core.Category, error) {
	var c core.Category
	err := row.Scan(append(recordDest(&c.Record), &c.Name, &c.Kind, &c.Color)...)
	return c, err
}

func (r *CategoryRepository) Create(ctx context.Context, userID string, in core.CategoryInput) (core.Category, error) {
	return r.t.insert(ctx, userID, map[string]any{
		"name":  in.Name,
		"kind":  string(in.Kind),
		"color": in.Color,
	})
}

func (r *CategoryRepository) Update(ctx context.Context, userID, id string, p core.CategoryPatch) (core.Category, error) {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Kind != nil {
		set["kind"] = string(*p.Kind)
	}
	if p.Color != nil {
		set["color"] = *p.Color
	}
	return r.t.update(ctx, userID, id, set)
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id string) error {
	return r.t.delete(ctx, userID, id)
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID, id string) (core.Category, error) {
	return r.t.get(ctx, userID, id)
}

func (r *CategoryRepository) GetByUser(ctx context.Context, userID string) ([]core.Category, error) {
	return r.t.list(ctx, userID)
}
