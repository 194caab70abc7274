package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"finboard/internal/cache"
	"finboard/internal/core"
)

// table holds the query plumbing shared by the entity repositories. Every
// statement is scoped to (user_id, id) and performs one round trip.
type table[T any] struct {
	db      *DB
	name    string
	entity  string
	columns []string
	orderBy string
	scan    func(rowScanner) (T, error)
}

func (t table[T]) returning() string {
	return "RETURNING " + strings.Join(t.columns, ", ")
}

func (t table[T]) insert(ctx context.Context, userID string, values map[string]any) (T, error) {
	now := t.db.now()
	id := uuid.NewString()
	values["id"] = id
	values["user_id"] = userID
	values["created_at"] = t.db.timeArg(now)
	values["updated_at"] = t.db.timeArg(now)

	query, args, err := t.db.sb.Insert(t.name).SetMap(values).Suffix(t.returning()).ToSql()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("build insert %s: %w", t.name, err)
	}
	out, err := t.scan(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, mapError(err, t.entity, id)
	}
	return out, nil
}

func (t table[T]) update(ctx context.Context, userID, id string, set map[string]any) (T, error) {
	var zero T
	if _, err := uuid.Parse(id); err != nil {
		return zero, fmt.Errorf("%s %s: %w", t.entity, id, core.ErrNotFound)
	}
	set["updated_at"] = t.db.timeArg(t.db.now())

	query, args, err := t.db.sb.Update(t.name).
		SetMap(set).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix(t.returning()).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build update %s: %w", t.name, err)
	}
	out, err := t.scan(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return zero, mapError(err, t.entity, id)
	}
	return out, nil
}

func (t table[T]) delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %s: %w", t.entity, id, core.ErrNotFound)
	}
	query, args, err := t.db.sb.Delete(t.name).Where(sq.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", t.name, err)
	}
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, t.entity, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, t.entity, id)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", t.entity, id, core.ErrNotFound)
	}
	return nil
}

func (t table[T]) get(ctx context.Context, userID, id string) (T, error) {
	var zero T
	if _, err := uuid.Parse(id); err != nil {
		return zero, fmt.Errorf("%s %s: %w", t.entity, id, core.ErrNotFound)
	}
	query, args, err := t.db.sb.Select(t.columns...).
		From(t.name).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build select %s: %w", t.name, err)
	}
	out, err := t.scan(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return zero, mapError(err, t.entity, id)
	}
	return out, nil
}

// list returns every row owned by userID. Within a request the result is
// memoized under the table name and user.
func (t table[T]) list(ctx context.Context, userID string) ([]T, error) {
	return cache.Memo(ctx, t.name+":"+userID, func() ([]T, error) {
		query, args, err := t.db.sb.Select(t.columns...).
			From(t.name).
			Where(sq.Eq{"user_id": userID}).
			OrderBy(t.orderBy).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build select %s: %w", t.name, err)
		}
		rows, err := t.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, mapError(err, t.entity, "user="+userID)
		}
		defer rows.Close()

		out := []T{}
		for rows.Next() {
			item, err := t.scan(rows)
			if err != nil {
				return nil, mapError(err, t.entity, "user="+userID)
			}
			out = append(out, item)
		}
		if err := rows.Err(); err != nil {
			return nil, mapError(err, t.entity, "user="+userID)
		}
		return out, nil
	})
}

// ref is a column that points at a row in another table.
type ref struct {
	field string
	table string
	id    string
}

// checkRefs fails with a validation error unless every non-empty ref names
// a row owned by userID.
func (db *DB) checkRefs(ctx context.Context, userID string, refs ...ref) error {
	for _, r := range refs {
		if r.id == "" {
			continue
		}
		if _, err := uuid.Parse(r.id); err != nil {
			return core.NewValidationError(r.field, "does not exist")
		}
		query, args, err := db.sb.Select("1").
			From(r.table).
			Where(sq.Eq{"id": r.id, "user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build select %s: %w", r.table, err)
		}
		var one int
		if err := db.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return core.NewValidationError(r.field, "does not exist")
			}
			return mapError(err, r.table, r.id)
		}
	}
	return nil
}

func recordDest(r *core.Record) []any {
	return []any{&r.ID, &r.UserID, timeValue{&r.CreatedAt}, timeValue{&r.UpdatedAt}}
}

var recordColumns = []string{"id", "user_id", "created_at", "updated_at"}

func withRecord(cols ...string) []string {
	return append(append([]string(nil), recordColumns...), cols...)
}
