package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
	"finboard/internal/invalidation"
	"finboard/internal/metrics"
)

// fakeRepo stores records in a map and counts calls.
type fakeRepo[T any, In any, P any] struct {
	calls   int
	err     error
	panics  bool
	created func(id string, in In) T
	merge   func(T, P) T
	items   map[string]T
}

func newFakeRepo[T, In, P any](created func(string, In) T, merge func(T, P) T) *fakeRepo[T, In, P] {
	return &fakeRepo[T, In, P]{created: created, merge: merge, items: map[string]T{}}
}

func (f *fakeRepo[T, In, P]) Create(_ context.Context, _ string, in In) (T, error) {
	f.calls++
	var zero T
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return zero, f.err
	}
	id := fmt.Sprintf("id-%d", len(f.items)+1)
	out := f.created(id, in)
	f.items[id] = out
	return out, nil
}

func (f *fakeRepo[T, In, P]) Update(_ context.Context, _ string, id string, p P) (T, error) {
	f.calls++
	var zero T
	if f.err != nil {
		return zero, f.err
	}
	cur, ok := f.items[id]
	if !ok {
		return zero, fmt.Errorf("record %s: %w", id, core.ErrNotFound)
	}
	cur = f.merge(cur, p)
	f.items[id] = cur
	return cur, nil
}

func (f *fakeRepo[T, In, P]) Delete(_ context.Context, _ string, id string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return fmt.Errorf("record %s: %w", id, core.ErrNotFound)
	}
	delete(f.items, id)
	return nil
}

func categoryRepo() *fakeRepo[core.Category, core.CategoryInput, core.CategoryPatch] {
	return newFakeRepo(
		func(id string, in core.CategoryInput) core.Category {
			now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			return core.Category{Record: core.Record{ID: id, UserID: "u1", CreatedAt: now, UpdatedAt: now}, Name: in.Name, Kind: in.Kind, Color: in.Color}
		},
		func(c core.Category, p core.CategoryPatch) core.Category {
			if p.Name != nil {
				c.Name = *p.Name
			}
			if p.Kind != nil {
				c.Kind = *p.Kind
			}
			if p.Color != nil {
				c.Color = *p.Color
			}
			c.UpdatedAt = c.UpdatedAt.Add(time.Hour)
			return c
		},
	)
}

func setup(t *testing.T) (*Actions, *fakeRepo[core.Category, core.CategoryInput, core.CategoryPatch], *invalidation.Recorder) {
	t.Helper()
	repo := categoryRepo()
	rec := &invalidation.Recorder{}
	a := New(Repositories{Categories: repo}, rec, nil, metrics.New())
	return a, repo, rec
}

func strPtr(s string) *string { return &s }

func TestUpdateCategorySuccess(t *testing.T) {
	ctx := context.Background()
	a, repo, rec := setup(t)

	created := a.CreateCategory(ctx, "u1", core.CategoryInput{Name: "Food", Kind: core.CategoryExpense, Color: "#abc"})
	require.True(t, created.Success, created.Error)
	id := created.Data.ID

	repo.calls = 0
	before := len(rec.Events())
	res := a.UpdateCategory(ctx, "u1", id, core.CategoryPatch{Name: strPtr("Groceries")})

	require.True(t, res.Success, res.Error)
	require.NotNil(t, res.Data)
	assert.Equal(t, repo.items[id], *res.Data, "data is the merged record")
	assert.Equal(t, "Groceries", res.Data.Name)
	assert.Equal(t, "#abc", res.Data.Color)
	assert.Empty(t, res.Error)
	assert.Equal(t, 1, repo.calls)

	events := rec.Events()[before:]
	require.Len(t, events, 1)
	assert.Equal(t, invalidation.Category, events[0].Entity)
	assert.Equal(t, "u1", events[0].UserID)
	assert.Equal(t,
		[]invalidation.Signal{invalidation.Categories, invalidation.Transactions, invalidation.Budgets, invalidation.Dashboard},
		events[0].Signals)
	assert.Equal(t, []string{"categories", "transactions", "budgets", "dashboard"}, res.Signals)
}

func TestDeleteCategoryMissingEmitsNothing(t *testing.T) {
	a, repo, rec := setup(t)

	res := a.DeleteCategory(context.Background(), "u1", "missing")

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Nil(t, res.Data)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, 1, repo.calls)
	assert.Empty(t, rec.Events())
}

func TestDeleteCategoryTwice(t *testing.T) {
	ctx := context.Background()
	a, _, rec := setup(t)
	created := a.CreateCategory(ctx, "u1", core.CategoryInput{Name: "Food", Kind: core.CategoryExpense})
	require.True(t, created.Success)

	first := a.DeleteCategory(ctx, "u1", created.Data.ID)
	assert.True(t, first.Success)
	assert.Nil(t, first.Data)

	second := a.DeleteCategory(ctx, "u1", created.Data.ID)
	assert.False(t, second.Success)
	assert.Equal(t, KindNotFound, second.Kind)
	assert.Len(t, rec.Events(), 2, "create and first delete only")
}

func TestValidationFailureSkipsRepository(t *testing.T) {
	a, repo, rec := setup(t)

	res := a.CreateCategory(context.Background(), "u1", core.CategoryInput{Name: "", Kind: "nope"})

	assert.False(t, res.Success)
	assert.Equal(t, KindValidation, res.Kind)
	assert.Contains(t, res.Error, "name is required")
	assert.Zero(t, repo.calls)
	assert.Empty(t, rec.Events())

	res = a.UpdateCategory(context.Background(), "u1", " ", core.CategoryPatch{})
	assert.Equal(t, KindValidation, res.Kind)
	assert.Zero(t, repo.calls)

	res = a.CreateCategory(context.Background(), "", core.CategoryInput{Name: "Food", Kind: core.CategoryIncome})
	assert.Equal(t, KindValidation, res.Kind)
	assert.Zero(t, repo.calls)
}

func TestPersistenceFailure(t *testing.T) {
	a, repo, rec := setup(t)
	repo.err = fmt.Errorf("category x: %w", core.ErrPersistence)

	res := a.CreateCategory(context.Background(), "u1", core.CategoryInput{Name: "Food", Kind: core.CategoryIncome})

	assert.False(t, res.Success)
	assert.Equal(t, KindPersistence, res.Kind)
	assert.Equal(t, "category x: persistence error", res.Error)
	assert.Empty(t, rec.Events())
}

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestFallbackMessage(t *testing.T) {
	a, repo, _ := setup(t)

	repo.err = emptyErr{}
	res := a.CreateCategory(context.Background(), "u1", core.CategoryInput{Name: "Food", Kind: core.CategoryIncome})
	assert.Equal(t, "an unknown error occurred", res.Error)
	assert.Equal(t, KindUnknown, res.Kind)

	repo.err = nil
	repo.panics = true
	res = a.CreateCategory(context.Background(), "u1", core.CategoryInput{Name: "Food", Kind: core.CategoryIncome})
	assert.False(t, res.Success)
	assert.Equal(t, "an unknown error occurred", res.Error)
	assert.Equal(t, KindUnknown, res.Kind)
}

func TestUnwiredRepositoryIsContained(t *testing.T) {
	a := New(Repositories{}, nil, nil, nil)
	res := a.DeleteBudget(context.Background(), "u1", "b1")
	assert.False(t, res.Success)
	assert.Equal(t, "an unknown error occurred", res.Error)
}

type brokenEmitter struct{ calls int }

func (b *brokenEmitter) Emit(context.Context, invalidation.Event) error {
	b.calls++
	return errors.New("broker down")
}

func TestEmitterFailureDoesNotChangeResult(t *testing.T) {
	repo := categoryRepo()
	em := &brokenEmitter{}
	a := New(Repositories{Categories: repo}, em, nil, nil)

	res := a.CreateCategory(context.Background(), "u1", core.CategoryInput{Name: "Food", Kind: core.CategoryIncome})
	assert.True(t, res.Success)
	assert.Equal(t, 1, em.calls)
}

func TestEverySignalListMatchesTable(t *testing.T) {
	ctx := context.Background()
	rec := &invalidation.Recorder{}
	accounts := newFakeRepo(
		func(id string, in core.AccountInput) core.Account { return core.Account{Record: core.Record{ID: id}, Name: in.Name} },
		func(a core.Account, _ core.AccountPatch) core.Account { return a },
	)
	members := newFakeRepo(
		func(id string, in core.MemberInput) core.Member { return core.Member{Record: core.Record{ID: id}, Name: in.Name} },
		func(m core.Member, _ core.MemberPatch) core.Member { return m },
	)
	a := New(Repositories{Accounts: accounts, Members: members}, rec, nil, nil)

	r1 := a.CreateAccount(ctx, "u1", core.AccountInput{Name: "Main", Type: core.AccountChecking, Currency: "EUR"})
	require.True(t, r1.Success, r1.Error)
	r2 := a.CreateMember(ctx, "u1", core.MemberInput{Name: "Ann", Email: "ann@x.io"})
	require.True(t, r2.Success, r2.Error)

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, invalidation.SignalsFor(invalidation.Account), events[0].Signals)
	assert.Equal(t, invalidation.SignalsFor(invalidation.Member), events[1].Signals)
}

func TestResultJSON(t *testing.T) {
	ok, err := json.Marshal(Result[core.Member]{Success: true, Data: &core.Member{Name: "Ann"}, Signals: []string{"members"}})
	require.NoError(t, err)
	assert.Contains(t, string(ok), `"success":true`)
	assert.NotContains(t, string(ok), "signals")
	assert.NotContains(t, string(ok), `"error"`)

	bad, err := json.Marshal(Result[core.Member]{Error: "nope", Kind: KindNotFound})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"nope"}`, string(bad))
}
