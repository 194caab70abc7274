// Package services builds the read-side view models. Results are kept in a
// view cache tagged with the partitions they read, so an invalidation
// signal drops exactly the views that depend on it.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/cache"
	"finboard/internal/core"
	"finboard/internal/filter"
	"finboard/internal/invalidation"
	"finboard/internal/log"
	"finboard/internal/metrics"
	"finboard/internal/storage"
)

// recentLimit is how many transactions the dashboard shows.
const recentLimit = 5

// Reader is the read side of one entity's repository.
type Reader[T any] interface {
	GetByUser(ctx context.Context, userID string) ([]T, error)
}

type Readers struct {
	Accounts     Reader[core.Account]
	Categories   Reader[core.Category]
	Investments  Reader[core.Investment]
	Transactions Reader[core.Transaction]
	Budgets      Reader[core.Budget]
	Members      Reader[core.Member]
}

// ReadersFromStore returns the repositories of s.
func ReadersFromStore(s *storage.Store) Readers {
	return Readers{
		Accounts:     s.Accounts,
		Categories:   s.Categories,
		Investments:  s.Investments,
		Transactions: s.Transactions,
		Budgets:      s.Budgets,
		Members:      s.Members,
	}
}

type Views struct {
	r       Readers
	cache   cache.Cache[any]
	metrics *metrics.Metrics
	logger  *log.Logger
	now     func() time.Time
}

// NewViews returns views over r. With a nil cache every call rebuilds.
func NewViews(r Readers, c cache.Cache[any], m *metrics.Metrics, logger *log.Logger) *Views {
	if logger == nil {
		logger = log.Discard()
	}
	return &Views{
		r:       r,
		cache:   c,
		metrics: m,
		logger:  logger.WithComponent(log.ComponentViews),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// cached returns the view stored under view+key or builds and stores it.
func cached[T any](ctx context.Context, v *Views, view string, key []string, tags []invalidation.Signal, build func(context.Context) (T, error)) (T, error) {
	if v.cache == nil {
		return build(ctx)
	}
	k := view + ":" + strings.Join(key, ":")
	if hit, ok := v.cache.Get(k); ok {
		if out, ok := hit.(T); ok {
			v.metrics.ViewCache(view, true)
			return out, nil
		}
	}
	v.metrics.ViewCache(view, false)

	tagNames := invalidation.Strings(tags)
	gen := v.cache.Generation(tagNames...)
	out, err := build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if !v.cache.SetAt(gen, k, out, tagNames...) {
		v.logger.DebugContext(ctx, "View invalidated while building, not cached", log.FieldView, view, "key", k)
		return out, nil
	}
	v.logger.DebugContext(ctx, "View cached", log.FieldView, view, "key", k)
	return out, nil
}

// Accounts builds the accounts summary, narrowed to the selected member.
func (v *Views) Accounts(ctx context.Context, userID string, st filter.State) (core.AccountsViewModel, error) {
	return cached(ctx, v, "accounts_view", []string{userID, st.SelectedUserID},
		[]invalidation.Signal{invalidation.Accounts},
		func(ctx context.Context) (core.AccountsViewModel, error) {
			accounts, err := v.r.Accounts.GetByUser(ctx, userID)
			if err != nil {
				return core.AccountsViewModel{}, fmt.Errorf("list accounts: %w", err)
			}
			return core.CreateAccountsViewModel(accounts, core.AccountsViewOptions{MemberID: st.SelectedUserID}), nil
		})
}

// Dashboard gathers every block of the landing page. The underlying reads
// run concurrently and share the request cache.
func (v *Views) Dashboard(ctx context.Context, userID string, st filter.State) (core.Dashboard, error) {
	now := v.now()
	return cached(ctx, v, "dashboard", []string{userID, st.SelectedUserID, now.Format("2006-01")},
		[]invalidation.Signal{invalidation.Dashboard},
		func(ctx context.Context) (core.Dashboard, error) {
			var (
				accounts     []core.Account
				investments  []core.Investment
				budgets      []core.Budget
				transactions []core.Transaction
				categories   []core.Category
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				accounts, err = v.r.Accounts.GetByUser(gctx, userID)
				return wrap("accounts", err)
			})
			g.Go(func() (err error) {
				investments, err = v.r.Investments.GetByUser(gctx, userID)
				return wrap("investments", err)
			})
			g.Go(func() (err error) {
				budgets, err = v.r.Budgets.GetByUser(gctx, userID)
				return wrap("budgets", err)
			})
			g.Go(func() (err error) {
				transactions, err = v.r.Transactions.GetByUser(gctx, userID)
				return wrap("transactions", err)
			})
			g.Go(func() (err error) {
				categories, err = v.r.Categories.GetByUser(gctx, userID)
				return wrap("categories", err)
			})
			if err := g.Wait(); err != nil {
				return core.Dashboard{}, err
			}

			recent := transactions
			if len(recent) > recentLimit {
				recent = recent[:recentLimit]
			}
			return core.Dashboard{
				Filter:      st.SelectedGroupFilter,
				Accounts:    core.CreateAccountsViewModel(accounts, core.AccountsViewOptions{MemberID: st.SelectedUserID}),
				Investments: core.SummarizeInvestments(investments),
				Budgets:     core.BuildBudgetProgress(budgets, transactions, categories, now),
				Month:       core.BuildMonthOverview(now.Year(), int(now.Month()), transactions, categories),
				Recent:      append([]core.Transaction{}, recent...),
				GeneratedAt: now,
			}, nil
		})
}

// Report summarizes one month of transactions by category.
func (v *Views) Report(ctx context.Context, userID string, year, month int) (core.MonthOverview, error) {
	if month < 1 || month > 12 {
		return core.MonthOverview{}, core.NewValidationError("month", "must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return core.MonthOverview{}, core.NewValidationError("year", "is out of range")
	}
	return cached(ctx, v, "report", []string{userID, fmt.Sprint(year), fmt.Sprint(month)},
		[]invalidation.Signal{invalidation.Reports, invalidation.Transactions, invalidation.Categories},
		func(ctx context.Context) (core.MonthOverview, error) {
			v.logger.DebugContext(ctx, "Building monthly report", log.FieldYear, year, log.FieldMonth, month)
			var (
				transactions []core.Transaction
				categories   []core.Category
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				transactions, err = v.r.Transactions.GetByUser(gctx, userID)
				return wrap("transactions", err)
			})
			g.Go(func() (err error) {
				categories, err = v.r.Categories.GetByUser(gctx, userID)
				return wrap("categories", err)
			})
			if err := g.Wait(); err != nil {
				return core.MonthOverview{}, err
			}
			return core.BuildMonthOverview(year, month, transactions, categories), nil
		})
}

func (v *Views) Categories(ctx context.Context, userID string) ([]core.Category, error) {
	return list(ctx, v, "categories", invalidation.Categories, userID, v.r.Categories)
}

func (v *Views) AccountList(ctx context.Context, userID string) ([]core.Account, error) {
	return list(ctx, v, "accounts", invalidation.Accounts, userID, v.r.Accounts)
}

func (v *Views) Investments(ctx context.Context, userID string) ([]core.Investment, error) {
	return list(ctx, v, "investments", invalidation.Investments, userID, v.r.Investments)
}

func (v *Views) Transactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return list(ctx, v, "transactions", invalidation.Transactions, userID, v.r.Transactions)
}

func (v *Views) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	return list(ctx, v, "budgets", invalidation.Budgets, userID, v.r.Budgets)
}

func (v *Views) Members(ctx context.Context, userID string) ([]core.Member, error) {
	return list(ctx, v, "members", invalidation.Members, userID, v.r.Members)
}

func list[T any](ctx context.Context, v *Views, view string, tag invalidation.Signal, userID string, r Reader[T]) ([]T, error) {
	return cached(ctx, v, view, []string{userID}, []invalidation.Signal{tag},
		func(ctx context.Context) ([]T, error) {
			items, err := r.GetByUser(ctx, userID)
			return items, wrap(view, err)
		})
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("list %s: %w", what, err)
}
