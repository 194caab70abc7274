// Package actions is the single entry point for writes. Each action validates
// its input, calls one repository operation, and on success emits the
// invalidation signals of the mutated entity. Failures never escape an
// action; they come back as a Result with Success false.
package actions

import (
	"context"
	"errors"
	"fmt"

	"finboard/internal/core"
	"finboard/internal/invalidation"
	"finboard/internal/log"
	"finboard/internal/metrics"
	"finboard/internal/storage"
)

// Repository is the write side of one entity's repository.
type Repository[T, In, P any] interface {
	Create(ctx context.Context, userID string, in In) (T, error)
	Update(ctx context.Context, userID, id string, patch P) (T, error)
	Delete(ctx context.Context, userID, id string) error
}

type Repositories struct {
	Categories   Repository[core.Category, core.CategoryInput, core.CategoryPatch]
	Accounts     Repository[core.Account, core.AccountInput, core.AccountPatch]
	Investments  Repository[core.Investment, core.InvestmentInput, core.InvestmentPatch]
	Transactions Repository[core.Transaction, core.TransactionInput, core.TransactionPatch]
	Budgets      Repository[core.Budget, core.BudgetInput, core.BudgetPatch]
	Members      Repository[core.Member, core.MemberInput, core.MemberPatch]
}

// FromStore returns the repositories of s.
func FromStore(s *storage.Store) Repositories {
	return Repositories{
		Categories:   s.Categories,
		Accounts:     s.Accounts,
		Investments:  s.Investments,
		Transactions: s.Transactions,
		Budgets:      s.Budgets,
		Members:      s.Members,
	}
}

type Actions struct {
	repos   Repositories
	emitter invalidation.Emitter
	logger  *log.StructuredLogger
	metrics *metrics.Metrics
}

// New wires the actions. A nil emitter discards signals; a nil metrics
// records nothing.
func New(repos Repositories, emitter invalidation.Emitter, logger *log.Logger, m *metrics.Metrics) *Actions {
	if emitter == nil {
		emitter = invalidation.Nop{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Actions{
		repos:   repos,
		emitter: emitter,
		logger:  log.NewStructuredLogger(logger.WithComponent(log.ComponentActions)),
		metrics: m,
	}
}

type validatable interface {
	Validate() error
}

// op describes one action invocation.
type op struct {
	name   string
	entity invalidation.Entity
	id     string
	userID string
	input  validatable
}

// execute runs call inside the failure boundary. call must perform exactly
// one repository operation.
func execute[T any](ctx context.Context, a *Actions, o op, call func(context.Context) (*T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = fail[T](ctx, a, o, fmt.Errorf("%w: recovered panic: %v", core.ErrUnknown, r), core.ErrUnknown.Error())
		}
	}()

	if core.IsBlank(o.userID) {
		err := core.NewValidationError("user_id", "is required")
		return fail[T](ctx, a, o, err, message(err))
	}
	if o.input != nil {
		if err := o.input.Validate(); err != nil {
			return fail[T](ctx, a, o, err, message(err))
		}
	}

	data, err := call(ctx)
	if err != nil {
		return fail[T](ctx, a, o, err, message(err))
	}

	signals := invalidation.SignalsFor(o.entity)
	names := invalidation.Strings(signals)
	ev := invalidation.Event{Entity: o.entity, Signals: signals, UserID: o.userID}
	if err := a.emitter.Emit(ctx, ev); err != nil {
		a.logger.LogError(ctx, "["+o.name+"] invalidation delivery failed", err, log.OpEmit,
			log.NewFields().WithMutation(o.name, string(o.entity), o.id, o.userID))
	}
	for _, s := range names {
		a.metrics.Invalidation(s)
	}
	a.metrics.Mutation(o.name, metrics.OutcomeSuccess)
	a.logger.LogMutation(ctx, o.name, string(o.entity), o.id, o.userID, names, nil)

	return Result[T]{Success: true, Data: data, Signals: names}
}

func fail[T any](ctx context.Context, a *Actions, o op, err error, msg string) Result[T] {
	kind := Classify(err)
	a.logger.LogMutation(ctx, o.name, string(o.entity), o.id, o.userID, nil, errors.New(msg))
	a.metrics.Mutation(o.name, outcome(kind))
	return Result[T]{Success: false, Error: msg, Kind: kind}
}

func outcome(k ErrorKind) string {
	switch k {
	case KindValidation:
		return metrics.OutcomeValidation
	case KindNotFound:
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}

func create[T, In, P any](ctx context.Context, a *Actions, repo Repository[T, In, P], name string, e invalidation.Entity, userID string, in In) Result[T] {
	v, _ := any(in).(validatable)
	return execute(ctx, a, op{name: name, entity: e, userID: userID, input: v}, func(ctx context.Context) (*T, error) {
		out, err := repo.Create(ctx, userID, in)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func update[T, In, P any](ctx context.Context, a *Actions, repo Repository[T, In, P], name string, e invalidation.Entity, userID, id string, patch P) Result[T] {
	v, _ := any(patch).(validatable)
	return execute(ctx, a, op{name: name, entity: e, id: id, userID: userID, input: v}, func(ctx context.Context) (*T, error) {
		if core.IsBlank(id) {
			return nil, core.NewValidationError("id", "is required")
		}
		out, err := repo.Update(ctx, userID, id, patch)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func remove[T, In, P any](ctx context.Context, a *Actions, repo Repository[T, In, P], name string, e invalidation.Entity, userID, id string) Result[T] {
	return execute(ctx, a, op{name: name, entity: e, id: id, userID: userID}, func(ctx context.Context) (*T, error) {
		if core.IsBlank(id) {
			return nil, core.NewValidationError("id", "is required")
		}
		return nil, repo.Delete(ctx, userID, id)
	})
}
