package core

import (
	"context"
	"errors"
	"strconv"

	"github.com/JonMunkholm/pmadmin/internal/config"
	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/logging"
	"github.com/JonMunkholm/pmadmin/internal/store"
)

// Service provides the business operations behind the web handlers.
type Service struct {
	db      store.DB
	paging  config.PagingConfig
	exports *ExportLimiter
}

// NewService creates a Service over db. A nil cfg uses default paging and
// export limits.
func NewService(db store.DB, cfg *config.Config) *Service {
	paging := config.PagingConfig{PageSize: DefaultPageSize, MaxPageSize: 100}
	var export config.ExportConfig
	if cfg != nil {
		paging = cfg.Paging
		export = cfg.Export
	}
	return &Service{
		db:      db,
		paging:  paging,
		exports: NewExportLimiter(export.MaxConcurrent, export.MaxWait),
	}
}

// Ping verifies the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// aggregate describes a versioned parent for the shared save path.
type aggregate[P comparable] struct {
	kind  EntityKind
	table *store.Table[P]

	version    func(P) int64
	setVersion func(P, int64) P

	// validate checks the parent's own fields.
	validate func(P) []ValidationError

	// references, when set, checks to-one references inside the unit of work.
	references func(ctx context.Context, q store.Querier, p P) ([]ValidationError, error)
}

// childSet is one submitted child collection of a parent.
type childSet interface {
	diff(ctx context.Context, q store.Querier, parentID int64) (pendingPlan, error)
}

type pendingPlan interface {
	summary() reconcile.Summary
	apply(ctx context.Context, q store.Querier) error
}

type children[C any, F comparable] struct {
	table   *store.Table[C]
	binding reconcile.Binding[C, F]
	ops     []reconcile.ChildOp[F]
}

func childrenOf[C any, F comparable](t *store.Table[C], b reconcile.Binding[C, F], ops []reconcile.ChildOp[F]) children[C, F] {
	return children[C, F]{table: t, binding: b, ops: ops}
}

func (c children[C, F]) diff(ctx context.Context, q store.Querier, parentID int64) (pendingPlan, error) {
	current, err := c.table.ListByParent(ctx, q, parentID)
	if err != nil {
		return nil, err
	}
	plan, err := reconcile.Diff(c.binding, parentID, current, c.ops)
	if err != nil {
		return nil, err
	}
	return tablePlan[C]{table: c.table, plan: plan}, nil
}

type tablePlan[C any] struct {
	table *store.Table[C]
	plan  reconcile.Plan[C]
}

func (p tablePlan[C]) summary() reconcile.Summary { return p.plan.Summary() }

func (p tablePlan[C]) apply(ctx context.Context, q store.Querier) error {
	_, err := reconcile.Apply(ctx, writerFor(p.table, q), p.plan)
	return err
}

func (a aggregate[P]) check(ctx context.Context, q store.Querier, p P) error {
	var v Validator
	for _, e := range a.validate(p) {
		v.Add(e)
	}
	if a.references != nil {
		errs, err := a.references(ctx, q, p)
		if err != nil {
			return err
		}
		for _, e := range errs {
			v.Add(e)
		}
	}
	return v.Result("validate " + a.kind.singular())
}

// create inserts parent and its children in one unit of work.
func create[P comparable](ctx context.Context, s *Service, a aggregate[P], parent P, sets ...childSet) (SaveResult, error) {
	op := "create " + a.kind.singular()
	var result SaveResult

	err := s.db.InTx(ctx, func(q store.Querier) error {
		if err := a.check(ctx, q, parent); err != nil {
			return err
		}

		id, err := a.table.Insert(ctx, q, parent)
		if err != nil {
			return err
		}
		result.ID = id

		plans, total, err := diffAll(ctx, q, id, sets)
		if err != nil {
			return err
		}
		if err := applyAll(ctx, q, plans); err != nil {
			return err
		}
		result.Summary = total

		return writeAudit(ctx, q, ActionCreate, a.kind, id, total)
	})
	if err != nil {
		return SaveResult{}, classify(op, err)
	}

	logging.WithFields(ctx, "entity", a.kind, "id", result.ID).Info("created",
		"inserted", result.Summary.Inserted)
	return result, nil
}

const staleMessage = "the record was changed by someone else; reload and try again"

// update reconciles a parent and its child collections in one unit of work.
//
// A submitted version must match the stored one; version 0 skips the check.
// Children are diffed next. When neither the parent fields nor any child
// changed nothing is written, so resubmitting a saved form is a no-op.
// Otherwise the parent row is rewritten, bumping its version.
func update[P comparable](ctx context.Context, s *Service, a aggregate[P], parent P, sets ...childSet) (SaveResult, error) {
	op := "update " + a.kind.singular()
	id := a.table.ID(parent)
	result := SaveResult{ID: id}

	err := s.db.InTx(ctx, func(q store.Querier) error {
		stored, err := a.table.Get(ctx, q, id)
		if errors.Is(err, store.ErrNoRows) {
			return notFound(op, a.kind.singular(), id)
		}
		if err != nil {
			return err
		}

		submittedVersion := a.version(parent)
		if submittedVersion > 0 && submittedVersion != a.version(stored) {
			return conflict(op, staleMessage, nil)
		}

		if err := a.check(ctx, q, parent); err != nil {
			return err
		}

		plans, total, err := diffAll(ctx, q, id, sets)
		if err != nil {
			return err
		}

		unchanged := a.setVersion(stored, 0) == a.setVersion(parent, 0)
		if unchanged && total.Empty() {
			return nil
		}

		var n int64
		if submittedVersion > 0 {
			n, err = a.table.UpdateVersion(ctx, q, parent, submittedVersion)
		} else {
			n, err = a.table.Update(ctx, q, parent)
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return conflict(op, staleMessage, nil)
		}

		if err := applyAll(ctx, q, plans); err != nil {
			return err
		}
		result.Summary = total

		return writeAudit(ctx, q, ActionUpdate, a.kind, id, total)
	})
	if err != nil {
		return SaveResult{}, classify(op, err)
	}

	logging.WithFields(ctx, "entity", a.kind, "id", id).Info("reconciled",
		"inserted", result.Summary.Inserted,
		"updated", result.Summary.Updated,
		"deleted", result.Summary.Deleted,
	)
	return result, nil
}

// remove deletes one row; children go with it through ON DELETE CASCADE.
func remove[P any](ctx context.Context, s *Service, kind EntityKind, table *store.Table[P], id int64) error {
	op := "delete " + kind.singular()

	err := s.db.InTx(ctx, func(q store.Querier) error {
		n, err := table.Delete(ctx, q, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound(op, kind.singular(), id)
		}
		return writeAudit(ctx, q, ActionDelete, kind, id, reconcile.Summary{})
	})
	if err != nil {
		return classify(op, err)
	}

	logging.WithFields(ctx, "entity", kind, "id", id).Info("deleted")
	return nil
}

// load reads one row and its children through a single read transaction.
func load[P any](ctx context.Context, s *Service, kind EntityKind, table *store.Table[P], id int64, withChildren func(q store.Querier) error) (P, error) {
	op := "get " + kind.singular()
	var p P

	err := s.db.InTx(ctx, func(q store.Querier) error {
		var err error
		p, err = table.Get(ctx, q, id)
		if errors.Is(err, store.ErrNoRows) {
			return notFound(op, kind.singular(), id)
		}
		if err != nil {
			return err
		}
		if withChildren != nil {
			return withChildren(q)
		}
		return nil
	})
	if err != nil {
		return p, classify(op, err)
	}
	return p, nil
}

func diffAll(ctx context.Context, q store.Querier, parentID int64, sets []childSet) ([]pendingPlan, reconcile.Summary, error) {
	var (
		plans []pendingPlan
		total reconcile.Summary
	)
	for _, set := range sets {
		p, err := set.diff(ctx, q, parentID)
		if err != nil {
			return nil, total, err
		}
		plans = append(plans, p)
		total = total.Add(p.summary())
	}
	return plans, total, nil
}

func applyAll(ctx context.Context, q store.Querier, plans []pendingPlan) error {
	for _, p := range plans {
		if err := p.apply(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// exists returns a validation error for field when table has no row id.
func exists[T any](ctx context.Context, q store.Querier, table *store.Table[T], field string, id int64) ([]ValidationError, error) {
	if id <= 0 {
		return []ValidationError{{Field: field, Message: "required field is empty"}}, nil
	}
	ok, err := table.Exists(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []ValidationError{{Field: field, Value: strconv.FormatInt(id, 10), Message: "referenced record does not exist"}}, nil
	}
	return nil, nil
}

func (k EntityKind) singular() string {
	if def, ok := Get(k); ok && def.Singular != "" {
		return def.Singular
	}
	return string(k)
}
