package core

import (
	"context"
	"errors"

	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/logging"
	"github.com/JonMunkholm/pmadmin/internal/store"
)

// Transactions have no children and no version; they are plain records.

func checkTransaction(ctx context.Context, q store.Querier, op string, t Transaction) error {
	var v Validator
	v.OneOf("kind", t.Kind, TransactionKinds)
	v.NonNegative("amount", float64(t.Amount))
	if t.BookedOn.IsZero() {
		v.Add(ValidationError{Field: "booked on", Message: "required field is empty"})
	}
	errs, err := exists(ctx, q, projectTable, "project", t.ProjectID)
	if err != nil {
		return err
	}
	for _, e := range errs {
		v.Add(e)
	}
	return v.Result(op)
}

// GetTransaction loads one transaction.
func (s *Service) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	return load(ctx, s, KindTransactions, transactionTable, id, nil)
}

// CreateTransaction books a new transaction.
func (s *Service) CreateTransaction(ctx context.Context, t Transaction) (SaveResult, error) {
	const op = "create transaction"
	var result SaveResult

	err := s.db.InTx(ctx, func(q store.Querier) error {
		if err := checkTransaction(ctx, q, op, t); err != nil {
			return err
		}
		id, err := transactionTable.Insert(ctx, q, t)
		if err != nil {
			return err
		}
		result.ID = id
		return writeAudit(ctx, q, ActionCreate, KindTransactions, id, reconcile.Summary{})
	})
	if err != nil {
		return SaveResult{}, classify(op, err)
	}

	logging.WithFields(ctx, "entity", KindTransactions, "id", result.ID).Info("created")
	return result, nil
}

// UpdateTransaction rewrites a transaction. An unchanged submission writes nothing.
func (s *Service) UpdateTransaction(ctx context.Context, t Transaction) (SaveResult, error) {
	const op = "update transaction"
	result := SaveResult{ID: t.ID}

	err := s.db.InTx(ctx, func(q store.Querier) error {
		stored, err := transactionTable.Get(ctx, q, t.ID)
		if errors.Is(err, store.ErrNoRows) {
			return notFound(op, "transaction", t.ID)
		}
		if err != nil {
			return err
		}
		if err := checkTransaction(ctx, q, op, t); err != nil {
			return err
		}
		if stored == t {
			return nil
		}

		n, err := transactionTable.Update(ctx, q, t)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound(op, "transaction", t.ID)
		}
		result.Summary.Updated = 1
		return writeAudit(ctx, q, ActionUpdate, KindTransactions, t.ID, reconcile.Summary{})
	})
	if err != nil {
		return SaveResult{}, classify(op, err)
	}

	logging.WithFields(ctx, "entity", KindTransactions, "id", t.ID).Info("updated",
		"changed", result.Summary.Updated > 0)
	return result, nil
}

// DeleteTransaction removes a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	return remove(ctx, s, KindTransactions, transactionTable, id)
}
