package core

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/store"
)

// Error kinds. Every error returned by a Service operation that is the
// caller's fault or a concurrency outcome matches exactly one of these
// through errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict on commit")
	ErrIntegrity  = errors.New("integrity violation")
)

// Error is a classified failure of a Service operation.
type Error struct {
	Kind   error             // One of the Err* kinds above
	Op     string            // Operation, e.g. "update project"
	Msg    string            // Human-readable detail
	Fields []ValidationError // Per-field problems, validation only
	Err    error             // Underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func notFound(op, entity string, id int64) error {
	return &Error{Kind: ErrNotFound, Op: op, Msg: fmt.Sprintf("%s %d not found", entity, id)}
}

func invalid(op string, fields ...ValidationError) error {
	msg := ErrValidation.Error()
	if len(fields) > 0 {
		msg = fields[0].Error()
	}
	return &Error{Kind: ErrValidation, Op: op, Msg: msg, Fields: fields}
}

// ValidationFailed builds a validation Error for problems found outside the
// Service, such as form values that do not parse.
func ValidationFailed(op string, fields ...ValidationError) error {
	return invalid(op, fields...)
}

func conflict(op, msg string, cause error) error {
	return &Error{Kind: ErrConflict, Op: op, Msg: msg, Err: cause}
}

// classify converts reconciler and store failures into core error kinds.
// Already classified errors pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	var unknown *reconcile.UnknownIDsError
	if errors.As(err, &unknown) {
		return &Error{Kind: ErrIntegrity, Op: op, Msg: unknown.Error(), Err: err}
	}

	var rowErr *reconcile.RowError
	switch {
	case errors.Is(err, reconcile.ErrDuplicateID):
		return &Error{Kind: ErrValidation, Op: op, Msg: "duplicate child id", Err: err}
	case errors.As(err, &rowErr):
		var ve ValidationError
		if errors.As(rowErr.Err, &ve) {
			ve.Row = rowErr.Index + 1
			return invalid(op, ve)
		}
		return &Error{Kind: ErrValidation, Op: op, Msg: rowErr.Error(), Err: err}
	case errors.Is(err, reconcile.ErrStaleChild):
		return conflict(op, "a child row was changed by someone else", err)
	case errors.Is(err, store.ErrConflict):
		return conflict(op, "the change conflicts with stored data", err)
	case errors.Is(err, store.ErrNoRows):
		return &Error{Kind: ErrNotFound, Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

