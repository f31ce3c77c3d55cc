// Package reconcile turns a submitted child collection into the minimal set
// of writes that makes the stored collection match it.
//
// A submission is a list of ChildOp values built once at the form edge: Keep
// rows carry the id of a child the client saw, Insert rows carry none. Diff
// compares them with the children currently stored for the parent and
// produces a Plan; Apply executes that plan through a Writer inside the
// caller's unit of work. The package never opens transactions itself.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrDuplicateID is returned when two submitted rows claim the same id.
	ErrDuplicateID = errors.New("reconcile: duplicate child id")

	// ErrUnknownID is returned when a submitted id is not a current child of
	// the parent.
	ErrUnknownID = errors.New("reconcile: unknown child id")

	// ErrStaleChild is returned by Apply when an update or delete touched no
	// row, meaning the child vanished after it was loaded.
	ErrStaleChild = errors.New("reconcile: child changed concurrently")
)

// UnknownIDsError lists every submitted id that does not belong to the parent.
type UnknownIDsError struct {
	ParentID int64
	IDs      []int64
}

func (e *UnknownIDsError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("child ids [%s] do not belong to parent %d", strings.Join(parts, ", "), e.ParentID)
}

func (e *UnknownIDsError) Unwrap() error { return ErrUnknownID }

// DuplicateIDsError lists ids submitted more than once.
type DuplicateIDsError struct {
	IDs []int64
}

func (e *DuplicateIDsError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "child ids submitted more than once: " + strings.Join(parts, ", ")
}

func (e *DuplicateIDsError) Unwrap() error { return ErrDuplicateID }

// RowError reports a Binding.Validate failure for one submitted row.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index+1, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ChildOp is one submitted child row. The zero ID means the row is new.
type ChildOp[F comparable] struct {
	ID     int64
	Fields F
}

// Keep refers to an existing child by id.
func Keep[F comparable](id int64, fields F) ChildOp[F] {
	return ChildOp[F]{ID: id, Fields: fields}
}

// Insert describes a child that does not exist yet.
func Insert[F comparable](fields F) ChildOp[F] {
	return ChildOp[F]{Fields: fields}
}

// IsInsert reports whether the row asks for a new child.
func (op ChildOp[F]) IsInsert() bool { return op.ID == 0 }

// Binding adapts one parent/child pair to the reconciler.
type Binding[C any, F comparable] struct {
	// ID returns the store id of a loaded child.
	ID func(c C) int64

	// Fields extracts the editable field set of a loaded child.
	Fields func(c C) F

	// Apply copies f onto a loaded child, preserving its identity.
	Apply func(c C, f F) C

	// New builds an unsaved child of parentID.
	New func(parentID int64, f F) C

	// Validate, when set, checks one submitted field set.
	Validate func(f F) error
}

// Plan is the set of writes that reconciles one child collection.
type Plan[C any] struct {
	ParentID int64
	Deletes  []C
	Updates  []C
	Inserts  []C
}

// Summary counts the writes in a plan.
type Summary struct {
	Inserted int
	Updated  int
	Deleted  int
}

// Add returns the element-wise sum of s and o.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Inserted: s.Inserted + o.Inserted,
		Updated:  s.Updated + o.Updated,
		Deleted:  s.Deleted + o.Deleted,
	}
}

// Empty reports whether nothing changed.
func (s Summary) Empty() bool {
	return s.Inserted == 0 && s.Updated == 0 && s.Deleted == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("+%d ~%d -%d", s.Inserted, s.Updated, s.Deleted)
}

// Summary counts the writes p will perform.
func (p Plan[C]) Summary() Summary {
	return Summary{Inserted: len(p.Inserts), Updated: len(p.Updates), Deleted: len(p.Deletes)}
}

// Empty reports whether the plan performs no writes.
func (p Plan[C]) Empty() bool { return p.Summary().Empty() }

// Diff compares the submitted rows with the current children of parentID.
//
// Children absent from the submission are deleted. Kept rows whose fields
// differ are updated in place; unchanged rows produce no write. Every id is
// checked before a plan is returned, so an invalid submission never yields a
// partial plan.
func Diff[C any, F comparable](b Binding[C, F], parentID int64, current []C, submitted []ChildOp[F]) (Plan[C], error) {
	plan := Plan[C]{ParentID: parentID}

	byID := make(map[int64]C, len(current))
	for _, c := range current {
		byID[b.ID(c)] = c
	}

	seen := make(map[int64]bool, len(submitted))
	var dups, unknown []int64
	for i, op := range submitted {
		if b.Validate != nil {
			if err := b.Validate(op.Fields); err != nil {
				return plan, &RowError{Index: i, Err: err}
			}
		}
		if op.IsInsert() {
			continue
		}
		if seen[op.ID] {
			if !slices.Contains(dups, op.ID) {
				dups = append(dups, op.ID)
			}
			continue
		}
		seen[op.ID] = true
		if _, ok := byID[op.ID]; !ok {
			unknown = append(unknown, op.ID)
		}
	}
	if len(dups) > 0 {
		slices.Sort(dups)
		return plan, &DuplicateIDsError{IDs: dups}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return plan, &UnknownIDsError{ParentID: parentID, IDs: unknown}
	}

	for _, c := range current {
		if !seen[b.ID(c)] {
			plan.Deletes = append(plan.Deletes, c)
		}
	}
	sort.Slice(plan.Deletes, func(i, j int) bool {
		return b.ID(plan.Deletes[i]) < b.ID(plan.Deletes[j])
	})

	for _, op := range submitted {
		if op.IsInsert() {
			plan.Inserts = append(plan.Inserts, b.New(parentID, op.Fields))
			continue
		}
		stored := byID[op.ID]
		if b.Fields(stored) == op.Fields {
			continue
		}
		plan.Updates = append(plan.Updates, b.Apply(stored, op.Fields))
	}

	return plan, nil
}

// Writer persists children inside the caller's unit of work. Update and
// Delete return the number of rows affected.
type Writer[C any] interface {
	Delete(ctx context.Context, c C) (int64, error)
	Update(ctx context.Context, c C) (int64, error)
	Insert(ctx context.Context, c C) (int64, error)
}

// Apply executes p: deletes, then updates, then inserts. It stops at the
// first failure and leaves rollback to the caller's unit of work. The ids
// minted for inserted children are returned in plan order.
func Apply[C any](ctx context.Context, w Writer[C], p Plan[C]) ([]int64, error) {
	for _, c := range p.Deletes {
		n, err := w.Delete(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("delete child: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("delete child: %w", ErrStaleChild)
		}
	}

	for _, c := range p.Updates {
		n, err := w.Update(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("update child: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("update child: %w", ErrStaleChild)
		}
	}

	ids := make([]int64, 0, len(p.Inserts))
	for _, c := range p.Inserts {
		id, err := w.Insert(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("insert child: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
