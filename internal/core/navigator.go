package core

import (
	"context"
	"errors"

	"github.com/JonMunkholm/pmadmin/internal/store"
)

// OrderedSource is an unpaged, ordered view of one entity list, built from
// the same SortSpec and filters as the list page.
type OrderedSource interface {
	// Count returns the number of rows.
	Count(ctx context.Context) (int64, error)
	// IDAt returns the id at 0-based position. store.ErrNoRows when the
	// position is past the end.
	IDAt(ctx context.Context, position int64) (int64, error)
}

// Neighbors are the ids around a position. Zero means absent.
type Neighbors struct {
	Position   int64
	Total      int64
	PreviousID int64
	NextID     int64
}

// HasPrevious reports whether a previous record is available.
func (n Neighbors) HasPrevious() bool { return n.PreviousID != 0 }

// HasNext reports whether a next record is available.
func (n Neighbors) HasNext() bool { return n.NextID != 0 }

// FindNeighbors resolves the records immediately before and after position
// in src. It is best-effort: rows inserted or deleted between the list
// render and this call may shift the answer, and a neighbor that vanished
// is reported absent. Only store failures are errors.
func FindNeighbors(ctx context.Context, src OrderedSource, position int64) (Neighbors, error) {
	n := Neighbors{Position: position}
	if position < 0 {
		return n, nil
	}

	total, err := src.Count(ctx)
	if err != nil {
		return n, err
	}
	n.Total = total
	if position >= total {
		return n, nil
	}

	if position > 0 {
		id, err := lookupID(ctx, src, position-1)
		if err != nil {
			return n, err
		}
		n.PreviousID = id
	}
	if position < total-1 {
		id, err := lookupID(ctx, src, position+1)
		if err != nil {
			return n, err
		}
		n.NextID = id
	}
	return n, nil
}

func lookupID(ctx context.Context, src OrderedSource, position int64) (int64, error) {
	id, err := src.IDAt(ctx, position)
	if errors.Is(err, store.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

