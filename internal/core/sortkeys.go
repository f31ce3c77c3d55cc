package core

import (
	"fmt"
	"strings"
	"sync"
)

// SortSpec is a requested ordering: a registered code and a direction.
type SortSpec struct {
	Code      int
	Ascending bool
}

// DefaultSort is sort code 1 ascending.
var DefaultSort = SortSpec{Code: 1, Ascending: true}

// SortKey is one registered ordering of an entity list. Expr is an SQL
// expression over the entity's list query, which may reach a joined to-one
// relation (e.g. "p.name" for tasks ordered by project name).
type SortKey struct {
	Code  int
	Label string
	Expr  string
}

// SortRegistry maps entity kind and sort code to a SortKey. It is filled
// at init and only read afterwards.
type SortRegistry struct {
	mu   sync.RWMutex
	keys map[EntityKind][]SortKey
}

// NewSortRegistry returns an empty registry.
func NewSortRegistry() *SortRegistry {
	return &SortRegistry{keys: make(map[EntityKind][]SortKey)}
}

// Register appends keys for kind. Codes must continue the kind's sequence
// starting at 1. Panics on a duplicate or non-contiguous code.
func (r *SortRegistry) Register(kind EntityKind, keys ...SortKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.keys[kind]
	for _, k := range keys {
		want := len(existing) + 1
		if k.Code < want {
			panic(fmt.Sprintf("sort code %d already registered for %s", k.Code, kind))
		}
		if k.Code != want {
			panic(fmt.Sprintf("sort code %d for %s is not contiguous, expected %d", k.Code, kind, want))
		}
		if strings.TrimSpace(k.Expr) == "" {
			panic(fmt.Sprintf("sort code %d for %s has no expression", k.Code, kind))
		}
		existing = append(existing, k)
	}
	r.keys[kind] = existing
}

// Resolve returns the SortKey registered for kind and code.
func (r *SortRegistry) Resolve(kind EntityKind, code int) (SortKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.keys[kind]
	if code < 1 || code > len(keys) {
		return SortKey{}, false
	}
	return keys[code-1], true
}

// Keys returns the keys registered for kind in code order.
func (r *SortRegistry) Keys(kind EntityKind) []SortKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.keys[kind]
	out := make([]SortKey, len(keys))
	copy(out, keys)
	return out
}

// OrderBy builds the ORDER BY clause (leading space) for spec. idExpr is
// the primary key expression appended as a tie-breaker so the order is
// total. An unknown code keeps identity order, id ascending.
func (r *SortRegistry) OrderBy(kind EntityKind, spec SortSpec, idExpr string) string {
	key, ok := r.Resolve(kind, spec.Code)
	if !ok {
		return " ORDER BY " + idExpr + " ASC"
	}
	dir := "ASC"
	if !spec.Ascending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s %s", key.Expr, dir, idExpr, dir)
}

// sortKeys is the process-wide registry populated by entities.go.
var sortKeys = NewSortRegistry()

// SortKeys returns the process-wide sort registry.
func SortKeys() *SortRegistry { return sortKeys }
