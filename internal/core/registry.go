package core

import (
	"fmt"
	"sort"
	"sync"
)

// EntityKind identifies a listable entity. It doubles as the URL segment.
type EntityKind string

const (
	KindProjects      EntityKind = "projects"
	KindCollaborators EntityKind = "collaborators"
	KindRequests      EntityKind = "requests"
	KindTasks         EntityKind = "tasks"
	KindTransactions  EntityKind = "transactions"
)

// ColumnFormat selects how a list cell is rendered.
type ColumnFormat int

const (
	ColumnText ColumnFormat = iota
	ColumnDate
	ColumnMoney
	ColumnHours
	ColumnCount
)

// ListColumn is one column of an entity list.
type ListColumn struct {
	Header   string
	Expr     string       // SQL expression over the definition's From clause
	Format   ColumnFormat // Rendering of the raw value
	Sortable bool         // Registers a sort key in column order
	SortCode int          // Assigned by Register for sortable columns
}

// EntityDefinition describes how to list, search and order one entity kind.
type EntityDefinition struct {
	Kind     EntityKind
	Label    string // "Projects"
	Singular string // "project"

	// From is the FROM clause of the list query including any to-one joins.
	// The entity's own table is aliased "e".
	From string

	Columns []ListColumn

	// Search lists the expressions matched by free-text search.
	Search []string

	// RedirectEmptyToCreate sends an empty list straight to the create
	// form. The global paging configuration can force it on for all kinds.
	RedirectEmptyToCreate bool
}

// IDExpr is the primary key expression of the list query.
func (d EntityDefinition) IDExpr() string { return "e.id" }

var (
	registry   = make(map[EntityKind]EntityDefinition)
	registryMu sync.RWMutex
)

// Register adds an entity definition and its sort keys.
// Panics if the kind is already registered.
func Register(def EntityDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Kind]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Kind))
	}

	def.Columns = append([]ListColumn(nil), def.Columns...)
	var keys []SortKey
	for i := range def.Columns {
		col := &def.Columns[i]
		if !col.Sortable {
			continue
		}
		col.SortCode = len(keys) + 1
		keys = append(keys, SortKey{Code: col.SortCode, Label: col.Header, Expr: col.Expr})
	}
	sortKeys.Register(def.Kind, keys...)

	registry[def.Kind] = def
}

// Get returns an entity definition by kind.
// Returns false if not found.
func Get(kind EntityKind) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[kind]
	return def, ok
}

// All returns all registered definitions sorted by kind.
func All() []EntityDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]EntityDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// EntityCount returns the number of registered entity kinds.
func EntityCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
