package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/pmadmin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type project struct {
	ID      int64
	Name    string
	Budget  int64
	Version int64
}

type document struct {
	ID        int64
	ProjectID int64
	Title     string
}

var projects = &store.Table[project]{
	Name:      "projects",
	Columns:   []string{"name", "budget"},
	Versioned: true,
	Scan: func(s store.Scanner) (project, error) {
		var p project
		err := s.Scan(&p.ID, &p.Name, &p.Budget, &p.Version)
		return p, err
	},
	Values: func(p project) []any { return []any{p.Name, p.Budget} },
	ID:     func(p project) int64 { return p.ID },
}

var documents = &store.Table[document]{
	Name:         "documents",
	Columns:      []string{"project_id", "title"},
	ParentColumn: "project_id",
	Scan: func(s store.Scanner) (document, error) {
		var d document
		err := s.Scan(&d.ID, &d.ProjectID, &d.Title)
		return d, err
	},
	Values: func(d document) []any { return []any{d.ProjectID, d.Title} },
	ID:     func(d document) int64 { return d.ID },
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestTable_CRUD(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	id, err := projects.Insert(ctx, db, project{Name: "Apollo", Budget: 1000})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := projects.Get(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", got.Name)
	assert.Equal(t, int64(1), got.Version)

	got.Name = "Apollo II"
	n, err := projects.UpdateVersion(ctx, db, got, got.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The version moved on, so the same stale write now affects nothing.
	n, err = projects.UpdateVersion(ctx, db, got, got.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	reloaded, err := projects.Get(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Apollo II", reloaded.Name)
	assert.Equal(t, int64(2), reloaded.Version)

	count, err := projects.Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err = projects.Delete(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = projects.Get(ctx, db, id)
	assert.ErrorIs(t, err, store.ErrNoRows)

	ok, err := projects.Exists(ctx, db, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTable_ListByParent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	pid, err := projects.Insert(ctx, db, project{Name: "Gemini"})
	require.NoError(t, err)

	for _, title := range []string{"charter", "plan", "minutes"} {
		_, err := documents.Insert(ctx, db, document{ProjectID: pid, Title: title})
		require.NoError(t, err)
	}

	docs, err := documents.ListByParent(ctx, db, pid)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "charter", docs[0].Title)
	assert.Less(t, docs[0].ID, docs[1].ID)

	_, err = projects.ListByParent(ctx, db, pid)
	assert.Error(t, err)
}

func TestInTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	boom := errors.New("boom")
	err := db.InTx(ctx, func(q store.Querier) error {
		if _, err := projects.Insert(ctx, q, project{Name: "Mercury"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := projects.Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestInTx_ForeignKeyConflict(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.InTx(ctx, func(q store.Querier) error {
		_, err := documents.Insert(ctx, q, document{ProjectID: 999, Title: "orphan"})
		return err
	})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	pid, err := projects.Insert(ctx, db, project{Name: "Vostok"})
	require.NoError(t, err)
	_, err = documents.Insert(ctx, db, document{ProjectID: pid, Title: "brief"})
	require.NoError(t, err)

	_, err = projects.Delete(ctx, db, pid)
	require.NoError(t, err)

	docs, err := documents.ListByParent(ctx, db, pid)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
