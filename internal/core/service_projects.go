package core

import (
	"context"

	"github.com/JonMunkholm/pmadmin/internal/store"
)

var projectAggregate = aggregate[Project]{
	kind:       KindProjects,
	table:      projectTable,
	version:    func(p Project) int64 { return p.Version },
	setVersion: func(p Project, v int64) Project { p.Version = v; return p },
	validate: func(p Project) []ValidationError {
		var v Validator
		v.Required("name", p.Name)
		v.NonNegative("budget", float64(p.Budget))
		v.DateOrder("start date", p.StartDate, "end date", p.EndDate)
		return v.Errors()
	},
}

// GetProject loads a project with its documents.
func (s *Service) GetProject(ctx context.Context, id int64) (ProjectDetail, error) {
	var docs []Document
	p, err := load(ctx, s, KindProjects, projectTable, id, func(q store.Querier) error {
		var err error
		docs, err = documentTable.ListByParent(ctx, q, id)
		return err
	})
	if err != nil {
		return ProjectDetail{}, err
	}
	return ProjectDetail{Project: p, Documents: docs}, nil
}

// CreateProject inserts a project and its documents.
func (s *Service) CreateProject(ctx context.Context, sub ProjectSubmission) (SaveResult, error) {
	sub.Project.ID = 0
	return create(ctx, s, projectAggregate, sub.Project,
		childrenOf(documentTable, documentBinding, sub.Documents))
}

// UpdateProject saves a project edit form: the project fields and the
// whole document collection in one unit of work.
func (s *Service) UpdateProject(ctx context.Context, sub ProjectSubmission) (SaveResult, error) {
	return update(ctx, s, projectAggregate, sub.Project,
		childrenOf(documentTable, documentBinding, sub.Documents))
}

// DeleteProject removes a project and everything that belongs to it.
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	return remove(ctx, s, KindProjects, projectTable, id)
}

// ProjectOptions lists projects for dropdowns, ordered by name.
func (s *Service) ProjectOptions(ctx context.Context) ([]Option, error) {
	return s.options(ctx, "SELECT id, name FROM projects ORDER BY name, id")
}

// options runs a two-column (id, label) query.
func (s *Service) options(ctx context.Context, query string) ([]Option, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, classify("list options", err)
	}
	defer rows.Close()

	var opts []Option
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.Label); err != nil {
			return nil, classify("scan option", err)
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list options", err)
	}
	return opts, nil
}
