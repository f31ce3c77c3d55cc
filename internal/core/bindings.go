package core

import (
	"context"

	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/store"
)

// One reconcile.Binding per parent/child pair.

var documentBinding = reconcile.Binding[Document, DocumentFields]{
	ID: func(d Document) int64 { return d.ID },
	Fields: func(d Document) DocumentFields {
		return DocumentFields{Title: d.Title, Kind: d.Kind, Reference: d.Reference, Notes: d.Notes}
	},
	Apply: func(d Document, f DocumentFields) Document {
		d.Title, d.Kind, d.Reference, d.Notes = f.Title, f.Kind, f.Reference, f.Notes
		return d
	},
	New: func(projectID int64, f DocumentFields) Document {
		return Document{ProjectID: projectID, Title: f.Title, Kind: f.Kind, Reference: f.Reference, Notes: f.Notes}
	},
	Validate: func(f DocumentFields) error {
		var v Validator
		v.Required("title", f.Title)
		if f.Kind != "" {
			v.OneOf("kind", f.Kind, DocumentKinds)
		}
		return v.Err()
	},
}

var roleBinding = reconcile.Binding[Role, RoleFields]{
	ID: func(r Role) int64 { return r.ID },
	Fields: func(r Role) RoleFields {
		return RoleFields{ProjectID: r.ProjectID, Name: r.Name, HourlyRate: r.HourlyRate, StartDate: r.StartDate}
	},
	Apply: func(r Role, f RoleFields) Role {
		r.ProjectID, r.Name, r.HourlyRate, r.StartDate = f.ProjectID, f.Name, f.HourlyRate, f.StartDate
		return r
	},
	New: func(collaboratorID int64, f RoleFields) Role {
		return Role{CollaboratorID: collaboratorID, ProjectID: f.ProjectID, Name: f.Name, HourlyRate: f.HourlyRate, StartDate: f.StartDate}
	},
	Validate: func(f RoleFields) error {
		var v Validator
		v.Positive("project", f.ProjectID)
		v.Required("name", f.Name)
		v.NonNegative("hourly rate", float64(f.HourlyRate))
		return v.Err()
	},
}

var taskBinding = reconcile.Binding[Task, TaskFields]{
	ID: func(t Task) int64 { return t.ID },
	Fields: func(t Task) TaskFields {
		return TaskFields{Title: t.Title, Status: t.Status, DueDate: t.DueDate, EstimatedHours: t.EstimatedHours}
	},
	Apply: func(t Task, f TaskFields) Task {
		t.Title, t.Status, t.DueDate, t.EstimatedHours = f.Title, f.Status, f.DueDate, f.EstimatedHours
		return t
	},
	New: func(requestID int64, f TaskFields) Task {
		return Task{RequestID: requestID, Title: f.Title, Status: f.Status, DueDate: f.DueDate, EstimatedHours: f.EstimatedHours}
	},
	Validate: func(f TaskFields) error {
		var v Validator
		v.Required("title", f.Title)
		v.OneOf("status", f.Status, TaskStatuses)
		v.NonNegative("estimated hours", f.EstimatedHours)
		return v.Err()
	},
}

var workLogBinding = reconcile.Binding[WorkLog, WorkLogFields]{
	ID: func(w WorkLog) int64 { return w.ID },
	Fields: func(w WorkLog) WorkLogFields {
		return WorkLogFields{CollaboratorID: w.CollaboratorID, WorkDate: w.WorkDate, Hours: w.Hours, Notes: w.Notes}
	},
	Apply: func(w WorkLog, f WorkLogFields) WorkLog {
		w.CollaboratorID, w.WorkDate, w.Hours, w.Notes = f.CollaboratorID, f.WorkDate, f.Hours, f.Notes
		return w
	},
	New: func(taskID int64, f WorkLogFields) WorkLog {
		return WorkLog{TaskID: taskID, CollaboratorID: f.CollaboratorID, WorkDate: f.WorkDate, Hours: f.Hours, Notes: f.Notes}
	},
	Validate: func(f WorkLogFields) error {
		var v Validator
		v.Positive("collaborator", f.CollaboratorID)
		v.NonNegative("hours", f.Hours)
		return v.Err()
	},
}

// tableWriter adapts a store.Table to reconcile.Writer for one unit of work.
type tableWriter[C any] struct {
	table *store.Table[C]
	q     store.Querier
}

func writerFor[C any](t *store.Table[C], q store.Querier) tableWriter[C] {
	return tableWriter[C]{table: t, q: q}
}

func (w tableWriter[C]) Delete(ctx context.Context, c C) (int64, error) {
	return w.table.Delete(ctx, w.q, w.table.ID(c))
}

func (w tableWriter[C]) Update(ctx context.Context, c C) (int64, error) {
	return w.table.Update(ctx, w.q, c)
}

func (w tableWriter[C]) Insert(ctx context.Context, c C) (int64, error) {
	return w.table.Insert(ctx, w.q, c)
}
