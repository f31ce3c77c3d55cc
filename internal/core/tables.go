package core

import "github.com/JonMunkholm/pmadmin/internal/store"

// Table mappings. Scan order is id, Columns..., version (when versioned).

var projectTable = &store.Table[Project]{
	Name:      "projects",
	Columns:   []string{"name", "description", "start_date", "end_date", "budget"},
	Versioned: true,
	Scan: func(s store.Scanner) (Project, error) {
		var p Project
		err := s.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.Budget, &p.Version)
		return p, err
	},
	Values: func(p Project) []any {
		return []any{p.Name, p.Description, p.StartDate, p.EndDate, p.Budget}
	},
	ID: func(p Project) int64 { return p.ID },
}

var documentTable = &store.Table[Document]{
	Name:         "documents",
	Columns:      []string{"project_id", "title", "kind", "reference", "notes"},
	ParentColumn: "project_id",
	Scan: func(s store.Scanner) (Document, error) {
		var d Document
		err := s.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Kind, &d.Reference, &d.Notes)
		return d, err
	},
	Values: func(d Document) []any {
		return []any{d.ProjectID, d.Title, d.Kind, d.Reference, d.Notes}
	},
	ID: func(d Document) int64 { return d.ID },
}

var collaboratorTable = &store.Table[Collaborator]{
	Name:      "collaborators",
	Columns:   []string{"first_name", "last_name", "email", "phone"},
	Versioned: true,
	Scan: func(s store.Scanner) (Collaborator, error) {
		var c Collaborator
		err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Version)
		return c, err
	},
	Values: func(c Collaborator) []any {
		return []any{c.FirstName, c.LastName, c.Email, c.Phone}
	},
	ID: func(c Collaborator) int64 { return c.ID },
}

var roleTable = &store.Table[Role]{
	Name:         "roles",
	Columns:      []string{"collaborator_id", "project_id", "name", "hourly_rate", "start_date"},
	ParentColumn: "collaborator_id",
	Scan: func(s store.Scanner) (Role, error) {
		var r Role
		err := s.Scan(&r.ID, &r.CollaboratorID, &r.ProjectID, &r.Name, &r.HourlyRate, &r.StartDate)
		return r, err
	},
	Values: func(r Role) []any {
		return []any{r.CollaboratorID, r.ProjectID, r.Name, r.HourlyRate, r.StartDate}
	},
	ID: func(r Role) int64 { return r.ID },
}

var requestTable = &store.Table[ProjectRequest]{
	Name:      "project_requests",
	Columns:   []string{"project_id", "title", "description", "requested_on", "status"},
	Versioned: true,
	Scan: func(s store.Scanner) (ProjectRequest, error) {
		var r ProjectRequest
		err := s.Scan(&r.ID, &r.ProjectID, &r.Title, &r.Description, &r.RequestedOn, &r.Status, &r.Version)
		return r, err
	},
	Values: func(r ProjectRequest) []any {
		return []any{r.ProjectID, r.Title, r.Description, r.RequestedOn, r.Status}
	},
	ID: func(r ProjectRequest) int64 { return r.ID },
}

var taskTable = &store.Table[Task]{
	Name:         "tasks",
	Columns:      []string{"request_id", "title", "status", "due_date", "estimated_hours"},
	ParentColumn: "request_id",
	Versioned:    true,
	Scan: func(s store.Scanner) (Task, error) {
		var t Task
		err := s.Scan(&t.ID, &t.RequestID, &t.Title, &t.Status, &t.DueDate, &t.EstimatedHours, &t.Version)
		return t, err
	},
	Values: func(t Task) []any {
		return []any{t.RequestID, t.Title, t.Status, t.DueDate, t.EstimatedHours}
	},
	ID: func(t Task) int64 { return t.ID },
}

var workLogTable = &store.Table[WorkLog]{
	Name:         "work_logs",
	Columns:      []string{"task_id", "collaborator_id", "work_date", "hours", "notes"},
	ParentColumn: "task_id",
	Scan: func(s store.Scanner) (WorkLog, error) {
		var w WorkLog
		err := s.Scan(&w.ID, &w.TaskID, &w.CollaboratorID, &w.WorkDate, &w.Hours, &w.Notes)
		return w, err
	},
	Values: func(w WorkLog) []any {
		return []any{w.TaskID, w.CollaboratorID, w.WorkDate, w.Hours, w.Notes}
	},
	ID: func(w WorkLog) int64 { return w.ID },
}

var transactionTable = &store.Table[Transaction]{
	Name:    "transactions",
	Columns: []string{"project_id", "booked_on", "amount", "kind", "description"},
	Scan: func(s store.Scanner) (Transaction, error) {
		var t Transaction
		err := s.Scan(&t.ID, &t.ProjectID, &t.BookedOn, &t.Amount, &t.Kind, &t.Description)
		return t, err
	},
	Values: func(t Transaction) []any {
		return []any{t.ProjectID, t.BookedOn, t.Amount, t.Kind, t.Description}
	},
	ID: func(t Transaction) int64 { return t.ID },
}
