package core

// List definitions for every entity kind. Column order is display order;
// sortable columns receive sort codes 1, 2, ... in that order, so the
// first sortable column is the default ordering.

func init() {
	Register(EntityDefinition{
		Kind:     KindProjects,
		Label:    "Projects",
		Singular: "project",
		From:     "projects e",
		Columns: []ListColumn{
			{Header: "Name", Expr: "e.name", Sortable: true},
			{Header: "Start", Expr: "e.start_date", Format: ColumnDate, Sortable: true},
			{Header: "End", Expr: "e.end_date", Format: ColumnDate, Sortable: true},
			{Header: "Budget", Expr: "e.budget", Format: ColumnMoney, Sortable: true},
			{Header: "Documents", Expr: "(SELECT COUNT(*) FROM documents d WHERE d.project_id = e.id)", Format: ColumnCount, Sortable: true},
		},
		Search: []string{"e.name", "e.description"},
	})

	Register(EntityDefinition{
		Kind:     KindCollaborators,
		Label:    "Collaborators",
		Singular: "collaborator",
		From:     "collaborators e",
		Columns: []ListColumn{
			{Header: "Last name", Expr: "e.last_name", Sortable: true},
			{Header: "First name", Expr: "e.first_name", Sortable: true},
			{Header: "Email", Expr: "e.email", Sortable: true},
			{Header: "Phone", Expr: "e.phone"},
			{Header: "Roles", Expr: "(SELECT COUNT(*) FROM roles r WHERE r.collaborator_id = e.id)", Format: ColumnCount, Sortable: true},
		},
		Search: []string{"e.first_name", "e.last_name", "e.email"},
	})

	Register(EntityDefinition{
		Kind:     KindRequests,
		Label:    "Project requests",
		Singular: "request",
		From:     "project_requests e JOIN projects p ON p.id = e.project_id",
		Columns: []ListColumn{
			{Header: "Title", Expr: "e.title", Sortable: true},
			{Header: "Project", Expr: "p.name", Sortable: true},
			{Header: "Requested", Expr: "e.requested_on", Format: ColumnDate, Sortable: true},
			{Header: "Status", Expr: "e.status", Sortable: true},
			{Header: "Tasks", Expr: "(SELECT COUNT(*) FROM tasks t WHERE t.request_id = e.id)", Format: ColumnCount, Sortable: true},
		},
		Search:                []string{"e.title", "e.status", "p.name"},
		RedirectEmptyToCreate: true,
	})

	Register(EntityDefinition{
		Kind:     KindTasks,
		Label:    "Tasks",
		Singular: "task",
		From: "tasks e" +
			" JOIN project_requests r ON r.id = e.request_id" +
			" JOIN projects p ON p.id = r.project_id",
		Columns: []ListColumn{
			{Header: "Title", Expr: "e.title", Sortable: true},
			{Header: "Request", Expr: "r.title", Sortable: true},
			{Header: "Project", Expr: "p.name", Sortable: true},
			{Header: "Status", Expr: "e.status", Sortable: true},
			{Header: "Due", Expr: "e.due_date", Format: ColumnDate, Sortable: true},
			{Header: "Estimate (h)", Expr: "e.estimated_hours", Format: ColumnHours, Sortable: true},
			{Header: "Logged (h)", Expr: "(SELECT COALESCE(SUM(w.hours), 0) FROM work_logs w WHERE w.task_id = e.id)", Format: ColumnHours, Sortable: true},
		},
		Search: []string{"e.title", "e.status", "r.title", "p.name"},
	})

	Register(EntityDefinition{
		Kind:     KindTransactions,
		Label:    "Transactions",
		Singular: "transaction",
		From:     "transactions e JOIN projects p ON p.id = e.project_id",
		Columns: []ListColumn{
			{Header: "Booked", Expr: "e.booked_on", Format: ColumnDate, Sortable: true},
			{Header: "Project", Expr: "p.name", Sortable: true},
			{Header: "Kind", Expr: "e.kind", Sortable: true},
			{Header: "Amount", Expr: "e.amount", Format: ColumnMoney, Sortable: true},
			{Header: "Description", Expr: "e.description"},
		},
		Search: []string{"e.description", "e.kind", "p.name"},
	})
}
