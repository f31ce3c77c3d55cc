package web

import (
	"context"
	"strconv"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/web/templates"
)

// resource binds one entity kind to its form fields and Service operations.
// Forms travel as formData; load and save convert to and from the typed
// aggregates.
type resource struct {
	kind     core.EntityKind
	fields   []templates.Field
	children *childSpec

	// options fills select inputs whose choices live in the store, keyed
	// by field name. Applies to parent and child fields alike.
	options map[string]func(svc *core.Service, ctx context.Context) ([]core.Option, error)

	load   func(svc *core.Service, ctx context.Context, id int64) (formData, error)
	save   func(svc *core.Service, ctx context.Context, fd formData) (core.SaveResult, error)
	remove func(svc *core.Service, ctx context.Context, id int64) error
}

type childSpec struct {
	title  string
	fields []templates.Field
}

func (r *resource) childFields() []templates.Field {
	if r.children == nil {
		return nil
	}
	return r.children.fields
}

// resolveFields returns copies of the parent and child fields with store
// backed options filled in.
func (r *resource) resolveFields(ctx context.Context, svc *core.Service) ([]templates.Field, []templates.Field, error) {
	cache := make(map[string][]templates.Option)
	fill := func(in []templates.Field) ([]templates.Field, error) {
		out := make([]templates.Field, len(in))
		copy(out, in)
		for i := range out {
			fn, ok := r.options[out[i].Name]
			if !ok {
				continue
			}
			opts, cached := cache[out[i].Name]
			if !cached {
				list, err := fn(svc, ctx)
				if err != nil {
					return nil, err
				}
				opts = make([]templates.Option, len(list))
				for j, o := range list {
					opts[j] = templates.Option{Value: idString(o.ID), Label: o.Label}
				}
				cache[out[i].Name] = opts
			}
			out[i].Options = opts
		}
		return out, nil
	}

	parent, err := fill(r.fields)
	if err != nil {
		return nil, nil, err
	}
	child, err := fill(r.childFields())
	if err != nil {
		return nil, nil, err
	}
	return parent, child, nil
}

var resources = map[core.EntityKind]*resource{
	core.KindProjects:      projectResource,
	core.KindCollaborators: collaboratorResource,
	core.KindRequests:      requestResource,
	core.KindTasks:         taskResource,
	core.KindTransactions:  transactionResource,
}

func lookupResource(kind core.EntityKind) (*resource, bool) {
	r, ok := resources[kind]
	return r, ok
}

func enumOptions(values []string) []templates.Option {
	opts := make([]templates.Option, len(values))
	for i, v := range values {
		opts[i] = templates.Option{Value: v, Label: v}
	}
	return opts
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func rowKey(id int64) string { return strconv.FormatInt(id, 10) }

// parseProblems merges parent and child parse problems into one error.
func parseProblems(op string, p *fieldParser, child []core.ValidationError) error {
	all := append(p.errs, child...)
	if len(all) == 0 {
		return nil
	}
	return core.ValidationFailed(op, all...)
}

var projectOptions = map[string]func(*core.Service, context.Context) ([]core.Option, error){
	"project_id": (*core.Service).ProjectOptions,
}

var projectResource = &resource{
	kind: core.KindProjects,
	fields: []templates.Field{
		{Name: "name", Label: "Name"},
		{Name: "description", Label: "Description", Input: templates.InputTextarea},
		{Name: "start_date", Label: "Start date", Input: templates.InputDate},
		{Name: "end_date", Label: "End date", Input: templates.InputDate},
		{Name: "budget", Label: "Budget"},
	},
	children: &childSpec{
		title: "Documents",
		fields: []templates.Field{
			{Name: "title", Label: "Title"},
			{Name: "kind", Label: "Kind", Input: templates.InputSelect, Options: enumOptions(core.DocumentKinds)},
			{Name: "reference", Label: "Reference"},
			{Name: "notes", Label: "Notes"},
		},
	},
	load: func(svc *core.Service, ctx context.Context, id int64) (formData, error) {
		d, err := svc.GetProject(ctx, id)
		if err != nil {
			return formData{}, err
		}
		p := d.Project
		fd := formData{ID: p.ID, Version: p.Version, Values: map[string]string{
			"name":        p.Name,
			"description": p.Description,
			"start_date":  p.StartDate.String(),
			"end_date":    p.EndDate.String(),
			"budget":      core.FormatMoney(p.Budget),
		}}
		for _, doc := range d.Documents {
			fd.Rows = append(fd.Rows, templates.Row{Key: rowKey(doc.ID), Values: map[string]string{
				"title":     doc.Title,
				"kind":      doc.Kind,
				"reference": doc.Reference,
				"notes":     doc.Notes,
			}})
		}
		return fd, nil
	},
	save: func(svc *core.Service, ctx context.Context, fd formData) (core.SaveResult, error) {
		var p fieldParser
		project := core.Project{
			ID:          fd.ID,
			Name:        fd.Values["name"],
			Description: fd.Values["description"],
			StartDate:   p.date("start date", fd.Values["start_date"]),
			EndDate:     p.date("end date", fd.Values["end_date"]),
			Budget:      p.money("budget", fd.Values["budget"]),
			Version:     fd.Version,
		}
		docs, problems := childOps(fd.Rows, func(_ *fieldParser, v map[string]string) core.DocumentFields {
			return core.DocumentFields{Title: v["title"], Kind: v["kind"], Reference: v["reference"], Notes: v["notes"]}
		})
		if err := parseProblems("save project", &p, problems); err != nil {
			return core.SaveResult{}, err
		}

		sub := core.ProjectSubmission{Project: project, Documents: docs}
		if fd.ID == 0 {
			return svc.CreateProject(ctx, sub)
		}
		return svc.UpdateProject(ctx, sub)
	},
	remove: (*core.Service).DeleteProject,
}

var collaboratorResource = &resource{
	kind: core.KindCollaborators,
	fields: []templates.Field{
		{Name: "first_name", Label: "First name"},
		{Name: "last_name", Label: "Last name"},
		{Name: "email", Label: "Email", Input: templates.InputEmail},
		{Name: "phone", Label: "Phone"},
	},
	children: &childSpec{
		title: "Roles",
		fields: []templates.Field{
			{Name: "project_id", Label: "Project", Input: templates.InputSelect},
			{Name: "name", Label: "Role"},
			{Name: "hourly_rate", Label: "Hourly rate"},
			{Name: "start_date", Label: "Start date", Input: templates.InputDate},
		},
	},
	options: projectOptions,
	load: func(svc *core.Service, ctx context.Context, id int64) (formData, error) {
		d, err := svc.GetCollaborator(ctx, id)
		if err != nil {
			return formData{}, err
		}
		c := d.Collaborator
		fd := formData{ID: c.ID, Version: c.Version, Values: map[string]string{
			"first_name": c.FirstName,
			"last_name":  c.LastName,
			"email":      c.Email,
			"phone":      c.Phone,
		}}
		for _, role := range d.Roles {
			fd.Rows = append(fd.Rows, templates.Row{Key: rowKey(role.ID), Values: map[string]string{
				"project_id":  idString(role.ProjectID),
				"name":        role.Name,
				"hourly_rate": core.FormatMoney(role.HourlyRate),
				"start_date":  role.StartDate.String(),
			}})
		}
		return fd, nil
	},
	save: func(svc *core.Service, ctx context.Context, fd formData) (core.SaveResult, error) {
		var p fieldParser
		collaborator := core.Collaborator{
			ID:        fd.ID,
			FirstName: fd.Values["first_name"],
			LastName:  fd.Values["last_name"],
			Email:     fd.Values["email"],
			Phone:     fd.Values["phone"],
			Version:   fd.Version,
		}
		roles, problems := childOps(fd.Rows, func(p *fieldParser, v map[string]string) core.RoleFields {
			return core.RoleFields{
				ProjectID:  p.ref("project", v["project_id"]),
				Name:       v["name"],
				HourlyRate: p.money("hourly rate", v["hourly_rate"]),
				StartDate:  p.date("start date", v["start_date"]),
			}
		})
		if err := parseProblems("save collaborator", &p, problems); err != nil {
			return core.SaveResult{}, err
		}

		sub := core.CollaboratorSubmission{Collaborator: collaborator, Roles: roles}
		if fd.ID == 0 {
			return svc.CreateCollaborator(ctx, sub)
		}
		return svc.UpdateCollaborator(ctx, sub)
	},
	remove: (*core.Service).DeleteCollaborator,
}

var requestResource = &resource{
	kind: core.KindRequests,
	fields: []templates.Field{
		{Name: "project_id", Label: "Project", Input: templates.InputSelect},
		{Name: "title", Label: "Title"},
		{Name: "description", Label: "Description", Input: templates.InputTextarea},
		{Name: "requested_on", Label: "Requested on", Input: templates.InputDate},
		{Name: "status", Label: "Status", Input: templates.InputSelect, Options: enumOptions(core.RequestStatuses)},
	},
	children: &childSpec{
		title: "Tasks",
		fields: []templates.Field{
			{Name: "title", Label: "Title"},
			{Name: "status", Label: "Status", Input: templates.InputSelect, Options: enumOptions(core.TaskStatuses)},
			{Name: "due_date", Label: "Due", Input: templates.InputDate},
			{Name: "estimated_hours", Label: "Estimate (h)", Input: templates.InputNumber},
		},
	},
	options: projectOptions,
	load: func(svc *core.Service, ctx context.Context, id int64) (formData, error) {
		d, err := svc.GetRequest(ctx, id)
		if err != nil {
			return formData{}, err
		}
		r := d.Request
		fd := formData{ID: r.ID, Version: r.Version, Values: map[string]string{
			"project_id":   idString(r.ProjectID),
			"title":        r.Title,
			"description":  r.Description,
			"requested_on": r.RequestedOn.String(),
			"status":       r.Status,
		}}
		for _, t := range d.Tasks {
			fd.Rows = append(fd.Rows, templates.Row{Key: rowKey(t.ID), Values: map[string]string{
				"title":           t.Title,
				"status":          t.Status,
				"due_date":        t.DueDate.String(),
				"estimated_hours": core.FormatHours(t.EstimatedHours),
			}})
		}
		return fd, nil
	},
	save: func(svc *core.Service, ctx context.Context, fd formData) (core.SaveResult, error) {
		var p fieldParser
		request := core.ProjectRequest{
			ID:          fd.ID,
			ProjectID:   p.ref("project", fd.Values["project_id"]),
			Title:       fd.Values["title"],
			Description: fd.Values["description"],
			RequestedOn: p.date("requested on", fd.Values["requested_on"]),
			Status:      fd.Values["status"],
			Version:     fd.Version,
		}
		tasks, problems := childOps(fd.Rows, func(p *fieldParser, v map[string]string) core.TaskFields {
			return core.TaskFields{
				Title:          v["title"],
				Status:         v["status"],
				DueDate:        p.date("due date", v["due_date"]),
				EstimatedHours: p.hours("estimated hours", v["estimated_hours"]),
			}
		})
		if err := parseProblems("save request", &p, problems); err != nil {
			return core.SaveResult{}, err
		}

		sub := core.RequestSubmission{Request: request, Tasks: tasks}
		if fd.ID == 0 {
			return svc.CreateRequest(ctx, sub)
		}
		return svc.UpdateRequest(ctx, sub)
	},
	remove: (*core.Service).DeleteRequest,
}

var taskResource = &resource{
	kind: core.KindTasks,
	fields: []templates.Field{
		{Name: "request_id", Label: "Request", Input: templates.InputSelect},
		{Name: "title", Label: "Title"},
		{Name: "status", Label: "Status", Input: templates.InputSelect, Options: enumOptions(core.TaskStatuses)},
		{Name: "due_date", Label: "Due", Input: templates.InputDate},
		{Name: "estimated_hours", Label: "Estimate (h)", Input: templates.InputNumber},
	},
	children: &childSpec{
		title: "Work logs",
		fields: []templates.Field{
			{Name: "collaborator_id", Label: "Collaborator", Input: templates.InputSelect},
			{Name: "work_date", Label: "Date", Input: templates.InputDate},
			{Name: "hours", Label: "Hours", Input: templates.InputNumber},
			{Name: "notes", Label: "Notes"},
		},
	},
	options: map[string]func(*core.Service, context.Context) ([]core.Option, error){
		"request_id":      (*core.Service).RequestOptions,
		"collaborator_id": (*core.Service).CollaboratorOptions,
	},
	load: func(svc *core.Service, ctx context.Context, id int64) (formData, error) {
		d, err := svc.GetTask(ctx, id)
		if err != nil {
			return formData{}, err
		}
		t := d.Task
		fd := formData{ID: t.ID, Version: t.Version, Values: map[string]string{
			"request_id":      idString(t.RequestID),
			"title":           t.Title,
			"status":          t.Status,
			"due_date":        t.DueDate.String(),
			"estimated_hours": core.FormatHours(t.EstimatedHours),
		}}
		for _, w := range d.WorkLogs {
			fd.Rows = append(fd.Rows, templates.Row{Key: rowKey(w.ID), Values: map[string]string{
				"collaborator_id": idString(w.CollaboratorID),
				"work_date":       w.WorkDate.String(),
				"hours":           core.FormatHours(w.Hours),
				"notes":           w.Notes,
			}})
		}
		return fd, nil
	},
	save: func(svc *core.Service, ctx context.Context, fd formData) (core.SaveResult, error) {
		var p fieldParser
		task := core.Task{
			ID:             fd.ID,
			RequestID:      p.ref("request", fd.Values["request_id"]),
			Title:          fd.Values["title"],
			Status:         fd.Values["status"],
			DueDate:        p.date("due date", fd.Values["due_date"]),
			EstimatedHours: p.hours("estimated hours", fd.Values["estimated_hours"]),
			Version:        fd.Version,
		}
		logs, problems := childOps(fd.Rows, func(p *fieldParser, v map[string]string) core.WorkLogFields {
			return core.WorkLogFields{
				CollaboratorID: p.ref("collaborator", v["collaborator_id"]),
				WorkDate:       p.date("work date", v["work_date"]),
				Hours:          p.hours("hours", v["hours"]),
				Notes:          v["notes"],
			}
		})
		if err := parseProblems("save task", &p, problems); err != nil {
			return core.SaveResult{}, err
		}

		sub := core.TaskSubmission{Task: task, WorkLogs: logs}
		if fd.ID == 0 {
			return svc.CreateTask(ctx, sub)
		}
		return svc.UpdateTask(ctx, sub)
	},
	remove: (*core.Service).DeleteTask,
}

var transactionResource = &resource{
	kind: core.KindTransactions,
	fields: []templates.Field{
		{Name: "project_id", Label: "Project", Input: templates.InputSelect},
		{Name: "booked_on", Label: "Booked on", Input: templates.InputDate},
		{Name: "kind", Label: "Kind", Input: templates.InputSelect, Options: enumOptions(core.TransactionKinds)},
		{Name: "amount", Label: "Amount"},
		{Name: "description", Label: "Description", Input: templates.InputTextarea},
	},
	options: projectOptions,
	load: func(svc *core.Service, ctx context.Context, id int64) (formData, error) {
		t, err := svc.GetTransaction(ctx, id)
		if err != nil {
			return formData{}, err
		}
		return formData{ID: t.ID, Values: map[string]string{
			"project_id":  idString(t.ProjectID),
			"booked_on":   t.BookedOn.String(),
			"kind":        t.Kind,
			"amount":      core.FormatMoney(t.Amount),
			"description": t.Description,
		}}, nil
	},
	save: func(svc *core.Service, ctx context.Context, fd formData) (core.SaveResult, error) {
		var p fieldParser
		t := core.Transaction{
			ID:          fd.ID,
			ProjectID:   p.ref("project", fd.Values["project_id"]),
			BookedOn:    p.date("booked on", fd.Values["booked_on"]),
			Kind:        fd.Values["kind"],
			Amount:      p.money("amount", fd.Values["amount"]),
			Description: fd.Values["description"],
		}
		if err := parseProblems("save transaction", &p, nil); err != nil {
			return core.SaveResult{}, err
		}
		if fd.ID == 0 {
			return svc.CreateTransaction(ctx, t)
		}
		return svc.UpdateTransaction(ctx, t)
	},
	remove: (*core.Service).DeleteTransaction,
}
