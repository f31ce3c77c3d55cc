package core

import (
	"context"

	"github.com/JonMunkholm/pmadmin/internal/store"
)

var requestAggregate = aggregate[ProjectRequest]{
	kind:       KindRequests,
	table:      requestTable,
	version:    func(r ProjectRequest) int64 { return r.Version },
	setVersion: func(r ProjectRequest, v int64) ProjectRequest { r.Version = v; return r },
	validate: func(r ProjectRequest) []ValidationError {
		var v Validator
		v.Required("title", r.Title)
		v.OneOf("status", r.Status, RequestStatuses)
		return v.Errors()
	},
	references: func(ctx context.Context, q store.Querier, r ProjectRequest) ([]ValidationError, error) {
		return exists(ctx, q, projectTable, "project", r.ProjectID)
	},
}

var taskAggregate = aggregate[Task]{
	kind:       KindTasks,
	table:      taskTable,
	version:    func(t Task) int64 { return t.Version },
	setVersion: func(t Task, v int64) Task { t.Version = v; return t },
	validate: func(t Task) []ValidationError {
		var v Validator
		v.Required("title", t.Title)
		v.OneOf("status", t.Status, TaskStatuses)
		v.NonNegative("estimated hours", t.EstimatedHours)
		return v.Errors()
	},
	references: func(ctx context.Context, q store.Querier, t Task) ([]ValidationError, error) {
		return exists(ctx, q, requestTable, "request", t.RequestID)
	},
}

// GetRequest loads a project request with its tasks.
func (s *Service) GetRequest(ctx context.Context, id int64) (RequestDetail, error) {
	var tasks []Task
	r, err := load(ctx, s, KindRequests, requestTable, id, func(q store.Querier) error {
		var err error
		tasks, err = taskTable.ListByParent(ctx, q, id)
		return err
	})
	if err != nil {
		return RequestDetail{}, err
	}
	return RequestDetail{Request: r, Tasks: tasks}, nil
}

// CreateRequest inserts a project request and its tasks.
func (s *Service) CreateRequest(ctx context.Context, sub RequestSubmission) (SaveResult, error) {
	sub.Request.ID = 0
	return create(ctx, s, requestAggregate, sub.Request,
		childrenOf(taskTable, taskBinding, sub.Tasks))
}

// UpdateRequest saves a request together with its task collection. Tasks
// removed from the form are deleted with their work logs.
func (s *Service) UpdateRequest(ctx context.Context, sub RequestSubmission) (SaveResult, error) {
	return update(ctx, s, requestAggregate, sub.Request,
		childrenOf(taskTable, taskBinding, sub.Tasks))
}

// DeleteRequest removes a request and its tasks.
func (s *Service) DeleteRequest(ctx context.Context, id int64) error {
	return remove(ctx, s, KindRequests, requestTable, id)
}

// RequestOptions lists requests for dropdowns, ordered by title.
func (s *Service) RequestOptions(ctx context.Context) ([]Option, error) {
	return s.options(ctx, "SELECT id, title FROM project_requests ORDER BY title, id")
}

// GetTask loads a task with its work logs.
func (s *Service) GetTask(ctx context.Context, id int64) (TaskDetail, error) {
	var logs []WorkLog
	t, err := load(ctx, s, KindTasks, taskTable, id, func(q store.Querier) error {
		var err error
		logs, err = workLogTable.ListByParent(ctx, q, id)
		return err
	})
	if err != nil {
		return TaskDetail{}, err
	}
	return TaskDetail{Task: t, WorkLogs: logs}, nil
}

// CreateTask inserts a task and its work logs under an existing request.
func (s *Service) CreateTask(ctx context.Context, sub TaskSubmission) (SaveResult, error) {
	sub.Task.ID = 0
	return create(ctx, s, taskAggregate, sub.Task,
		childrenOf(workLogTable, workLogBinding, sub.WorkLogs))
}

// UpdateTask saves a task together with its work log collection.
func (s *Service) UpdateTask(ctx context.Context, sub TaskSubmission) (SaveResult, error) {
	return update(ctx, s, taskAggregate, sub.Task,
		childrenOf(workLogTable, workLogBinding, sub.WorkLogs))
}

// DeleteTask removes a task and its work logs.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return remove(ctx, s, KindTasks, taskTable, id)
}
