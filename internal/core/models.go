package core

import "github.com/JonMunkholm/pmadmin/internal/core/reconcile"

// Enumerations accepted by the forms.
var (
	DocumentKinds    = []string{"contract", "specification", "report", "invoice", "other"}
	RequestStatuses  = []string{"open", "approved", "rejected", "done"}
	TaskStatuses     = []string{"todo", "in_progress", "blocked", "done"}
	TransactionKinds = []string{"income", "expense"}
)

// Project is a parent of Documents.
type Project struct {
	ID          int64
	Name        string
	Description string
	StartDate   Date
	EndDate     Date
	Budget      int64 // cents
	Version     int64
}

// Document is metadata about a file kept for a project. Content is stored
// elsewhere; Reference points at it.
type Document struct {
	ID        int64
	ProjectID int64
	Title     string
	Kind      string
	Reference string
	Notes     string
}

// DocumentFields is the editable part of a Document.
type DocumentFields struct {
	Title     string
	Kind      string
	Reference string
	Notes     string
}

// Collaborator is a person working on projects. Parent of Roles.
type Collaborator struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Version   int64
}

// FullName joins first and last name.
func (c Collaborator) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Role is a collaborator's assignment to a project.
type Role struct {
	ID             int64
	CollaboratorID int64
	ProjectID      int64
	Name           string
	HourlyRate     int64 // cents
	StartDate      Date
}

// RoleFields is the editable part of a Role.
type RoleFields struct {
	ProjectID  int64
	Name       string
	HourlyRate int64
	StartDate  Date
}

// ProjectRequest is a change or work request against a project. Parent of Tasks.
type ProjectRequest struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	RequestedOn Date
	Status      string
	Version     int64
}

// Task belongs to a ProjectRequest and is itself the parent of WorkLogs.
type Task struct {
	ID             int64
	RequestID      int64
	Title          string
	Status         string
	DueDate        Date
	EstimatedHours float64
	Version        int64
}

// TaskFields is the part of a Task editable from its request's form.
type TaskFields struct {
	Title          string
	Status         string
	DueDate        Date
	EstimatedHours float64
}

// WorkLog records hours a collaborator spent on a task.
type WorkLog struct {
	ID             int64
	TaskID         int64
	CollaboratorID int64
	WorkDate       Date
	Hours          float64
	Notes          string
}

// WorkLogFields is the editable part of a WorkLog.
type WorkLogFields struct {
	CollaboratorID int64
	WorkDate       Date
	Hours          float64
	Notes          string
}

// Transaction is a booked income or expense of a project.
type Transaction struct {
	ID          int64
	ProjectID   int64
	BookedOn    Date
	Amount      int64 // cents, always positive; Kind carries the sign
	Kind        string
	Description string
}

// Signed returns Amount with the sign implied by Kind.
func (t Transaction) Signed() int64 {
	if t.Kind == "expense" {
		return -t.Amount
	}
	return t.Amount
}

// Master-detail aggregates as loaded for display and as submitted for
// editing. A submission's Version is the parent version the form was
// rendered from; 0 skips the concurrency check.

type ProjectDetail struct {
	Project   Project
	Documents []Document
}

type ProjectSubmission struct {
	Project   Project
	Documents []reconcile.ChildOp[DocumentFields]
}

type CollaboratorDetail struct {
	Collaborator Collaborator
	Roles        []Role
}

type CollaboratorSubmission struct {
	Collaborator Collaborator
	Roles        []reconcile.ChildOp[RoleFields]
}

type RequestDetail struct {
	Request ProjectRequest
	Tasks   []Task
}

type RequestSubmission struct {
	Request ProjectRequest
	Tasks   []reconcile.ChildOp[TaskFields]
}

type TaskDetail struct {
	Task     Task
	WorkLogs []WorkLog
}

type TaskSubmission struct {
	Task     Task
	WorkLogs []reconcile.ChildOp[WorkLogFields]
}

// Option is one entry of a dropdown list.
type Option struct {
	ID    int64
	Label string
}

// SaveResult reports what a save wrote.
type SaveResult struct {
	ID      int64
	Summary reconcile.Summary
}
