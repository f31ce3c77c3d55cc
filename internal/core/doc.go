// Package core provides the business logic of the project administration
// server.
//
// The package holds all domain behaviour independent of the HTTP layer. Web
// handlers, tests and the command line call the same [Service].
//
// # Architecture
//
//   - Entity Registry: every listable kind is registered at init with its
//     list query, columns and search expressions (entities.go).
//   - Sort Registry: sortable columns become numbered sort keys; an unknown
//     code keeps identity order.
//   - Paging: [Window] turns a page request and a row count into a
//     [PagingInfo] and a [PageDecision] (render, redirect to page 1, or
//     redirect to the create form).
//   - Navigation: [FindNeighbors] resolves previous/next records over an
//     [OrderedSource] built from the same ordering as the list.
//   - Master-detail saves: a parent and its child collections are saved in
//     one unit of work through the reconcile package. Children missing
//     from the submission are deleted, children without an id are
//     inserted, and the rest are updated in place.
//
// # Entity Registry
//
//	core.Register(EntityDefinition{
//	    Kind: KindProjects,
//	    From: "projects e",
//	    Columns: []ListColumn{
//	        {Header: "Name", Expr: "e.name", Sortable: true},
//	    },
//	})
//
// # Error Handling
//
// Service operations return [*Error] values classified by kind
// ([ErrNotFound], [ErrValidation], [ErrConflict], [ErrIntegrity]).
// [MapError] turns any error into a user message with a support code:
//
//   - NF001, INT001, CON001: record errors
//   - DB001-DB007: database errors (constraints, connections)
//   - VAL001-VAL007: validation errors
//   - REQ001-REQ002, RATE001-RATE002: request errors
//
// # Audit Logging
//
// Every create, update and delete writes an audit_log row in the same unit
// of work, with the number of children inserted, updated and deleted and a
// severity:
//
//   - Low: creates
//   - Medium: updates, and any save that deleted children
//   - High: deletes
//
// [Service.StartAuditRetention] purges entries older than the configured
// retention in the background.
//
// # Exports
//
// CSV exports stream the full ordered list. [Service.BeginExport] bounds how
// many run at once; callers past the limit wait briefly and then get
// [ErrTooManyExports].
package core
