package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/store"
	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry is one row of the audit log.
type AuditEntry struct {
	ID        string
	Action    AuditAction
	Severity  AuditSeverity
	Entity    EntityKind
	EntityID  int64
	Changes   reconcile.Summary
	IPAddress string
	UserAgent string
	RequestID string
	CreatedAt time.Time
}

// determineSeverity grades an action by how much it can destroy.
func determineSeverity(action AuditAction, changes reconcile.Summary) AuditSeverity {
	switch {
	case action == ActionDelete:
		return SeverityHigh
	case changes.Deleted > 0:
		return SeverityMedium
	case action == ActionCreate:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// writeAudit records an entry through q, so it commits or rolls back with
// the change it describes.
func writeAudit(ctx context.Context, q store.Querier, action AuditAction, entity EntityKind, id int64, changes reconcile.Summary) error {
	md := RequestMetadataFrom(ctx)
	d := q.Dialect()

	query := fmt.Sprintf(`INSERT INTO audit_log
		(id, action, severity, entity, entity_id, inserted, updated, deleted, ip_address, user_agent, request_id, created_at)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4),
		d.Placeholder(5), d.Placeholder(6), d.Placeholder(7), d.Placeholder(8),
		d.Placeholder(9), d.Placeholder(10), d.Placeholder(11), d.Placeholder(12))

	_, err := q.Exec(ctx, query,
		uuid.NewString(),
		string(action),
		string(determineSeverity(action, changes)),
		string(entity),
		id,
		changes.Inserted,
		changes.Updated,
		changes.Deleted,
		md.IPAddress,
		md.UserAgent,
		md.RequestID,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

// AuditTrail returns the most recent audit entries of one record, newest first.
func (s *Service) AuditTrail(ctx context.Context, entity EntityKind, id int64, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	d := s.db.Dialect()
	query := fmt.Sprintf(`SELECT id, action, severity, entity, entity_id, inserted, updated, deleted,
		ip_address, user_agent, request_id, created_at
		FROM audit_log WHERE entity = %s AND entity_id = %s
		ORDER BY created_at DESC LIMIT %d`, d.Placeholder(1), d.Placeholder(2), limit)

	rows, err := s.db.Query(ctx, query, string(entity), id)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e                      AuditEntry
			action, severity, kind string
			created                store.Time
		)
		if err := rows.Scan(&e.ID, &action, &severity, &kind, &e.EntityID,
			&e.Changes.Inserted, &e.Changes.Updated, &e.Changes.Deleted,
			&e.IPAddress, &e.UserAgent, &e.RequestID, &created); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = AuditAction(action)
		e.Severity = AuditSeverity(severity)
		e.Entity = EntityKind(kind)
		e.CreatedAt = created.Time
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return entries, nil
}
