package core

// scheduler.go runs background maintenance for the audit log.
//
// The retention job deletes audit entries older than the configured number
// of days. It runs once at start and then every CheckInterval, deleting in
// batches so a large backlog never holds one long write lock. Failures are
// logged and retried on the next tick; they never stop the application.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/pmadmin/internal/config"
)

// StartAuditRetention blocks until ctx is cancelled, purging expired audit
// entries on every tick. It returns at once when retention is disabled.
func (s *Service) StartAuditRetention(ctx context.Context, cfg config.AuditConfig) {
	if cfg.RetentionDays <= 0 {
		slog.Info("audit retention disabled")
		return
	}

	slog.Info("audit retention started",
		"retention_days", cfg.RetentionDays,
		"batch_size", cfg.BatchSize,
		"interval", cfg.CheckInterval.String(),
	)

	s.runRetentionJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg)
		}
	}
}

func (s *Service) runRetentionJob(ctx context.Context, cfg config.AuditConfig) {
	start := time.Now()
	cutoff := start.UTC().AddDate(0, 0, -cfg.RetentionDays)

	purged, err := s.PurgeAuditLog(ctx, cutoff, cfg.BatchSize)
	if err != nil {
		slog.Error("audit purge failed", "error", err, "entries_purged", purged)
		return
	}
	slog.Info("purged audit log entries",
		"entries_purged", purged,
		"cutoff", cutoff.Format(time.DateOnly),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// PurgeAuditLog deletes entries created before cutoff, batchSize rows per
// statement, and returns how many were removed.
func (s *Service) PurgeAuditLog(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 5000
	}
	d := s.db.Dialect()
	query := fmt.Sprintf(`DELETE FROM audit_log WHERE id IN (
		SELECT id FROM audit_log WHERE created_at < %s LIMIT %d)`,
		d.Placeholder(1), batchSize)

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := s.db.Exec(ctx, query, cutoff.UTC())
		if err != nil {
			return total, fmt.Errorf("purge audit log: %w", err)
		}
		total += n
		if n < int64(batchSize) {
			return total, nil
		}
	}
}
