package core

// export_limiter.go bounds the number of CSV exports streaming at once.
//
// An export holds a store connection for as long as the client keeps
// reading, so a handful of slow downloads can starve the page handlers.
// When every slot is taken a new export waits up to maxWait and then fails
// with ErrTooManyExports.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyExports is returned when no export slot frees up in time.
// Clients should retry after a short delay.
var ErrTooManyExports = errors.New("too many concurrent exports, please try again later")

// DefaultMaxConcurrentExports is used when no limit is configured.
const DefaultMaxConcurrentExports = 4

// DefaultExportWait is how long to wait for a slot before rejecting.
const DefaultExportWait = 10 * time.Second

// ExportLimiter is a counting semaphore for exports.
type ExportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewExportLimiter allows at most maxConcurrent simultaneous exports.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultExportWait
	}
	return &ExportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a slot. The returned release func frees it; calling it
// more than once is a no-op.
func (l *ExportLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooManyExports
	}

	l.active.Add(1)
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			l.active.Add(-1)
			<-l.slots
		}
	}, nil
}

// ExportStatus is a snapshot of the limiter.
type ExportStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state.
func (l *ExportLimiter) Status() ExportStatus {
	return ExportStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}

// BeginExport reserves an export slot. The caller must call release when
// the export is done.
func (s *Service) BeginExport(ctx context.Context) (release func(), err error) {
	return s.exports.Acquire(ctx)
}

// ExportStatus reports how many exports are running.
func (s *Service) ExportStatus() ExportStatus {
	return s.exports.Status()
}
