package core

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/onboard/internal/metrics"
)

// Service orchestrates uploads, listing and resets against one users
// collection.
//
// The mutex scopes the whole read-validate-write sequence: Go serves HTTP
// requests concurrently, and without it two in-flight uploads could both
// validate against the same snapshot and both commit, landing duplicate
// emails in the collection. Cross-process writers are still unguarded.
type Service struct {
	store   Store
	audit   AuditLog
	metrics *metrics.Metrics

	mu sync.Mutex
}

// NewService creates a Service. metrics may be nil (e.g. in tests).
func NewService(store Store, audit AuditLog, m *metrics.Metrics) *Service {
	return &Service{store: store, audit: audit, metrics: m}
}

// UploadOutcome is the per-request result of an upload. When Result is
// rejected, Summary is zero and nothing was persisted.
type UploadOutcome struct {
	Result  IngestionResult
	Summary CommitSummary
}

// Upload runs the full ingestion pipeline for one CSV stream: decode,
// validate against the current collection, and commit if accepted.
func (s *Service) Upload(ctx context.Context, file io.Reader) (UploadOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rows := NewRowReader(file)

	existing, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.IncUpload("error")
		return UploadOutcome{}, &StoreError{Op: "load", Err: err}
	}

	result, err := Validate(existing, rows)
	if err != nil {
		s.metrics.IncUpload("error")
		return UploadOutcome{}, err
	}

	if result.Rejected() {
		s.metrics.IncUpload("rejected")
		slog.InfoContext(ctx, "upload rejected",
			"duplicates", len(result.Conflicts),
			"bytes", bytesRead(rows),
			"duration", time.Since(start),
		)
		return UploadOutcome{Result: result}, nil
	}

	summary, err := Commit(ctx, s.store, s.audit, result.Rows)
	if err != nil {
		s.metrics.IncUpload("error")
		return UploadOutcome{}, err
	}

	s.metrics.IncUpload("accepted")
	s.metrics.AddRowsCommitted(summary.RowsCommitted)
	s.metrics.ObserveUploadDuration(time.Since(start))
	slog.InfoContext(ctx, "batch committed",
		"rows", summary.RowsCommitted,
		"artifact", summary.ArtifactID,
		"bytes", bytesRead(rows),
		"duration", time.Since(start),
	)

	return UploadOutcome{Result: result, Summary: summary}, nil
}

// bytesRead reports upload bytes consumed when the reader tracks them.
func bytesRead(r RowReader) int64 {
	if c, ok := r.(interface{ BytesRead() int64 }); ok {
		return c.BytesRead()
	}
	return 0
}

// Users returns the current collection snapshot in insertion order.
func (s *Service) Users(ctx context.Context) ([]UserRecord, error) {
	users, err := s.store.Load(ctx)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	return users, nil
}

// Reset replaces the persisted collection with an empty one. Resetting an
// already-empty collection is a no-op with the same observable result.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, []UserRecord{}); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	slog.InfoContext(ctx, "collection reset")
	return nil
}

// AuditIDs lists audit artifact identifiers, newest first.
func (s *Service) AuditIDs(ctx context.Context) ([]string, error) {
	ids, err := s.audit.List(ctx)
	if err != nil {
		return nil, &StoreError{Op: "audit", Err: err}
	}
	return ids, nil
}

// AuditEntry returns one audit artifact by identifier.
func (s *Service) AuditEntry(ctx context.Context, id string) (AuditRecord, error) {
	return s.audit.Get(ctx, id)
}
