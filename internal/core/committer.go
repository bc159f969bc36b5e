package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Commit merges an accepted batch into the store and records the audit
// artifact. Only called for accepted batches.
//
// The collection is re-loaded immediately before mutation so the write
// applies on top of the current state rather than the snapshot used for
// validation. The users document is saved durably before the audit artifact
// is written; if the save fails no artifact is produced and no summary is
// returned.
func Commit(ctx context.Context, store Store, audit AuditLog, accepted []UserRecord) (CommitSummary, error) {
	users, err := store.Load(ctx)
	if err != nil {
		return CommitSummary{}, &StoreError{Op: "load", Err: err}
	}

	users = append(users, accepted...)
	if err := store.Save(ctx, users); err != nil {
		return CommitSummary{}, &StoreError{Op: "save", Err: err}
	}

	rec := AuditRecord{
		BatchID:     uuid.NewString(),
		CommittedAt: time.Now().UTC(),
		Users:       accepted,
	}
	artifactID, err := audit.Append(ctx, rec)
	if err != nil {
		return CommitSummary{}, &StoreError{Op: "audit", Err: err}
	}

	return CommitSummary{
		RowsCommitted: len(accepted),
		ArtifactID:    artifactID,
		Rows:          accepted,
	}, nil
}
