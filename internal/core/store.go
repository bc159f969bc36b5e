package core

import "context"

// Store is the persisted document holding the users collection.
// Load returns a snapshot of the full collection in insertion order; Save
// replaces the collection and must complete durably before returning.
// The collection is only ever mutated through Commit and Reset.
type Store interface {
	Load(ctx context.Context) ([]UserRecord, error)
	Save(ctx context.Context, users []UserRecord) error
}

// AuditLog stores batch audit artifacts. Append-only: no update, no delete.
type AuditLog interface {
	// Append writes a new artifact for the record and returns its identifier.
	// It must never overwrite an existing artifact.
	Append(ctx context.Context, rec AuditRecord) (string, error)

	// List returns artifact identifiers, newest first.
	List(ctx context.Context) ([]string, error)

	// Get returns the artifact with the given identifier.
	Get(ctx context.Context, id string) (AuditRecord, error)
}
