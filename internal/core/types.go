// Package core provides the business logic for onboarding CSV ingestion.
// This package has no HTTP dependencies and performs no I/O of its own
// beyond the Store and AuditLog ports it is handed.
package core

import "time"

// CSV column names for the onboarding file. The Email Address column is the
// only one with validation semantics; all other fields are stored verbatim.
const (
	ColEmployeeID = "Employee Id"
	ColFirstName  = "First Name"
	ColLastName   = "Last Name"
	ColEmail      = "Email Address"
)

// UserRecord is a single onboarded employee row, keyed by CSV header name.
// Field values keep their original casing and whitespace; normalization is
// applied only when comparing emails, never when storing them.
type UserRecord map[string]string

// Email returns the raw Email Address field, or "" when absent.
func (u UserRecord) Email() string {
	return u[ColEmail]
}

// IngestionResult is the outcome of validating one uploaded batch.
// A batch is accepted or rejected as a unit: either Rows carries every valid
// incoming row, or Conflicts carries the complete set of normalized emails
// that already exist in the collection.
type IngestionResult struct {
	Rows      []UserRecord
	Conflicts []string
}

// Rejected reports whether the batch was rejected due to duplicate emails.
func (r IngestionResult) Rejected() bool {
	return len(r.Conflicts) > 0
}

// AuditRecord is the immutable trace of one committed batch. Artifacts are
// written once and never modified; BatchID ties log lines, the summary and
// the artifact together.
type AuditRecord struct {
	BatchID     string       `json:"batchId"`
	CommittedAt time.Time    `json:"committedAt"`
	Users       []UserRecord `json:"users"`
}

// CommitSummary is returned to the caller after a successful commit.
type CommitSummary struct {
	RowsCommitted int
	ArtifactID    string
	Rows          []UserRecord
}
