package core

import (
	"errors"
	"io"
	"strings"
)

// NormalizeEmail produces the comparison form of an email address: trimmed
// of surrounding whitespace and lower-cased. Normalization is never applied
// to stored values.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate consumes the incoming row sequence and decides the batch outcome
// against a snapshot of the existing collection.
//
// The membership set is built once from existing emails before any row is
// consumed. Rows without an Email Address value are skipped outright; they
// contribute to neither the accepted batch nor a conflict. A row whose
// normalized email is already in the collection marks the whole batch as
// conflicting, but the sequence is still drained to the end so the upload
// stream can be closed and every conflict reported, not just the first.
//
// The membership set is not extended while the batch is processed, so two
// new rows sharing an email are both accepted. Known quirk, kept until
// product confirms the intended behavior; see the regression test.
//
// A terminal decode error aborts the batch with no result.
func Validate(existing []UserRecord, rows RowReader) (IngestionResult, error) {
	seen := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		seen[NormalizeEmail(u.Email())] = struct{}{}
	}

	accepted := []UserRecord{}
	var conflicts []string
	conflictSet := make(map[string]struct{})

	for {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return IngestionResult{}, err
		}

		if row.Email() == "" {
			continue
		}

		email := NormalizeEmail(row.Email())
		if _, dup := seen[email]; dup {
			if _, recorded := conflictSet[email]; !recorded {
				conflictSet[email] = struct{}{}
				conflicts = append(conflicts, email)
			}
			continue
		}

		accepted = append(accepted, row)
	}

	if len(conflicts) > 0 {
		return IngestionResult{Conflicts: conflicts}, nil
	}
	return IngestionResult{Rows: accepted}, nil
}
