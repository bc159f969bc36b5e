package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JonMunkholm/onboard/internal/core"
)

// AuditDir is a core.AuditLog backed by a directory of JSON artifacts, one
// file per committed batch. Artifacts are append-only: files are created
// with O_EXCL and never rewritten.
type AuditDir struct {
	dir string
}

// NewAuditDir creates an audit log rooted at dir. The directory is created
// on first Append.
func NewAuditDir(dir string) *AuditDir {
	return &AuditDir{dir: dir}
}

// Append writes a new artifact for rec and returns its identifier, which is
// also the file name: onboarded_users_<timestamp>_<batch prefix>.json.
// The timestamp keeps artifacts sortable; the batch-id suffix keeps names
// unique under sub-second commits. Characters unsafe for a file name are
// replaced in the timestamp.
func (a *AuditDir) Append(_ context.Context, rec core.AuditRecord) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating audit directory: %w", err)
	}

	id := artifactID(rec)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding audit record: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(a.dir, id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating audit artifact %s: %w", id, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("writing audit artifact %s: %w", id, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", fmt.Errorf("syncing audit artifact %s: %w", id, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing audit artifact %s: %w", id, err)
	}
	return id, nil
}

// List returns artifact identifiers, newest first.
func (a *AuditDir) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading audit directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, e.Name())
	}
	// Timestamped names sort chronologically; reverse for newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}

// Get returns the artifact with the given identifier.
func (a *AuditDir) Get(_ context.Context, id string) (core.AuditRecord, error) {
	if id != filepath.Base(id) || strings.Contains(id, "..") {
		return core.AuditRecord{}, core.ErrArtifactNotFound
	}

	data, err := os.ReadFile(filepath.Join(a.dir, id))
	if err != nil {
		if os.IsNotExist(err) {
			return core.AuditRecord{}, core.ErrArtifactNotFound
		}
		return core.AuditRecord{}, fmt.Errorf("reading audit artifact %s: %w", id, err)
	}

	var rec core.AuditRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.AuditRecord{}, fmt.Errorf("parsing audit artifact %s: %w", id, err)
	}
	return rec, nil
}

// artifactID derives the file name from the record's timestamp and batch ID.
func artifactID(rec core.AuditRecord) string {
	ts := rec.CommittedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)

	suffix := rec.BatchID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("onboarded_users_%s_%s.json", ts, suffix)
}
