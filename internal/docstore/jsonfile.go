// Package docstore persists the users collection and batch audit artifacts
// as JSON documents on disk, and provides in-memory doubles for tests.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/onboard/internal/core"
)

// document is the on-disk shape of the users collection.
type document struct {
	Users []core.UserRecord `json:"users"`
}

// JSONFile is a core.Store backed by a single JSON document on disk.
// Save is atomic at the file level: the document is written to a temp file,
// synced, then renamed over the previous version.
type JSONFile struct {
	path string
}

// NewJSONFile creates a store for the document at path. The file is created
// on first Init or Save.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Init ensures the document exists, creating it with an empty collection if
// missing. Call once at startup to fail fast on an unwritable path.
func (s *JSONFile) Init(ctx context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		// Verify the existing document is readable.
		_, err := s.Load(ctx)
		return err
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	return s.Save(ctx, []core.UserRecord{})
}

// Load reads the full collection. A missing file yields the empty default.
func (s *JSONFile) Load(_ context.Context) ([]core.UserRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.UserRecord{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = []core.UserRecord{}
	}
	return doc.Users, nil
}

// Save replaces the collection on disk. The write is durable before Save
// returns.
func (s *JSONFile) Save(_ context.Context, users []core.UserRecord) error {
	if users == nil {
		users = []core.UserRecord{}
	}
	data, err := json.MarshalIndent(document{Users: users}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding users document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp document: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp document: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
