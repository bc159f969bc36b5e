package docstore

import (
	"context"
	"sync"

	"github.com/JonMunkholm/onboard/internal/core"
)

// Memory is an in-memory core.Store for tests and local experiments.
type Memory struct {
	mu    sync.Mutex
	users []core.UserRecord
}

// NewMemory creates a memory store seeded with the given records.
func NewMemory(seed ...core.UserRecord) *Memory {
	m := &Memory{}
	m.users = append(m.users, seed...)
	return m
}

func (m *Memory) Load(_ context.Context) ([]core.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.UserRecord, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *Memory) Save(_ context.Context, users []core.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make([]core.UserRecord, len(users))
	copy(m.users, users)
	return nil
}

// MemoryAudit is an in-memory core.AuditLog for tests.
type MemoryAudit struct {
	mu   sync.Mutex
	ids  []string
	recs map[string]core.AuditRecord
}

// NewMemoryAudit creates an empty in-memory audit log.
func NewMemoryAudit() *MemoryAudit {
	return &MemoryAudit{recs: make(map[string]core.AuditRecord)}
}

func (m *MemoryAudit) Append(_ context.Context, rec core.AuditRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := artifactID(rec)
	m.ids = append(m.ids, id)
	m.recs[id] = rec
	return id, nil
}

func (m *MemoryAudit) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ids))
	for i, id := range m.ids {
		out[len(m.ids)-1-i] = id
	}
	return out, nil
}

func (m *MemoryAudit) Get(_ context.Context, id string) (core.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return core.AuditRecord{}, core.ErrArtifactNotFound
	}
	return rec, nil
}
