package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/riverfjs/docmark-go/internal/types"
)

// Memory 进程内存储，用于测试和临时会话
type Memory struct {
	mu    sync.RWMutex
	docs  map[string]*types.Document
	quota int64
}

// NewMemory creates an empty store. quota 为 0 表示不限制。
func NewMemory(quota int64) *Memory {
	return &Memory{docs: make(map[string]*types.Document), quota: quota}
}

func (m *Memory) Put(_ context.Context, doc *types.Document) error {
	if doc == nil || doc.ID == "" {
		return ErrInvalidDocument
	}
	cp := *doc
	m.mu.Lock()
	m.docs[doc.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) All(_ context.Context) ([]*types.Document, error) {
	m.mu.RLock()
	docs := make([]*types.Document, 0, len(m.docs))
	for _, d := range m.docs {
		cp := *d
		docs = append(docs, &cp)
	}
	m.mu.RUnlock()
	sortNewestFirst(docs)
	return docs, nil
}

func (m *Memory) Get(_ context.Context, id string) (*types.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.docs, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.docs = make(map[string]*types.Document)
	m.mu.Unlock()
	return nil
}

// Estimate 以 JSON 序列化后的大小估算用量
func (m *Memory) Estimate(_ context.Context) (Estimate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var usage int64
	for _, d := range m.docs {
		b, err := json.Marshal(d)
		if err != nil {
			return Estimate{}, err
		}
		usage += int64(len(b))
	}
	return newEstimate(usage, m.quota), nil
}

func (m *Memory) Close() error {
	return nil
}
