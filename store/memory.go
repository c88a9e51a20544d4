package store

import (
	"context"
	"sync"

	"github.com/rushteam/estatekit/core"
)

// MemoryStore 是内存实现的 ListingStore，用于测试/开发/原型。
// 按插入顺序保存房源，进程重启后数据丢失。
type MemoryStore struct {
	mu       sync.RWMutex
	listings []*core.Listing
	index    map[int64]int // id -> listings 下标
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[int64]int),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

// Add 写入房源；ID 已存在时原位覆盖，保持原有顺序。
func (m *MemoryStore) Add(_ context.Context, l *core.Listing) error {
	if l == nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: nil listing")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := l.Clone()
	if i, ok := m.index[l.ID]; ok {
		m.listings[i] = cloned
		return nil
	}
	m.index[l.ID] = len(m.listings)
	m.listings = append(m.listings, cloned)
	return nil
}

// AddAll 批量写入房源，逐条应用 Add 的语义。
func (m *MemoryStore) AddAll(ctx context.Context, listings []*core.Listing) error {
	for _, l := range listings {
		if l == nil {
			continue
		}
		if err := m.Add(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return core.ErrListingNotFound
	}
	m.listings = append(m.listings[:i], m.listings[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.listings); j++ {
		m.index[m.listings[j].ID] = j
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (*core.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return nil, core.ErrListingNotFound
	}
	return m.listings[i].Clone(), nil
}

func (m *MemoryStore) All(_ context.Context) ([]*core.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Listing, len(m.listings))
	for i, l := range m.listings {
		out[i] = l.Clone()
	}
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.listings), nil
}

func (m *MemoryStore) Close() error { return nil }

var _ core.ListingStore = (*MemoryStore)(nil)
