package store

import (
	"context"
	"sort"
	"sync"

	"github.com/saiMhatre/stock-api/internal/stock"
)

var _ stock.Store = (*Memory)(nil)

// Memory keeps stocks in process. Save checks name uniqueness under the same
// lock as the write.
type Memory struct {
	mu     sync.RWMutex
	byID   map[int64]stock.Stock
	byName map[string]int64
	nextID int64
}

func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[int64]stock.Stock),
		byName: make(map[string]int64),
	}
}

func (m *Memory) List(_ context.Context) ([]stock.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]stock.Stock, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Get(_ context.Context, id int64) (stock.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	if !ok {
		return stock.Stock{}, stock.ErrRecordNotFound
	}
	return s, nil
}

func (m *Memory) GetByName(_ context.Context, name string) (stock.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[name]
	if !ok {
		return stock.Stock{}, stock.ErrRecordNotFound
	}
	return m.byID[id], nil
}

func (m *Memory) Save(_ context.Context, s stock.Stock) (stock.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == 0 {
		if _, taken := m.byName[s.Name]; taken {
			return stock.Stock{}, stock.ErrDuplicateName
		}
		m.nextID++
		s.ID = m.nextID
		m.byID[s.ID] = s
		m.byName[s.Name] = s.ID
		return s, nil
	}

	prev, ok := m.byID[s.ID]
	if !ok {
		return stock.Stock{}, stock.ErrRecordNotFound
	}
	if prev.Name != s.Name {
		if owner, taken := m.byName[s.Name]; taken && owner != s.ID {
			return stock.Stock{}, stock.ErrDuplicateName
		}
		delete(m.byName, prev.Name)
		m.byName[s.Name] = s.ID
	}
	m.byID[s.ID] = s
	return s, nil
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
