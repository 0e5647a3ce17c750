package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"thethird/src/core/ports"
)

// Memory keeps JSON encoded results in a map. It goes through the same
// encoding as RedisCache so callers see identical round trips.
type Memory struct {
	mu    sync.RWMutex
	items map[uuid.UUID][]byte
}

var _ ports.ResultsCache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{items: make(map[uuid.UUID][]byte)}
}

func (m *Memory) Get(_ context.Context, sessionID uuid.UUID, dst any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.items[sessionID]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *Memory) Set(_ context.Context, sessionID uuid.UUID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[sessionID] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Health(context.Context) error { return nil }

// Len returns the number of cached sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
