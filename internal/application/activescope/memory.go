package activescope

import (
	"context"
	"sync"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository repositorio en proceso; se pierde al reiniciar el servicio.
type MemoryRepository struct {
	mu    sync.RWMutex
	units map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{units: make(map[string]int64)}
}

func (r *MemoryRepository) Get(_ context.Context, sessionKey string) (*int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.units[sessionKey]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (r *MemoryRepository) Set(_ context.Context, sessionKey string, unitID int64) error {
	r.mu.Lock()
	r.units[sessionKey] = unitID
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionKey string) error {
	r.mu.Lock()
	delete(r.units, sessionKey)
	r.mu.Unlock()
	return nil
}
