package repository

import (
	"sync"

	"solar-agent/domain"
)

// ClientRepositoryMemory keeps the roster in registration order.
type ClientRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.Client
}

func NewClientRepositoryMemory() *ClientRepositoryMemory {
	return &ClientRepositoryMemory{
		data: []domain.Client{},
	}
}

func (r *ClientRepositoryMemory) Save(client domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, client)
	return nil
}

func (r *ClientRepositoryMemory) List() ([]domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Client, len(r.data))
	copy(out, r.data)
	return out, nil
}
