package repository

import (
	"sync"

	"solar-agent/domain"
)

// CallLogRepositoryMemory holds the call log most recent first. Entries are
// never removed; the only mutation is the status flip to converted.
type CallLogRepositoryMemory struct {
	mu      sync.RWMutex
	entries []domain.CallLogEntry
}

func NewCallLogRepositoryMemory(seed ...domain.CallLogEntry) *CallLogRepositoryMemory {
	entries := make([]domain.CallLogEntry, len(seed))
	copy(entries, seed)
	return &CallLogRepositoryMemory{entries: entries}
}

func (r *CallLogRepositoryMemory) Prepend(entry domain.CallLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]domain.CallLogEntry{entry}, r.entries...)
	return nil
}

func (r *CallLogRepositoryMemory) List() ([]domain.CallLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CallLogEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *CallLogRepositoryMemory) MarkConverted(phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if domain.SamePhone(r.entries[i].PhoneNumber, phone) {
			r.entries[i].Status = domain.CallStatusConverted
			return true, nil
		}
	}
	return false, nil
}
