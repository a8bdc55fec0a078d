package service

import (
	"sync"
	"time"
)

// TaskScheduler runs delayed functions grouped by key. Cancelling a key
// guarantees none of its pending functions run afterwards.
type TaskScheduler struct {
	mu     sync.Mutex
	nextID uint64
	tasks  map[string]map[uint64]*time.Timer
}

func NewTaskScheduler() *TaskScheduler {
	return &TaskScheduler{tasks: make(map[string]map[uint64]*time.Timer)}
}

// Schedule runs fn after the delay unless key is cancelled first.
func (s *TaskScheduler) Schedule(key string, after time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	if s.tasks[key] == nil {
		s.tasks[key] = make(map[uint64]*time.Timer)
	}
	s.tasks[key][id] = time.AfterFunc(after, func() {
		if s.take(key, id) {
			fn()
		}
	})
}

// take removes a fired task and reports whether it was still pending.
func (s *TaskScheduler) take(key string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.tasks[key]
	if !ok {
		return false
	}
	if _, ok := group[id]; !ok {
		return false
	}
	delete(group, id)
	if len(group) == 0 {
		delete(s.tasks, key)
	}
	return true
}

// Cancel stops every pending task for key and returns how many were dropped.
func (s *TaskScheduler) Cancel(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := s.tasks[key]
	for _, timer := range group {
		timer.Stop()
	}
	delete(s.tasks, key)
	return len(group)
}

// CancelAll drops every pending task.
func (s *TaskScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, group := range s.tasks {
		for _, timer := range group {
			timer.Stop()
		}
		delete(s.tasks, key)
	}
}

func (s *TaskScheduler) Pending(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks[key])
}
