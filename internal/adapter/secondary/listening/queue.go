package listening

import (
	"sync"

	"creeper-desktop/internal/domain"
)

// ToggleQueue implements domain.ListeningNotifier by counting toggle
// intents until the frontend drains them.
type ToggleQueue struct {
	mu      sync.Mutex
	pending int
}

// NewToggleQueue creates an empty queue.
func NewToggleQueue() *ToggleQueue {
	return &ToggleQueue{}
}

// ToggleListening records one intent.
func (q *ToggleQueue) ToggleListening() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending++
}

// Drain returns and clears the number of pending intents.
func (q *ToggleQueue) Drain() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.pending
	q.pending = 0
	return n
}

var _ domain.ListeningNotifier = (*ToggleQueue)(nil)
