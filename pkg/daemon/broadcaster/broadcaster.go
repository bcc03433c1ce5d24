// Package broadcaster manages subscribers and distributes system snapshots.
package broadcaster

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// Subscriber represents a client subscribed to snapshot updates.
type Subscriber struct {
	ID        string
	Snapshots chan *types.Snapshot
}

// Broadcaster manages subscribers and distributes snapshots.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	closed      bool
}

// New creates a new Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]*Subscriber),
	}
}

// Subscribe creates a new subscription for snapshot updates.
// It returns nil if the broadcaster has been closed.
func (b *Broadcaster) Subscribe() *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	sub := &Subscriber{
		ID:        uuid.New().String(),
		Snapshots: make(chan *types.Snapshot, 16),
	}

	b.subscribers[sub.ID] = sub
	return sub
}

// Unsubscribe removes a subscription.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		close(sub.Snapshots)
		delete(b.subscribers, id)
	}
}

// Publish sends a snapshot to all subscribers. Slow subscribers with a
// full channel miss the update rather than blocking the sampler.
func (b *Broadcaster) Publish(snap *types.Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subscribers {
		select {
		case sub.Snapshots <- snap:
		default:
			// Channel full, snapshot dropped
		}
	}
}

// Close closes the broadcaster and all subscriptions.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	for _, sub := range b.subscribers {
		close(sub.Snapshots)
	}
	b.subscribers = make(map[string]*Subscriber)
}

// SubscriberCount returns the number of active subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
