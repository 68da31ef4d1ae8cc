package location

import (
	"context"
	"sync"

	"github.com/UnknownOlympus/compass/internal/models"
)

// StaticProvider serves a position set by configuration or pushed with Publish.
// Subscribers only ever see the newest pending update.
type StaticProvider struct {
	mu          sync.Mutex
	current     *models.Coordinates
	subscribers map[chan Update]struct{}
}

// NewStaticProvider creates a provider. A nil initial position means no fix yet.
func NewStaticProvider(initial *models.Coordinates) *StaticProvider {
	sp := &StaticProvider{subscribers: make(map[chan Update]struct{})}
	if initial != nil {
		current := *initial
		sp.current = &current
	}

	return sp
}

// Updates replays the current fix, if any, and then forwards every Publish and Fail.
func (sp *StaticProvider) Updates(ctx context.Context) <-chan Update {
	updates := make(chan Update, 1)

	sp.mu.Lock()
	if sp.current != nil {
		current := *sp.current
		updates <- Update{Location: &current}
	}
	sp.subscribers[updates] = struct{}{}
	sp.mu.Unlock()

	go func() {
		<-ctx.Done()

		sp.mu.Lock()
		delete(sp.subscribers, updates)
		close(updates)
		sp.mu.Unlock()
	}()

	return updates
}

// Publish records a new fix and notifies live subscribers.
func (sp *StaticProvider) Publish(at models.Coordinates) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	current := at
	sp.current = &current
	sp.broadcast(Update{Location: &current})
}

// Fail notifies live subscribers that positioning failed. The last fix is kept.
func (sp *StaticProvider) Fail(err error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	sp.broadcast(Update{Err: err})
}

// broadcast must be called with mu held.
func (sp *StaticProvider) broadcast(update Update) {
	for ch := range sp.subscribers {
		// Replace a pending update the subscriber has not read yet.
		select {
		case <-ch:
		default:
		}
		ch <- update
	}
}
