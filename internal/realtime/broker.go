// Package realtime fans committed engine changes out to live subscribers of
// an event. Delivery is best effort; a slow subscriber misses changes rather
// than blocking the engine.
package realtime

import (
	"context"
	"sync"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
)

const subscriberBuffer = 16

// Broker publishes changes and hands out per-event subscriptions. The returned
// cancel func closes the channel.
type Broker interface {
	match.Publisher
	Subscribe(ctx context.Context, eventID string) (<-chan match.Change, func(), error)
}

// LocalBroker keeps subscriptions in process. Used when no Redis is configured.
type LocalBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan match.Change]struct{}
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[chan match.Change]struct{})}
}

func (b *LocalBroker) Publish(_ context.Context, c match.Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[c.EventID] {
		select {
		case ch <- c:
		default:
		}
	}
}

func (b *LocalBroker) Subscribe(_ context.Context, eventID string) (<-chan match.Change, func(), error) {
	ch := make(chan match.Change, subscriberBuffer)

	b.mu.Lock()
	if b.subs[eventID] == nil {
		b.subs[eventID] = make(map[chan match.Change]struct{})
	}
	b.subs[eventID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[eventID], ch)
			if len(b.subs[eventID]) == 0 {
				delete(b.subs, eventID)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Subscribers reports how many live subscriptions eventID has.
func (b *LocalBroker) Subscribers(eventID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[eventID])
}
