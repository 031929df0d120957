// Package broadcast implements the in-process publish/subscribe registry
// used for realtime delivery. No persistence, no replay: an event reaches
// the subscribers that are live at publish time and nobody else.
package broadcast

import (
	"log"
	"sync"
)

const subscriberBuffer = 64

type subscriber struct {
	ch chan Event
}

type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers one consumer for every given channel key and
// returns a single event stream plus a cancel func. After cancel the
// stream is closed and no further events arrive.
func (h *Hub) Subscribe(keys ...string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	for _, key := range keys {
		if h.subs[key] == nil {
			h.subs[key] = make(map[*subscriber]struct{})
		}
		h.subs[key][sub] = struct{}{}
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			for _, key := range keys {
				delete(h.subs[key], sub)
				if len(h.subs[key]) == 0 {
					delete(h.subs, key)
				}
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers the event to every current subscriber of the key.
// Delivery is best-effort: a subscriber whose buffer is full is skipped
// so one slow consumer cannot stall the rest.
func (h *Hub) Publish(key string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[key] {
		select {
		case sub.ch <- event:
		default:
			log.Printf("[WARN] broadcast: dropping event on %s, subscriber too slow", key)
		}
	}
}

// SubscriberCount reports the live subscribers for a key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}
