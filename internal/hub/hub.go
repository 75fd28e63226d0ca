package hub

import (
	"sync"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
)

const subscriberBuffer = 64

// Hub fans job events out to all current subscribers. Publish never blocks:
// a subscriber that falls more than subscriberBuffer events behind loses
// the oldest ones. Clients reconcile via the job listing endpoint.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

func New() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

type Subscriber struct {
	hub    *Hub
	ch     chan entity.Event
	closed bool
}

// C is the receive endpoint. It is closed when the subscriber is closed.
func (s *Subscriber) C() <-chan entity.Event { return s.ch }

// Close detaches the subscriber. Safe to call more than once; other
// subscribers are unaffected.
func (s *Subscriber) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(s.hub.subs, s)
	close(s.ch)
}

// Subscribe registers a new endpoint receiving all events published after
// this call.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{hub: h, ch: make(chan entity.Event, subscriberBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Publish delivers ev to every subscriber, dropping the oldest buffered
// event for any subscriber whose buffer is full.
func (h *Hub) Publish(ev entity.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- ev:
			default:
			}
		}
	}
}
