package core

import "sync"

// Event is a record published on a named channel.
type Event struct {
	Channel string
	Payload any
}

// Bus is a minimal in-process pub/sub keyed by channel name. Publishing is
// non-blocking: slow subscribers lose events rather than stalling the
// publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]chan Event),
	}
}

// Subscribe registers interest in a channel and returns a receive channel
// buffered for bursty publishers.
func (b *Bus) Subscribe(channel string) <-chan Event {
	ch := make(chan Event, 100)

	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], ch)
	b.mu.Unlock()

	return ch
}

// Publish delivers payload to every subscriber of channel. It never blocks
// and never fails; the error return satisfies scanner.Publisher.
func (b *Bus) Publish(channel string, payload any) error {
	b.mu.RLock()
	subs := b.subs[channel]
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- Event{Channel: channel, Payload: payload}:
		default:
			// Subscriber buffer full, drop event
		}
	}
	return nil
}
