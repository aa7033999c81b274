// Package event carries normalized payment events to in-process listeners.
//
// Subscriptions are owned resources: each checkout attempt (or waiting
// request) takes one and releases it when the attempt ends. There is no
// process-wide handler slot to clobber, so two concurrent checkouts cannot
// steal each other's notifications.
package event

import (
	"sync"

	"merchant-yapp/internal/dto"
)

type Subscription struct {
	// C delivers events for the subscribed order id. Buffered so a slow
	// reader cannot stall the normalizer.
	C <-chan dto.PaymentEvent

	bus     *Bus
	orderID string
	id      uint64
	once    sync.Once
}

// Release detaches the subscription. Safe to call more than once.
func (s *Subscription) Release() {
	s.once.Do(func() {
		s.bus.unsubscribe(s.orderID, s.id)
	})
}

type Bus struct {
	mu   sync.Mutex
	subs map[string]map[uint64]chan dto.PaymentEvent
	next uint64
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[uint64]chan dto.PaymentEvent)}
}

func (b *Bus) Subscribe(orderID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	ch := make(chan dto.PaymentEvent, 4)
	if b.subs[orderID] == nil {
		b.subs[orderID] = make(map[uint64]chan dto.PaymentEvent)
	}
	b.subs[orderID][b.next] = ch
	return &Subscription{C: ch, bus: b, orderID: orderID, id: b.next}
}

// Publish fans the event out to every subscriber of its order id.
// Sends never block: a full buffer drops the oldest delivery for that
// subscriber, who will re-check the store anyway.
func (b *Bus) Publish(evt dto.PaymentEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[evt.OrderID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (b *Bus) unsubscribe(orderID string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.subs[orderID]; m != nil {
		delete(m, id)
		if len(m) == 0 {
			delete(b.subs, orderID)
		}
	}
}
