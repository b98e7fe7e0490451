// Package bus fans domain change events out to subscribers.
//
// Subscribers register for one domain or for the "all" wildcard. Notify calls the domain's
// subscribers in registration order and then the wildcard subscribers in registration order.
// A callback registered on both a domain and "all" therefore runs twice for that domain's
// events; the bus does not de-duplicate.
package bus

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// ChannelBufferSize is the default buffer for channel subscriptions
const ChannelBufferSize = 16

// Event announces that a domain's summary changed
type Event struct {
	Domain  quality.Domain `json:"domain"`
	At      time.Time      `json:"at"`
	Records int            `json:"records"`
	Summary any            `json:"summary,omitempty"`
}

// Callback receives events. It runs on the notifying goroutine and should return quickly.
type Callback func(Event)

// Subscription identifies one registration; pass it to Unsubscribe
type Subscription struct {
	ID     uuid.UUID
	Domain quality.Domain
}

type subscriber struct {
	id uuid.UUID
	cb Callback
}

// Bus is a typed event bus keyed by domain
type Bus struct {
	mu     sync.RWMutex
	subs   map[quality.Domain][]subscriber
	logger *zap.SugaredLogger
}

// New creates an empty bus
func New(log *zap.SugaredLogger) *Bus {
	return &Bus{
		subs:   make(map[quality.Domain][]subscriber),
		logger: logger.WithSymbol(log, logger.SymBus).Named("bus"),
	}
}

// Subscribe registers cb for domain (or quality.DomainAll)
func (b *Bus) Subscribe(domain quality.Domain, cb Callback) (Subscription, error) {
	if _, err := quality.ParseDomain(string(domain), true); err != nil {
		return Subscription{}, errors.WithHint(errors.Wrap(err, "subscribe"),
			fmt.Sprintf("valid domains: %v and %q", quality.Domains, quality.DomainAll))
	}
	if cb == nil {
		return Subscription{}, errors.Wrap(errors.ErrInvalidRequest, "nil callback")
	}
	sub := Subscription{ID: uuid.New(), Domain: domain}

	b.mu.Lock()
	b.subs[domain] = append(b.subs[domain], subscriber{id: sub.ID, cb: cb})
	b.mu.Unlock()
	return sub, nil
}

// SubscribeChan delivers events on a buffered channel. Events are dropped, not queued,
// when the buffer is full. The channel is never closed.
func (b *Bus) SubscribeChan(domain quality.Domain, buffer int) (Subscription, <-chan Event, error) {
	if buffer <= 0 {
		buffer = ChannelBufferSize
	}
	ch := make(chan Event, buffer)
	sub, err := b.Subscribe(domain, func(ev Event) {
		select {
		case ch <- ev:
		default:
			b.logger.Debugw("Subscriber channel full, dropping event", logger.FieldDomain, ev.Domain)
		}
	})
	if err != nil {
		return Subscription{}, nil, err
	}
	return sub, ch, nil
}

// Unsubscribe removes a registration. It reports whether the subscription was found.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.Domain]
	for i, s := range list {
		if s.id == sub.ID {
			b.subs[sub.Domain] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Notify delivers ev to ev.Domain's subscribers, then to wildcard subscribers.
// A panicking callback is logged and skipped. Returns the number of callbacks invoked.
func (b *Bus) Notify(ev Event) int {
	b.mu.RLock()
	targets := make([]subscriber, 0, len(b.subs[ev.Domain])+len(b.subs[quality.DomainAll]))
	targets = append(targets, b.subs[ev.Domain]...)
	if ev.Domain != quality.DomainAll {
		targets = append(targets, b.subs[quality.DomainAll]...)
	}
	b.mu.RUnlock()

	for _, s := range targets {
		b.invoke(s, ev)
	}
	return len(targets)
}

func (b *Bus) invoke(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorw("Subscriber panicked",
				logger.FieldDomain, ev.Domain,
				"subscription", s.id.String(),
				"panic", r)
		}
	}()
	s.cb(ev)
}

// Counts returns the number of subscribers per channel, wildcard included
func (b *Bus) Counts() map[quality.Domain]int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[quality.Domain]int, len(b.subs))
	for d, list := range b.subs {
		if len(list) > 0 {
			out[d] = len(list)
		}
	}
	return out
}
