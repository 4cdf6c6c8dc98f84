package notify

import (
	"staybook/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bus fans events out to subscribers synchronously, in publish order.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
	log    *logger.Logger
	now    func() time.Time
}

type subscription struct {
	id int
	fn func(Event)
}

func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.Discard()
	}
	return &Bus{log: log, now: time.Now}
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish stamps e with an id and time when missing and delivers it to every
// current subscriber. A panicking subscriber does not stop delivery.
func (b *Bus) Publish(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = b.now()
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event subscriber panicked",
				"subscriber", s.id,
				"event_id", e.ID,
				"kind", string(e.Kind),
				"panic", r,
			)
		}
	}()
	s.fn(e)
}
