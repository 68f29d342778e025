package tick

import "sync"

// Broadcaster is a Source that fires its subscribers in subscription order.
//
// The zero value is ready to use.
type Broadcaster struct {
	mu        sync.Mutex
	listeners []Listener
	index     map[Listener]struct{}
	ticks     uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe adds l to the set. Listeners must be comparable (pointers in
// practice); a listener already in the set is left where it is.
func (b *Broadcaster) Subscribe(l Listener) {
	if l == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.index == nil {
		b.index = make(map[Listener]struct{})
	}
	if _, ok := b.index[l]; ok {
		return
	}
	b.index[l] = struct{}{}
	b.listeners = append(b.listeners, l)
}

// Unsubscribe removes l from the set, if present.
func (b *Broadcaster) Unsubscribe(l Listener) {
	if l == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.index[l]; !ok {
		return
	}
	delete(b.index, l)

	// copy instead of shifting in place so a snapshot held by Fire stays intact
	next := make([]Listener, 0, len(b.listeners)-1)
	for _, existing := range b.listeners {
		if existing != l {
			next = append(next, existing)
		}
	}
	b.listeners = next
}

// Fire delivers one tick to every current subscriber. The subscriber list is
// captured before the first call, so listeners may subscribe or unsubscribe
// (themselves included) from inside OnTick; changes apply from the next tick.
func (b *Broadcaster) Fire() {
	b.mu.Lock()
	snapshot := b.listeners
	b.ticks++
	b.mu.Unlock()

	for _, l := range snapshot {
		l.OnTick()
	}
}

// Has reports whether l is subscribed.
func (b *Broadcaster) Has(l Listener) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.index[l]
	return ok
}

// Len returns the number of subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Ticks returns how many times Fire has been called.
func (b *Broadcaster) Ticks() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ticks
}

var _ Source = (*Broadcaster)(nil)
