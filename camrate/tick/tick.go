// Package tick provides the per-frame signal that drives render gates.
//
// A Broadcaster is owned by whoever runs the master loop and passed to the
// components that need it; there is no process-wide instance.
package tick

// Listener receives one OnTick call per broadcast tick. OnTick runs
// synchronously on the broadcasting goroutine and must not block.
type Listener interface {
	OnTick()
}

// ListenerFunc adapts a function to Listener. Each ListenerFunc must be
// subscribed through a pointer so it has an identity in the subscriber set.
type ListenerFunc func()

func (f *ListenerFunc) OnTick() { (*f)() }

// Source is the subscribe side of a tick broadcaster. Subscriptions behave
// like set membership: subscribing twice keeps a single entry and
// unsubscribing a listener that is not subscribed does nothing.
type Source interface {
	Subscribe(l Listener)
	Unsubscribe(l Listener)
}
