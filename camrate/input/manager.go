package input

import (
	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
)

// Manager dispatches actions to registered callbacks.
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
}

func NewManager() *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger runs the callbacks registered for act and evt. It reports whether
// any callback ran.
func (m *Manager) Trigger(act action.Action, evt event.Type) bool {
	callbacks := m.handlers[act][evt]
	for _, callback := range callbacks {
		callback()
	}
	return len(callbacks) > 0
}
