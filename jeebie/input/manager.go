package input

import (
	"time"

	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// ButtonSink receives Game Boy button transitions.
type ButtonSink interface {
	Press(act action.Action)
	Release(act action.Action)
}

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]time.Time
	buttons       ButtonSink
	now           func() time.Time
}

// NewManager creates a manager. Game inputs go to buttons when it is not nil.
func NewManager(buttons ButtonSink) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]time.Time),
		buttons:       buttons,
		now:           time.Now,
	}
}

// SetButtonSink replaces the receiver of game inputs, e.g. after a reload.
func (m *Manager) SetButtonSink(buttons ButtonSink) {
	m.buttons = buttons
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type. It reports whether the
// event was delivered.
func (m *Manager) Trigger(act action.Action, evt event.Type) bool {
	if action.IsGameInput(act) {
		if m.buttons != nil {
			switch evt {
			case event.Press:
				m.buttons.Press(act)
			case event.Release:
				m.buttons.Release(act)
			}
		}
		m.dispatch(act, evt)
		return true
	}

	// UI presses are debounced, a held key repeats them in most terminals
	if evt == event.Press {
		now := m.now()
		if last, ok := m.lastTriggered[act]; ok && now.Sub(last) < debounceDuration {
			return false
		}
		m.lastTriggered[act] = now
	}

	m.dispatch(act, evt)
	return true
}

func (m *Manager) dispatch(act action.Action, evt event.Type) {
	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
