package event

import (
	"sync"

	"go.uber.org/zap"
)

type Listener struct {
	eventType Type
	channel   chan interface{}
}

type Manager struct {
	mu        sync.RWMutex
	listeners []*Listener
}

func NewManager() *Manager {
	return &Manager{}
}

// AddListener registers a callback for an event type. Callbacks run on their
// own goroutine behind a buffered channel, so emitters only wait when an
// observer falls a full buffer behind.
func (m *Manager) AddListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := &Listener{
		eventType: eventType,
		channel:   make(chan interface{}, 16),
	}

	m.mu.Lock()
	m.listeners = append(m.listeners, listener)
	m.mu.Unlock()

	go func() {
		for msg := range listener.channel {
			callback(msg)
		}
	}()
}

// Emit fans the message out to every listener of the type. Emission happens
// only after the originating state change has committed.
func (m *Manager) Emit(eventType Type, msg interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, listener := range m.listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			listener.channel <- msg
		}
	}
}
