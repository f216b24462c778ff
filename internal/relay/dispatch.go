package relay

import (
	"log/slog"
	"sync"
)

// Sender is one live connection's write side. The transport owns delivery;
// the engine never waits on it beyond the Send call itself.
type Sender interface {
	Send(msg Message) error
}

// Dispatcher delivers relay decisions to live connections. Delivery is
// best-effort: a connection that is gone by the time a message is sent is
// dropped, not surfaced as an engine error.
type Dispatcher struct {
	mu       sync.RWMutex
	conns    map[string]Sender
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		conns:    make(map[string]Sender),
		registry: registry,
	}
}

func (d *Dispatcher) Attach(connID string, s Sender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[connID] = s
}

func (d *Dispatcher) Detach(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.conns, connID)
}

// SendTo delivers to a single connection. Unknown connections are dropped.
func (d *Dispatcher) SendTo(connID string, msg Message) {
	d.mu.RLock()
	s, ok := d.conns[connID]
	d.mu.RUnlock()

	if !ok {
		slog.Debug("dispatch: connection gone", "conn", connID, "type", msg.Kind)
		return
	}
	if err := s.Send(msg); err != nil {
		slog.Debug("dispatch: send failed", "conn", connID, "type", msg.Kind, "err", err)
	}
}

// SendToRoom fans out to the room's current occupants, optionally excluding
// one connection. The target set is a registry snapshot taken before any
// send happens, so no send ever runs under the registry lock.
func (d *Dispatcher) SendToRoom(roomID string, msg Message, excludeConnID string) {
	for _, occ := range d.registry.ListRoom(roomID, excludeConnID) {
		d.SendTo(occ.ConnectionID, msg)
	}
}
