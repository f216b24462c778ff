package relay

import (
	"errors"
	"sync"
)

var (
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrUnknownConnection   = errors.New("connection not registered")
)

// Occupant is one live connection's membership as seen by the registry.
type Occupant struct {
	ConnectionID  string
	ParticipantID string
}

type entry struct {
	roomID        string
	participantID string
}

// Registry owns the connectionID -> membership mapping. It is the single
// shared mutable resource of the relay core; all mutations go through its
// lock and no I/O happens while the lock is held.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]entry)}
}

// Register creates an empty entry for a freshly connected transport.
// A duplicate ID means the transport handed out the same ID twice; that is
// a logic error, not a user-facing failure.
func (r *Registry) Register(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[connID]; ok {
		return ErrDuplicateConnection
	}
	r.conns[connID] = entry{}
	return nil
}

// SetMembership records the room/participant a connection joined, replacing
// any previous membership in place.
func (r *Registry) SetMembership(connID, roomID, participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[connID]; !ok {
		return ErrUnknownConnection
	}
	r.conns[connID] = entry{roomID: roomID, participantID: participantID}
	return nil
}

// Membership returns the current room/participant for a connection without
// removing it.
func (r *Registry) Membership(connID string) (roomID, participantID string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.conns[connID]
	return e.roomID, e.participantID, ok
}

// Remove deletes the entry and reports what it held. Both the explicit leave
// and the disconnect paths clean up through here so there is exactly one
// read-then-delete.
func (r *Registry) Remove(connID string) (roomID, participantID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connID]
	if !ok {
		return "", "", false
	}
	delete(r.conns, connID)
	return e.roomID, e.participantID, true
}

// ListRoom materializes a snapshot of the room's occupants, optionally
// excluding one connection (the usual broadcast-excluding-sender case).
// Order is unspecified and the snapshot is valid only at the instant taken.
func (r *Registry) ListRoom(roomID, excludeConnID string) []Occupant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if roomID == "" {
		return nil
	}
	out := make([]Occupant, 0, 8)
	for id, e := range r.conns {
		if e.roomID != roomID || id == excludeConnID {
			continue
		}
		out = append(out, Occupant{ConnectionID: id, ParticipantID: e.participantID})
	}
	return out
}
