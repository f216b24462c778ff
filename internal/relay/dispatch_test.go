package relay

import (
	"errors"
	"sync"
	"testing"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (s *fakeSender) Send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *fakeSender) sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func TestDispatcher_SendToMissingConnection(t *testing.T) {
	d := NewDispatcher(NewRegistry())

	// must not panic or error out
	d.SendTo("nobody", Message{Kind: EventConnected})
}

func TestDispatcher_SendToRoomExcluding(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	senders := map[string]*fakeSender{}
	for _, conn := range []string{"a", "b", "c"} {
		if err := reg.Register(conn); err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := reg.SetMembership(conn, "R1", "u-"+conn); err != nil {
			t.Fatalf("set membership: %v", err)
		}
		s := &fakeSender{}
		senders[conn] = s
		d.Attach(conn, s)
	}

	d.SendToRoom("R1", Message{Kind: EventChatMessage}, "b")

	if n := len(senders["a"].sent()); n != 1 {
		t.Fatalf("a should receive 1 message, got %d", n)
	}
	if n := len(senders["b"].sent()); n != 0 {
		t.Fatalf("excluded b should receive nothing, got %d", n)
	}
	if n := len(senders["c"].sent()); n != 1 {
		t.Fatalf("c should receive 1 message, got %d", n)
	}
}

func TestDispatcher_SendErrorIsSwallowed(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg)

	d.Attach("a", &fakeSender{err: errors.New("pipe broken")})
	d.SendTo("a", Message{Kind: EventUserJoined})

	// detached connections in a room are dropped silently
	if err := reg.Register("b"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.SetMembership("b", "R1", "u2"); err != nil {
		t.Fatalf("set membership: %v", err)
	}
	d.SendToRoom("R1", Message{Kind: EventUserJoined}, "")
}
