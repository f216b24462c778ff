package relay

import (
	"errors"
	"sort"
	"testing"
)

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("c1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register("c1"); !errors.Is(err, ErrDuplicateConnection) {
		t.Fatalf("expected ErrDuplicateConnection, got %v", err)
	}
}

func TestRegistry_SetMembershipUnknown(t *testing.T) {
	r := NewRegistry()

	if err := r.SetMembership("ghost", "R1", "u1"); !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("expected ErrUnknownConnection, got %v", err)
	}
}

func TestRegistry_SingleEntryPerConnection(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("c1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	// repeated joins replace membership in place
	for _, room := range []string{"R1", "R1", "R2"} {
		if err := r.SetMembership("c1", room, "u1"); err != nil {
			t.Fatalf("set membership: %v", err)
		}
	}

	if got := r.ListRoom("R1", ""); len(got) != 0 {
		t.Fatalf("R1 should be empty after switch, got %v", got)
	}
	got := r.ListRoom("R2", "")
	if len(got) != 1 || got[0].ConnectionID != "c1" || got[0].ParticipantID != "u1" {
		t.Fatalf("unexpected R2 occupants: %v", got)
	}
}

func TestRegistry_RemoveReportsMembership(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("c1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.SetMembership("c1", "R1", "u1"); err != nil {
		t.Fatalf("set membership: %v", err)
	}

	room, user, ok := r.Remove("c1")
	if !ok || room != "R1" || user != "u1" {
		t.Fatalf("remove: got (%q,%q,%v)", room, user, ok)
	}
	if _, _, ok := r.Remove("c1"); ok {
		t.Fatal("second remove should report not found")
	}
	if _, _, ok := r.Membership("c1"); ok {
		t.Fatal("membership should be gone after remove")
	}
}

func TestRegistry_ListRoomExcludes(t *testing.T) {
	r := NewRegistry()

	for i, conn := range []string{"a", "b", "c"} {
		if err := r.Register(conn); err != nil {
			t.Fatalf("register %s: %v", conn, err)
		}
		if err := r.SetMembership(conn, "R1", "u"+string(rune('1'+i))); err != nil {
			t.Fatalf("set membership %s: %v", conn, err)
		}
	}

	got := r.ListRoom("R1", "b")
	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, o.ConnectionID)
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
		t.Fatalf("expected [a c], got %v", ids)
	}

	if got := r.ListRoom("", ""); got != nil {
		t.Fatalf("empty room id should list nothing, got %v", got)
	}
}
