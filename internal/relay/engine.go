package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ErrRoomNotFound is returned by SessionStore.FindRoomHost when no meeting
// record exists for the room.
var ErrRoomNotFound = errors.New("room not found")

// SessionStore is the engine's view of the durable meeting store. Failures
// during cleanup are logged and ignored (the registry stays authoritative
// for live relay); failures while verifying a host block the operation.
type SessionStore interface {
	FindRoomHost(ctx context.Context, roomID string) (string, error)
	MarkRoomInactive(ctx context.Context, roomID string) error
	UpsertParticipant(ctx context.Context, roomID, userID string, isHost bool) error
	DeleteParticipant(ctx context.Context, roomID, userID string) error
}

// Engine drives the per-connection lifecycle (connect, join, leave,
// disconnect) and decides who receives each relayed message.
type Engine struct {
	registry *Registry
	dispatch *Dispatcher
	store    SessionStore
}

func NewEngine(registry *Registry, dispatch *Dispatcher, store SessionStore) *Engine {
	return &Engine{
		registry: registry,
		dispatch: dispatch,
		store:    store,
	}
}

// Connect registers a fresh connection and acknowledges it. A duplicate
// connection ID is a transport bug, never client input, so it is returned
// rather than relayed.
func (e *Engine) Connect(connID string, s Sender) error {
	if err := e.registry.Register(connID); err != nil {
		return fmt.Errorf("register %s: %w", connID, err)
	}
	e.dispatch.Attach(connID, s)
	e.dispatch.SendTo(connID, Message{
		Kind:    EventConnected,
		Payload: ConnectedPayload{ConnectionID: connID},
	})
	return nil
}

// Disconnect runs the same cleanup as an explicit leave, derived from
// whatever the registry holds for the connection. A connection that never
// joined produces no broadcast and no store mutation.
func (e *Engine) Disconnect(ctx context.Context, connID string) {
	e.dispatch.Detach(connID)
	e.cleanup(ctx, connID)
}

// HandleEvent processes one client event. Each event is isolated: a failure
// (malformed payload, panic in a handler) reaches only the originating
// connection as an error event and never the rest of the room.
func (e *Engine) HandleEvent(ctx context.Context, connID string, ev ClientEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("relay: event handler panic", "conn", connID, "type", ev.Kind, "panic", r)
			e.dispatch.SendTo(connID, errorMessage("internal error"))
		}
	}()

	switch ev.Kind {
	case EventJoin:
		e.handleJoin(ctx, connID, ev.Payload)
	case EventLeave:
		e.handleLeave(ctx, connID, ev.Payload)
	case EventOffer, EventAnswer, EventCandidate:
		e.handleSignal(connID, ev.Kind, ev.Payload)
	case EventMediaStatus:
		e.handleMediaStatus(connID, ev.Payload)
	case EventSendChat:
		e.handleChat(connID, ev.Payload)
	case EventEndMeeting:
		e.handleEndMeeting(ctx, connID, ev.Payload)
	default:
		slog.Debug("relay: unknown event type", "conn", connID, "type", ev.Kind)
		e.dispatch.SendTo(connID, errorMessage("unknown event type: "+ev.Kind))
	}
}

func (e *Engine) handleJoin(ctx context.Context, connID string, raw json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		e.dispatch.SendTo(connID, errorMessage("invalid join payload"))
		return
	}
	room := strings.TrimSpace(p.Room)
	userID := strings.TrimSpace(p.UserID)
	if room == "" || userID == "" {
		e.dispatch.SendTo(connID, errorMessage("join requires room and userId"))
		return
	}

	prevRoom, prevUser, _ := e.registry.Membership(connID)
	if err := e.registry.SetMembership(connID, room, userID); err != nil {
		e.dispatch.SendTo(connID, errorMessage("connection is not registered"))
		return
	}

	// Joining another room while still in one is an implicit switch: the old
	// room sees the peer leave before the new room sees it join.
	if prevRoom != "" && prevRoom != room {
		e.dispatch.SendToRoom(prevRoom, Message{
			Kind:    EventUserLeft,
			Payload: PeerEventPayload{UserID: prevUser, ConnectionID: connID},
		}, connID)
		if err := e.store.DeleteParticipant(ctx, prevRoom, prevUser); err != nil {
			slog.Warn("relay: participant record delete failed", "room", prevRoom, "user", prevUser, "err", err)
		}
	}

	// Snapshot before the joined-broadcast so nobody double-counts: the
	// joiner learns about everyone present, everyone present learns about
	// the joiner, exactly once each.
	occupants := e.registry.ListRoom(room, connID)
	items := lo.Map(occupants, func(o Occupant, _ int) ParticipantItem {
		return ParticipantItem{UserID: o.ParticipantID, ConnectionID: o.ConnectionID}
	})
	e.dispatch.SendTo(connID, Message{
		Kind:    EventExistingParticipants,
		Payload: ExistingParticipantsPayload{Participants: items},
	})
	e.dispatch.SendToRoom(room, Message{
		Kind:    EventUserJoined,
		Payload: PeerEventPayload{UserID: userID, ConnectionID: connID},
	}, connID)

	// Durable mirror of membership. Best-effort: the registry, not the
	// store, answers "who is reachable right now".
	isHost := false
	if hostID, err := e.store.FindRoomHost(ctx, room); err == nil {
		isHost = hostID == userID
	} else if !errors.Is(err, ErrRoomNotFound) {
		slog.Debug("relay: host lookup failed on join", "room", room, "err", err)
	}
	if err := e.store.UpsertParticipant(ctx, room, userID, isHost); err != nil {
		slog.Warn("relay: participant record upsert failed", "room", room, "user", userID, "err", err)
	}
}

func (e *Engine) handleLeave(ctx context.Context, connID string, raw json.RawMessage) {
	var p LeavePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		e.dispatch.SendTo(connID, errorMessage("invalid leave payload"))
		return
	}

	// Leaving a room the connection is not in is a no-op, not an error.
	room, _, ok := e.registry.Membership(connID)
	if !ok || room == "" || room != strings.TrimSpace(p.Room) {
		return
	}
	e.cleanup(ctx, connID)
}

// cleanup is the single exit path shared by leave and disconnect.
func (e *Engine) cleanup(ctx context.Context, connID string) {
	room, userID, ok := e.registry.Remove(connID)
	if !ok || room == "" {
		return
	}
	e.dispatch.SendToRoom(room, Message{
		Kind:    EventUserLeft,
		Payload: PeerEventPayload{UserID: userID, ConnectionID: connID},
	}, connID)
	if err := e.store.DeleteParticipant(ctx, room, userID); err != nil {
		slog.Warn("relay: participant record delete failed", "room", room, "user", userID, "err", err)
	}
}

// handleSignal relays a negotiation message to one target connection. The
// peer may already be gone; that is expected churn, so a missing target is
// dropped without an error back to the sender.
func (e *Engine) handleSignal(connID, kind string, raw json.RawMessage) {
	var p SignalPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		e.dispatch.SendTo(connID, errorMessage("invalid "+kind+" payload"))
		return
	}
	if p.TargetConnectionID == "" {
		slog.Debug("relay: signal without target dropped", "conn", connID, "type", kind)
		return
	}
	if _, _, ok := e.registry.Membership(p.TargetConnectionID); !ok {
		slog.Debug("relay: signal target gone", "conn", connID, "target", p.TargetConnectionID, "type", kind)
		return
	}
	e.dispatch.SendTo(p.TargetConnectionID, Message{
		Kind: kind,
		Payload: SignalRelayPayload{
			Payload:          p.Payload,
			FromConnectionID: connID,
			FromUserID:       p.FromUserID,
			CorrelationID:    p.CorrelationID,
		},
	})
}

func (e *Engine) handleMediaStatus(connID string, raw json.RawMessage) {
	var p MediaStatusPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		e.dispatch.SendTo(connID, errorMessage("invalid media-status-update payload"))
		return
	}
	if p.Room == "" {
		slog.Debug("relay: media status without room dropped", "conn", connID)
		return
	}
	// Partial updates are forwarded as supplied; absent fields stay absent.
	e.dispatch.SendToRoom(p.Room, Message{
		Kind: EventMediaStatusChanged,
		Payload: MediaStatusChangedPayload{
			UserID:          p.UserID,
			ConnectionID:    connID,
			IsMuted:         p.IsMuted,
			IsVideoOff:      p.IsVideoOff,
			IsScreenSharing: p.IsScreenSharing,
		},
	}, connID)
}

func (e *Engine) handleChat(connID string, raw json.RawMessage) {
	var p ChatPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		e.dispatch.SendTo(connID, errorMessage("invalid chat payload"))
		return
	}
	if p.Room == "" {
		slog.Debug("relay: chat without room dropped", "conn", connID)
		return
	}
	text := strings.TrimSpace(p.Message)
	if text == "" {
		e.dispatch.SendTo(connID, errorMessage("chat message must not be empty"))
		return
	}
	ts := p.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	// Chat goes to everyone, sender included, so all clients render the
	// same transcript.
	e.dispatch.SendToRoom(p.Room, Message{
		Kind: EventChatMessage,
		Payload: ChatMessagePayload{
			ID:        p.ID,
			UserID:    p.UserID,
			Username:  p.Username,
			Message:   text,
			Timestamp: ts,
		},
	}, "")
}

func (e *Engine) handleEndMeeting(ctx context.Context, connID string, raw json.RawMessage) {
	var p EndMeetingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		e.dispatch.SendTo(connID, errorMessage("invalid end-meeting payload"))
		return
	}
	if p.Room == "" || p.UserID == "" {
		e.dispatch.SendTo(connID, errorMessage("end-meeting requires room and userId"))
		return
	}

	// Host identity must be confirmed against the store; a store failure
	// here blocks the termination instead of degrading.
	hostID, err := e.store.FindRoomHost(ctx, p.Room)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			e.dispatch.SendTo(connID, errorMessage("meeting not found"))
			return
		}
		slog.Error("relay: host lookup failed", "room", p.Room, "err", err)
		e.dispatch.SendTo(connID, errorMessage("unable to verify meeting host"))
		return
	}
	if hostID != p.UserID {
		e.dispatch.SendTo(connID, errorMessage("only the host can end the meeting"))
		return
	}
	if err := e.store.MarkRoomInactive(ctx, p.Room); err != nil {
		slog.Error("relay: mark inactive failed", "room", p.Room, "err", err)
		e.dispatch.SendTo(connID, errorMessage("unable to end the meeting"))
		return
	}
	// Everyone, sender included: the ending request may arrive over a
	// different connection than the host's media session.
	e.dispatch.SendToRoom(p.Room, Message{
		Kind:    EventMeetingEnded,
		Payload: MeetingEndedPayload{RoomID: p.Room},
	}, "")
}
