package relay

import "encoding/json"

// Client-originated event kinds.
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventOffer       = "offer"
	EventAnswer      = "answer"
	EventCandidate   = "ice-candidate"
	EventMediaStatus = "media-status-update"
	EventSendChat    = "send-chat-message"
	EventEndMeeting  = "end-meeting"
)

// Server-originated event kinds.
const (
	EventConnected            = "connected"
	EventExistingParticipants = "existing-participants"
	EventUserJoined           = "user-joined"
	EventUserLeft             = "user-left"
	EventMediaStatusChanged   = "media-status-changed"
	EventChatMessage          = "chat-message"
	EventMeetingEnded         = "meeting-ended"
	EventError                = "error"
)

// ClientEvent is the transport-agnostic envelope for inbound events. The
// payload stays raw until the engine knows the kind.
type ClientEvent struct {
	Kind    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message is the outbound envelope.
type Message struct {
	Kind    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// --- inbound payloads ---

type JoinPayload struct {
	Room   string `json:"room"`
	UserID string `json:"userId"`
}

type LeavePayload struct {
	Room   string `json:"room"`
	UserID string `json:"userId"`
}

// SignalPayload carries a negotiation message (offer/answer/ice-candidate).
// Payload is an opaque blob relayed without interpretation; CorrelationID is
// sender-supplied so the recipient can match concurrent negotiations.
type SignalPayload struct {
	TargetConnectionID string          `json:"targetConnectionId"`
	Payload            json.RawMessage `json:"payload"`
	FromUserID         string          `json:"fromUserId"`
	CorrelationID      string          `json:"correlationId,omitempty"`
}

// MediaStatusPayload accepts partial updates; only the fields the client
// supplied are forwarded.
type MediaStatusPayload struct {
	Room            string `json:"room"`
	UserID          string `json:"userId"`
	IsMuted         *bool  `json:"isMuted,omitempty"`
	IsVideoOff      *bool  `json:"isVideoOff,omitempty"`
	IsScreenSharing *bool  `json:"isScreenSharing,omitempty"`
}

type ChatPayload struct {
	Room      string `json:"room"`
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type EndMeetingPayload struct {
	Room   string `json:"room"`
	UserID string `json:"userId"`
}

// --- outbound payloads ---

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

type ParticipantItem struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"connectionId"`
}

type ExistingParticipantsPayload struct {
	Participants []ParticipantItem `json:"participants"`
}

type PeerEventPayload struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"connectionId"`
}

// SignalRelayPayload is the outbound side of SignalPayload, tagged with the
// sender's connection and declared identity.
type SignalRelayPayload struct {
	Payload          json.RawMessage `json:"payload"`
	FromConnectionID string          `json:"fromConnectionId"`
	FromUserID       string          `json:"fromUserId"`
	CorrelationID    string          `json:"correlationId,omitempty"`
}

type MediaStatusChangedPayload struct {
	UserID          string `json:"userId"`
	ConnectionID    string `json:"connectionId"`
	IsMuted         *bool  `json:"isMuted,omitempty"`
	IsVideoOff      *bool  `json:"isVideoOff,omitempty"`
	IsScreenSharing *bool  `json:"isScreenSharing,omitempty"`
}

type ChatMessagePayload struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type MeetingEndedPayload struct {
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func errorMessage(text string) Message {
	return Message{Kind: EventError, Payload: ErrorPayload{Message: text}}
}
