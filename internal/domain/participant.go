package domain

import "time"

// Participant is the durable mirror of meeting membership. Live relay
// decisions are made against the in-memory registry, not this record.
type Participant struct {
	MeetingID string    `db:"meeting_id"`
	UserID    string    `db:"user_id"`
	IsHost    bool      `db:"is_host"`
	JoinedAt  time.Time `db:"joined_at"`
}

// ParticipantInfo is a participant joined with its user row.
type ParticipantInfo struct {
	UserID      string
	Username    string
	DisplayName string
	IsHost      bool
	JoinedAt    time.Time
}
