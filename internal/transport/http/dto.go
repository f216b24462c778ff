package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=1,max=64"`
	DisplayName string `json:"displayName" validate:"omitempty,max=128"`
}

type CreateUserResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type UserResponse struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateMeetingRequest struct {
	Name   string `json:"name" validate:"omitempty,max=128"`
	HostID string `json:"hostId" validate:"required"`
}

type CreateMeetingResponse struct {
	MeetingID string `json:"meetingId"`
	Name      string `json:"name"`
}

type JoinMeetingRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type JoinMeetingResponse struct {
	Success bool `json:"success"`
}

type MeetingItem struct {
	MeetingID string    `json:"meetingId"`
	Name      string    `json:"name"`
	HostID    string    `json:"hostId"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

type MeetingsListResponse struct {
	Items      []MeetingItem `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type ParticipantItem struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	IsHost      bool   `json:"isHost"`
	JoinedAt    string `json:"joinedAt"`
}
