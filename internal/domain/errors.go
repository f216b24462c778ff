package domain

import "errors"

var (
	ErrUserExists       = errors.New("username already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrMeetingEnded     = errors.New("meeting has ended")
	ErrStoreUnavailable = errors.New("store unavailable")
)
