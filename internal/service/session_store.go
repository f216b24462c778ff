package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meetlink/signaling-service/internal/domain"
	"github.com/meetlink/signaling-service/internal/postgres"
	"github.com/meetlink/signaling-service/internal/relay"
)

// SessionStore adapts the meeting/participant repositories to the relay
// engine's durable-store interface. Storage failures are reported as a
// generic unavailability so the engine can decide what is blocking.
type SessionStore struct {
	meetingRepo     *postgres.MeetingRepository
	participantRepo *postgres.ParticipantRepository
}

var _ relay.SessionStore = (*SessionStore)(nil)

func NewSessionStore(meetingRepo *postgres.MeetingRepository, participantRepo *postgres.ParticipantRepository) *SessionStore {
	return &SessionStore{
		meetingRepo:     meetingRepo,
		participantRepo: participantRepo,
	}
}

func (s *SessionStore) FindRoomHost(ctx context.Context, roomID string) (string, error) {
	m, err := s.meetingRepo.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			return "", relay.ErrRoomNotFound
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return m.HostID, nil
}

func (s *SessionStore) MarkRoomInactive(ctx context.Context, roomID string) error {
	if err := s.meetingRepo.SetActive(ctx, roomID, false); err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			return relay.ErrRoomNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SessionStore) UpsertParticipant(ctx context.Context, roomID, userID string, isHost bool) error {
	p := &domain.Participant{
		MeetingID: roomID,
		UserID:    userID,
		IsHost:    isHost,
		JoinedAt:  time.Now(),
	}
	if err := s.participantRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SessionStore) DeleteParticipant(ctx context.Context, roomID, userID string) error {
	if err := s.participantRepo.Delete(ctx, roomID, userID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
