package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meetlink/signaling-service/internal/domain"
	"github.com/meetlink/signaling-service/internal/postgres"
)

type MeetingService struct {
	meetingRepo     *postgres.MeetingRepository
	participantRepo *postgres.ParticipantRepository
}

func NewMeetingService(meetingRepo *postgres.MeetingRepository, participantRepo *postgres.ParticipantRepository) *MeetingService {
	return &MeetingService{
		meetingRepo:     meetingRepo,
		participantRepo: participantRepo,
	}
}

// Create makes a new active meeting and records the host as its first
// participant.
func (s *MeetingService) Create(ctx context.Context, name, hostID string) (*domain.Meeting, error) {
	if name == "" {
		name = "New Meeting"
	}

	m := &domain.Meeting{
		Name:   name,
		HostID: hostID,
	}
	if err := s.meetingRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("meetingRepo.Create: %w", err)
	}

	p := &domain.Participant{
		MeetingID: m.ID,
		UserID:    hostID,
		IsHost:    true,
		JoinedAt:  time.Now(),
	}
	if err := s.participantRepo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("participantRepo.Upsert: %w", err)
	}

	return m, nil
}

func (s *MeetingService) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	return s.meetingRepo.Get(ctx, id)
}

func (s *MeetingService) List(ctx context.Context, limit int, cursor string) ([]domain.Meeting, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.meetingRepo.List(ctx, limit, cursor)
}

// Join records a user in a meeting. Repeat joins are accepted without
// duplicating the participant row.
func (s *MeetingService) Join(ctx context.Context, meetingID, userID string) error {
	m, err := s.meetingRepo.Get(ctx, meetingID)
	if err != nil {
		return err
	}
	if !m.Active {
		return domain.ErrMeetingEnded
	}

	p := &domain.Participant{
		MeetingID: meetingID,
		UserID:    userID,
		IsHost:    m.HostID == userID,
		JoinedAt:  time.Now(),
	}
	if err := s.participantRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("participantRepo.Upsert: %w", err)
	}
	return nil
}

func (s *MeetingService) ListParticipants(ctx context.Context, meetingID string) ([]domain.ParticipantInfo, error) {
	if _, err := s.meetingRepo.Get(ctx, meetingID); err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, err
	}
	return s.participantRepo.ListByMeeting(ctx, meetingID)
}
