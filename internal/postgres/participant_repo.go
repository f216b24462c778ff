package postgres

import (
	"context"

	"github.com/meetlink/signaling-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepository struct {
	db *pgxpool.Pool
}

func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Upsert records membership. Repeat joins by the same identity keep a single
// row per (meeting_id, user_id).
func (r *ParticipantRepository) Upsert(ctx context.Context, p *domain.Participant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO meeting_participants (meeting_id, user_id, is_host)
		VALUES ($1, $2, $3)
		ON CONFLICT (meeting_id, user_id) DO NOTHING
	`, p.MeetingID, p.UserID, p.IsHost)
	return err
}

func (r *ParticipantRepository) Delete(ctx context.Context, meetingID, userID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM meeting_participants WHERE meeting_id=$1 AND user_id=$2`,
		meetingID, userID)
	return err
}

func (r *ParticipantRepository) Exists(ctx context.Context, meetingID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM meeting_participants WHERE meeting_id=$1 AND user_id=$2)`,
		meetingID, userID).Scan(&exists)
	return exists, err
}

// ListByMeeting returns participants joined with their user rows, for the
// REST participants listing.
func (r *ParticipantRepository) ListByMeeting(ctx context.Context, meetingID string) ([]domain.ParticipantInfo, error) {
	const q = `
SELECT p.user_id,
       u.username,
       u.display_name,
       p.is_host,
       p.joined_at
FROM meeting_participants AS p
JOIN users AS u ON u.id = p.user_id
WHERE p.meeting_id = $1
ORDER BY p.joined_at ASC`

	rows, err := r.db.Query(ctx, q, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ParticipantInfo, 0, 16)
	for rows.Next() {
		var row domain.ParticipantInfo
		if err := rows.Scan(
			&row.UserID,
			&row.Username,
			&row.DisplayName,
			&row.IsHost,
			&row.JoinedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
