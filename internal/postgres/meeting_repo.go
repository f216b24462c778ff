package postgres

import (
	"context"

	"github.com/meetlink/signaling-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MeetingRepository struct {
	db *pgxpool.Pool
}

func NewMeetingRepository(db *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	query := `
		INSERT INTO meetings (name, host_id, active)
		VALUES ($1, $2, TRUE)
		RETURNING id, active, created_at`
	err := r.db.QueryRow(ctx, query, m.Name, m.HostID).Scan(&m.ID, &m.Active, &m.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *MeetingRepository) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	var m domain.Meeting
	query := `SELECT id, name, host_id, active, created_at FROM meetings WHERE id=$1`
	err := r.db.QueryRow(ctx, query, id).
		Scan(&m.ID, &m.Name, &m.HostID, &m.Active, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MeetingRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE meetings SET active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepository) List(ctx context.Context, limit int, cursorStr string) ([]domain.Meeting, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT id, name, host_id, active, created_at
		FROM meetings
		WHERE active
		  AND ($1::timestamptz IS NULL OR created_at < $1
		       OR (created_at = $1 AND id < $2))
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var meetings []domain.Meeting
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(&m.ID, &m.Name, &m.HostID, &m.Active, &m.CreatedAt); err != nil {
			return nil, "", err
		}
		meetings = append(meetings, m)
	}

	var nextCursor string
	if len(meetings) == limit {
		last := meetings[len(meetings)-1]
		nextCursor, _ = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return meetings, nextCursor, nil
}
