package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/m32jawad/Arena/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

const sessionColumns = `
	id, party_name, email, team_size, receive_offers, storyline_id, avatar_id,
	rfid_tag, session_minutes, points, status,
	created_at, approved_at, ended_at,
	started_at, last_started_at, total_elapsed_seconds, is_playing
`

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID, &s.PartyName, &s.Email, &s.TeamSize, &s.ReceiveOffers, &s.StorylineID, &s.AvatarID,
		&s.RFIDTag, &s.SessionMinutes, &s.Points, &s.Status,
		&s.CreatedAt, &s.ApprovedAt, &s.EndedAt,
		&s.StartedAt, &s.LastStartedAt, &s.TotalElapsedSeconds, &s.IsPlaying,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession inserts a new signup row (status pending unless preset).
func CreateSession(ctx context.Context, s *models.Session) error {
	if s.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate session id: %w", err)
		}
		s.ID = id
	}
	if s.Status == "" {
		s.Status = models.StatusPending
	}

	q := `
	INSERT INTO sessions (
		id, party_name, email, team_size, receive_offers, storyline_id, avatar_id,
		rfid_tag, session_minutes, points, status, approved_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING created_at
	`
	err := DB.QueryRow(ctx, q,
		s.ID, s.PartyName, s.Email, s.TeamSize, s.ReceiveOffers, s.StorylineID, s.AvatarID,
		s.RFIDTag, s.SessionMinutes, s.Points, s.Status, s.ApprovedAt,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession fetches a session by id.
func GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(DB.QueryRow(ctx, q, id))
}

// GetLatestSessionByTag returns the most recently created session holding the
// tag, regardless of status.
func GetLatestSessionByTag(ctx context.Context, tag string) (*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE rfid_tag = $1 ORDER BY created_at DESC LIMIT 1`
	return scanSession(DB.QueryRow(ctx, q, tag))
}

// GetApprovedSessionByTag returns the live session holding the tag, if any.
func GetApprovedSessionByTag(ctx context.Context, tag string) (*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE rfid_tag = $1 AND status = 'approved' LIMIT 1`
	return scanSession(DB.QueryRow(ctx, q, tag))
}

// ListSessionsByStatus returns all sessions in the given statuses, oldest
// first. View code re-sorts where a different order is wanted.
func ListSessionsByStatus(ctx context.Context, statuses ...string) ([]*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE status = ANY($1) ORDER BY created_at`
	rows, err := DB.Query(ctx, q, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateSession writes back every mutable field of a session.
func UpdateSession(ctx context.Context, s *models.Session) error {
	q := `
	UPDATE sessions SET
		party_name = $2, email = $3, team_size = $4, receive_offers = $5,
		storyline_id = $6, avatar_id = $7, rfid_tag = $8, session_minutes = $9,
		points = $10, status = $11, approved_at = $12, ended_at = $13,
		started_at = $14, last_started_at = $15,
		total_elapsed_seconds = $16, is_playing = $17
	WHERE id = $1
	`
	tag, err := DB.Exec(ctx, q,
		s.ID, s.PartyName, s.Email, s.TeamSize, s.ReceiveOffers,
		s.StorylineID, s.AvatarID, s.RFIDTag, s.SessionMinutes,
		s.Points, s.Status, s.ApprovedAt, s.EndedAt,
		s.StartedAt, s.LastStartedAt,
		s.TotalElapsedSeconds, s.IsPlaying,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApprovedTagInUse reports whether another live session already holds the tag.
func ApprovedTagInUse(ctx context.Context, tag string, exclude uuid.UUID) (bool, error) {
	var n int
	q := `SELECT count(*) FROM sessions WHERE rfid_tag = $1 AND status = 'approved' AND id <> $2`
	if err := DB.QueryRow(ctx, q, tag, exclude).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteSession removes a session row (test/maintenance paths only).
func DeleteSession(ctx context.Context, id uuid.UUID) error {
	tag, err := DB.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
