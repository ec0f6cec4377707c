package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/m32jawad/Arena/internal/models"
)

func scanStoryline(row pgx.Row) (*models.Storyline, error) {
	var s models.Storyline
	err := row.Scan(&s.ID, &s.Title, &s.Text, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStoryline inserts a new storyline.
func CreateStoryline(ctx context.Context, s *models.Storyline) error {
	q := `INSERT INTO storylines (title, text) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	err := DB.QueryRow(ctx, q, s.Title, s.Text).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert storyline: %w", err)
	}
	return nil
}

// GetStoryline fetches a storyline by id.
func GetStoryline(ctx context.Context, id int) (*models.Storyline, error) {
	q := `SELECT id, title, text, created_at, updated_at FROM storylines WHERE id = $1`
	return scanStoryline(DB.QueryRow(ctx, q, id))
}

// ListStorylines returns all storylines, newest first.
func ListStorylines(ctx context.Context) ([]*models.Storyline, error) {
	q := `SELECT id, title, text, created_at, updated_at FROM storylines ORDER BY created_at DESC`
	rows, err := DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Storyline
	for rows.Next() {
		s, err := scanStoryline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStoryline writes back title and text.
func UpdateStoryline(ctx context.Context, s *models.Storyline) error {
	q := `UPDATE storylines SET title = $2, text = $3, updated_at = now() WHERE id = $1`
	tag, err := DB.Exec(ctx, q, s.ID, s.Title, s.Text)
	if err != nil {
		return fmt.Errorf("failed to update storyline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStoryline removes a storyline. Sessions keep their storyline_id, so
// deletion only affects future signups and hint lookups.
func DeleteStoryline(ctx context.Context, id int) error {
	tag, err := DB.Exec(ctx, `DELETE FROM storylines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
