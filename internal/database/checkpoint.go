package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/m32jawad/Arena/internal/models"
)

// CreateCheckpoint records a cleared checkpoint and adds its points to the
// session in one transaction. If the (session, controller) pair already
// exists it returns the existing row with created=false and awards nothing.
func CreateCheckpoint(ctx context.Context, cp *models.Checkpoint) (bool, error) {
	if cp.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return false, fmt.Errorf("failed to generate checkpoint id: %w", err)
		}
		cp.ID = id
	}

	created := false
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insert := `
		INSERT INTO checkpoints (id, session_id, controller_id, points_earned)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, controller_id) DO NOTHING
		RETURNING cleared_at
		`
		err := tx.QueryRow(ctx, insert, cp.ID, cp.SessionID, cp.ControllerID, cp.PointsEarned).Scan(&cp.ClearedAt)
		if err == pgx.ErrNoRows {
			// already cleared: load the existing row instead
			existing := `
			SELECT id, cleared_at, points_earned FROM checkpoints
			WHERE session_id = $1 AND controller_id = $2
			`
			return tx.QueryRow(ctx, existing, cp.SessionID, cp.ControllerID).
				Scan(&cp.ID, &cp.ClearedAt, &cp.PointsEarned)
		}
		if err != nil {
			return err
		}
		created = true

		award := `UPDATE sessions SET points = points + $2 WHERE id = $1`
		_, err = tx.Exec(ctx, award, cp.SessionID, cp.PointsEarned)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to record checkpoint: %w", err)
	}
	return created, nil
}

// ListCheckpoints returns a session's cleared checkpoints in clear order.
func ListCheckpoints(ctx context.Context, sessionID uuid.UUID) ([]*models.Checkpoint, error) {
	q := `
	SELECT id, session_id, controller_id, cleared_at, points_earned
	FROM checkpoints WHERE session_id = $1 ORDER BY cleared_at
	`
	rows, err := DB.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Checkpoint
	for rows.Next() {
		var cp models.Checkpoint
		if err := rows.Scan(&cp.ID, &cp.SessionID, &cp.ControllerID, &cp.ClearedAt, &cp.PointsEarned); err != nil {
			return nil, err
		}
		out = append(out, &cp)
	}
	return out, rows.Err()
}

// DeleteCheckpoint removes a checkpoint and claws back its points.
func DeleteCheckpoint(ctx context.Context, sessionID, checkpointID uuid.UUID) (int, error) {
	deducted := 0
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		del := `
		DELETE FROM checkpoints WHERE id = $1 AND session_id = $2
		RETURNING points_earned
		`
		err := tx.QueryRow(ctx, del, checkpointID, sessionID).Scan(&deducted)
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		claw := `UPDATE sessions SET points = greatest(0, points - $2) WHERE id = $1`
		_, err = tx.Exec(ctx, claw, sessionID, deducted)
		return err
	})
	return deducted, err
}
