package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/m32jawad/Arena/internal/models"
)

// LoadSettings returns the arena configuration singleton, creating the row
// with defaults on first access.
func LoadSettings(ctx context.Context) (*models.GeneralSettings, error) {
	var gs models.GeneralSettings
	q := `
	SELECT arena_name, time_zone, date_format, session_length, session_presets,
	       allow_extension, allow_reduction, updated_at
	FROM general_settings WHERE id = 1
	`
	err := DB.QueryRow(ctx, q).Scan(
		&gs.ArenaName, &gs.TimeZone, &gs.DateFormat, &gs.SessionLength, &gs.SessionPresets,
		&gs.AllowExtension, &gs.AllowReduction, &gs.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := DB.Exec(ctx, `INSERT INTO general_settings (id) VALUES (1) ON CONFLICT DO NOTHING`); err != nil {
			return nil, fmt.Errorf("failed to seed general settings: %w", err)
		}
		return LoadSettings(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &gs, nil
}

// SaveSettings writes the configuration singleton back.
func SaveSettings(ctx context.Context, gs *models.GeneralSettings) error {
	q := `
	INSERT INTO general_settings (
		id, arena_name, time_zone, date_format, session_length, session_presets,
		allow_extension, allow_reduction, updated_at
	)
	VALUES (1, $1, $2, $3, $4, $5, $6, $7, now())
	ON CONFLICT (id) DO UPDATE SET
		arena_name = $1, time_zone = $2, date_format = $3,
		session_length = $4, session_presets = $5,
		allow_extension = $6, allow_reduction = $7, updated_at = now()
	`
	_, err := DB.Exec(ctx, q,
		gs.ArenaName, gs.TimeZone, gs.DateFormat, gs.SessionLength, gs.SessionPresets,
		gs.AllowExtension, gs.AllowReduction,
	)
	if err != nil {
		return fmt.Errorf("failed to save general settings: %w", err)
	}
	return nil
}
