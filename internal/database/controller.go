package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/m32jawad/Arena/internal/models"
)

const controllerColumns = `
	id, name, ip_address, cpu_usage, storage_usage, cpu_temperature,
	ram_usage, system_uptime, voltage_power_status, created_at, updated_at
`

func scanController(row pgx.Row) (*models.Controller, error) {
	var c models.Controller
	err := row.Scan(
		&c.ID, &c.Name, &c.IPAddress, &c.CPUUsage, &c.StorageUsage, &c.CPUTemperature,
		&c.RAMUsage, &c.SystemUptime, &c.VoltagePowerStatus, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateController inserts a new station.
func CreateController(ctx context.Context, c *models.Controller) error {
	q := `
	INSERT INTO controllers (
		name, ip_address, cpu_usage, storage_usage, cpu_temperature,
		ram_usage, system_uptime, voltage_power_status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, updated_at
	`
	err := DB.QueryRow(ctx, q,
		c.Name, c.IPAddress, c.CPUUsage, c.StorageUsage, c.CPUTemperature,
		c.RAMUsage, c.SystemUptime, c.VoltagePowerStatus,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert controller: %w", err)
	}
	return nil
}

// GetController fetches a station by id.
func GetController(ctx context.Context, id int) (*models.Controller, error) {
	q := `SELECT ` + controllerColumns + ` FROM controllers WHERE id = $1`
	return scanController(DB.QueryRow(ctx, q, id))
}

// GetControllerByIP fetches a station by its network identity.
func GetControllerByIP(ctx context.Context, ip string) (*models.Controller, error) {
	q := `SELECT ` + controllerColumns + ` FROM controllers WHERE ip_address = $1 LIMIT 1`
	return scanController(DB.QueryRow(ctx, q, ip))
}

// ListControllers returns all stations ordered by id.
func ListControllers(ctx context.Context) ([]*models.Controller, error) {
	q := `SELECT ` + controllerColumns + ` FROM controllers ORDER BY id`
	rows, err := DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Controller
	for rows.Next() {
		c, err := scanController(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountControllers returns the number of stations, the denominator of the
// leaderboard's checkpoint ratio.
func CountControllers(ctx context.Context) (int, error) {
	var n int
	err := DB.QueryRow(ctx, `SELECT count(*) FROM controllers`).Scan(&n)
	return n, err
}

// UpdateController writes back every mutable field of a station.
func UpdateController(ctx context.Context, c *models.Controller) error {
	q := `
	UPDATE controllers SET
		name = $2, ip_address = $3, cpu_usage = $4, storage_usage = $5,
		cpu_temperature = $6, ram_usage = $7, system_uptime = $8,
		voltage_power_status = $9, updated_at = now()
	WHERE id = $1
	`
	tag, err := DB.Exec(ctx, q,
		c.ID, c.Name, c.IPAddress, c.CPUUsage, c.StorageUsage,
		c.CPUTemperature, c.RAMUsage, c.SystemUptime, c.VoltagePowerStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update controller: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteController removes a station.
func DeleteController(ctx context.Context, id int) error {
	tag, err := DB.Exec(ctx, `DELETE FROM controllers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
