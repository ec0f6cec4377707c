package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/m32jawad/Arena/internal/auth"
	"github.com/m32jawad/Arena/internal/models"
)

const staffColumns = `
	id, username, email, first_name, last_name, password,
	is_staff, is_superuser, is_active, rfid_tag
`

func scanStaff(row pgx.Row) (*models.StaffUser, error) {
	var u models.StaffUser
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Password,
		&u.IsStaff, &u.IsSuperuser, &u.IsActive, &u.RFIDTag,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateStaff hashes the plaintext password and inserts a new staff user.
func CreateStaff(ctx context.Context, u *models.StaffUser) error {
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = hash

	q := `
	INSERT INTO staff_users (
		username, email, first_name, last_name, password,
		is_staff, is_superuser, is_active, rfid_tag
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id
	`
	err = DB.QueryRow(ctx, q,
		u.Username, u.Email, u.FirstName, u.LastName, u.Password,
		u.IsStaff, u.IsSuperuser, u.IsActive, u.RFIDTag,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to insert staff user: %w", err)
	}
	return nil
}

// GetStaffByUsername fetches a staff user by login name.
func GetStaffByUsername(ctx context.Context, username string) (*models.StaffUser, error) {
	q := `SELECT ` + staffColumns + ` FROM staff_users WHERE username = $1`
	return scanStaff(DB.QueryRow(ctx, q, username))
}

// GetStaffByID fetches a staff user by id.
func GetStaffByID(ctx context.Context, id int) (*models.StaffUser, error) {
	q := `SELECT ` + staffColumns + ` FROM staff_users WHERE id = $1`
	return scanStaff(DB.QueryRow(ctx, q, id))
}

// GetStaffByRFID fetches the staff user holding an RFID tag.
func GetStaffByRFID(ctx context.Context, tag string) (*models.StaffUser, error) {
	q := `SELECT ` + staffColumns + ` FROM staff_users WHERE rfid_tag = $1 LIMIT 1`
	return scanStaff(DB.QueryRow(ctx, q, tag))
}

// ListStaff returns all staff users ordered by id.
func ListStaff(ctx context.Context) ([]*models.StaffUser, error) {
	q := `SELECT ` + staffColumns + ` FROM staff_users ORDER BY id`
	rows, err := DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.StaffUser
	for rows.Next() {
		u, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateStaff writes back profile fields. The password is only rewritten when
// newPassword is non-empty.
func UpdateStaff(ctx context.Context, u *models.StaffUser, newPassword string) error {
	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u.Password = hash
	}

	q := `
	UPDATE staff_users SET
		email = $2, first_name = $3, last_name = $4, password = $5,
		is_staff = $6, is_superuser = $7, is_active = $8, rfid_tag = $9
	WHERE id = $1
	`
	tag, err := DB.Exec(ctx, q,
		u.ID, u.Email, u.FirstName, u.LastName, u.Password,
		u.IsStaff, u.IsSuperuser, u.IsActive, u.RFIDTag,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStaff removes a staff user.
func DeleteStaff(ctx context.Context, id int) error {
	tag, err := DB.Exec(ctx, `DELETE FROM staff_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
