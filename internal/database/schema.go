package database

import "context"

// schema is applied at startup. Statements are idempotent so redeploys are
// safe against an existing database.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id UUID PRIMARY KEY,
	party_name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	team_size INT NOT NULL DEFAULT 1,
	receive_offers BOOLEAN NOT NULL DEFAULT FALSE,
	storyline_id INT,
	avatar_id TEXT NOT NULL DEFAULT '',
	rfid_tag TEXT NOT NULL DEFAULT '',
	session_minutes INT NOT NULL DEFAULT 0,
	points INT NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	approved_at TIMESTAMPTZ,
	ended_at TIMESTAMPTZ,
	started_at TIMESTAMPTZ,
	last_started_at TIMESTAMPTZ,
	total_elapsed_seconds INT NOT NULL DEFAULT 0,
	is_playing BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE UNIQUE INDEX IF NOT EXISTS sessions_active_tag
	ON sessions (rfid_tag) WHERE status = 'approved' AND rfid_tag <> '';

CREATE TABLE IF NOT EXISTS controllers (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	ip_address TEXT NOT NULL,
	cpu_usage TEXT NOT NULL DEFAULT '',
	storage_usage TEXT NOT NULL DEFAULT '',
	cpu_temperature TEXT NOT NULL DEFAULT '',
	ram_usage TEXT NOT NULL DEFAULT '',
	system_uptime TEXT NOT NULL DEFAULT '',
	voltage_power_status TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS checkpoints (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	controller_id INT NOT NULL REFERENCES controllers(id) ON DELETE CASCADE,
	cleared_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	points_earned INT NOT NULL DEFAULT 0,
	UNIQUE (session_id, controller_id)
);

CREATE TABLE IF NOT EXISTS storylines (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	text TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS staff_users (
	id SERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	password TEXT NOT NULL,
	is_staff BOOLEAN NOT NULL DEFAULT TRUE,
	is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	rfid_tag TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS general_settings (
	id INT PRIMARY KEY,
	arena_name TEXT NOT NULL DEFAULT '',
	time_zone TEXT NOT NULL DEFAULT '',
	date_format TEXT NOT NULL DEFAULT '',
	session_length TEXT NOT NULL DEFAULT '',
	session_presets TEXT NOT NULL DEFAULT '',
	allow_extension BOOLEAN NOT NULL DEFAULT FALSE,
	allow_reduction BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates all tables if they are missing.
func EnsureSchema(ctx context.Context) error {
	_, err := DB.Exec(ctx, schema)
	return err
}
