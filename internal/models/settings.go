package models

import "time"

// GeneralSettings is the arena-wide configuration singleton (always row 1).
type GeneralSettings struct {
	ArenaName      string    `json:"arena_name"`
	TimeZone       string    `json:"time_zone"`
	DateFormat     string    `json:"date_format"`
	SessionLength  string    `json:"session_length"`
	SessionPresets string    `json:"session_presets"`
	AllowExtension bool      `json:"allow_extension"`
	AllowReduction bool      `json:"allow_reduction"`
	UpdatedAt      time.Time `json:"-"`
}

// Storyline is a narrative a party can pick at signup; its text doubles as
// the hint overlay shown on an active kiosk.
type Storyline struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
