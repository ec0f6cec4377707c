package models

import (
	"time"

	"github.com/google/uuid"
)

// Session statuses. A signup keeps a single row for its whole lifetime and
// moves through these in order; "rejected" and "ended" are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusEnded    = "ended"
	StatusRejected = "rejected"
)

// Session is a party's signup and, once approved, its time-boxed play session.
// The countdown is bounded by ApprovedAt + SessionMinutes; the stopwatch
// fields (StartedAt, LastStartedAt, TotalElapsedSeconds, IsPlaying) track the
// time the party actually spent on the floor between RFID start/stop scans.
type Session struct {
	ID            uuid.UUID `json:"id"`
	PartyName     string    `json:"party_name"`
	Email         string    `json:"email"`
	TeamSize      int       `json:"team_size"`
	ReceiveOffers bool      `json:"receive_offers"`
	StorylineID   *int      `json:"storyline"`
	AvatarID      string    `json:"avatar_id"`

	RFIDTag        string `json:"rfid_tag"`
	SessionMinutes int    `json:"session_minutes"`
	Points         int    `json:"points"`
	Status         string `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at"`
	EndedAt    *time.Time `json:"ended_at"`

	StartedAt           *time.Time `json:"started_at"`
	LastStartedAt       *time.Time `json:"last_started_at"`
	TotalElapsedSeconds int        `json:"total_elapsed_seconds"`
	IsPlaying           bool       `json:"is_playing"`
}

// Checkpoint records that a session cleared a controller station.
// The (session, controller) pair is unique; clearing twice is a no-op.
type Checkpoint struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	ControllerID int       `json:"controller_id"`
	ClearedAt    time.Time `json:"cleared_at"`
	PointsEarned int       `json:"points_earned"`
}
