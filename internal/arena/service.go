// Package arena owns every session status transition: approval, start/resume,
// stop, checkpoint scoring, auto-expiry and the leaderboard projection.
// Handlers translate HTTP to these calls and nothing else mutates a session.
package arena

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/m32jawad/Arena/internal/cache"
	"github.com/m32jawad/Arena/internal/models"
)

// Error messages are part of the API contract; kiosks and the dashboard show
// them verbatim.
var (
	ErrTagRequired       = errors.New("RFID tag is required.")
	ErrCheckpointArgs    = errors.New("Both rfid and controller_ip are required.")
	ErrNotFound          = errors.New("Not found.")
	ErrNoSessionForTag   = errors.New("No session found for this RFID tag.")
	ErrNoApprovedSession = errors.New("No approved session found for this RFID tag.")
	ErrNoActiveSession   = errors.New("No active session found for this RFID tag.")
	ErrSessionExpired    = errors.New("Session time has expired.")
	ErrTagInUse          = errors.New("This RFID tag is already assigned to an active session.")
	ErrControllerIP      = errors.New("Controller not found for the given IP.")
	ErrControllerID      = errors.New("Controller not found.")
	ErrStaffNotFound     = errors.New("No staff member found with this RFID tag.")
	ErrStaffInactive     = errors.New("Staff account is inactive.")
	ErrNotStaff          = errors.New("User is not a staff member.")
)

// Repo is the persistence surface the service needs. database.Store is the
// production implementation; tests swap in an in-memory fake.
type Repo interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	GetLatestSessionByTag(ctx context.Context, tag string) (*models.Session, error)
	GetApprovedSessionByTag(ctx context.Context, tag string) (*models.Session, error)
	ListSessionsByStatus(ctx context.Context, statuses ...string) ([]*models.Session, error)
	UpdateSession(ctx context.Context, s *models.Session) error
	ApprovedTagInUse(ctx context.Context, tag string, exclude uuid.UUID) (bool, error)

	CreateCheckpoint(ctx context.Context, cp *models.Checkpoint) (created bool, err error)
	ListCheckpoints(ctx context.Context, sessionID uuid.UUID) ([]*models.Checkpoint, error)

	GetController(ctx context.Context, id int) (*models.Controller, error)
	GetControllerByIP(ctx context.Context, ip string) (*models.Controller, error)
	ListControllers(ctx context.Context) ([]*models.Controller, error)
	CountControllers(ctx context.Context) (int, error)

	GetStoryline(ctx context.Context, id int) (*models.Storyline, error)
	GetStaffByRFID(ctx context.Context, tag string) (*models.StaffUser, error)
	LoadSettings(ctx context.Context) (*models.GeneralSettings, error)
}

// Scoreboard receives scoring side effects (redis projections). Both methods
// are best-effort: a failure is logged, never surfaced to the caller.
type Scoreboard interface {
	UpdateScore(ctx context.Context, sessionID uuid.UUID, points int) error
	PushScan(ctx context.Context, controllerID int, scan cache.RecentScan) error
}

// EventType labels a lifecycle broadcast on the live feed.
type EventType string

const (
	EventSessionApproved   EventType = "session_approved"
	EventSessionStarted    EventType = "session_started"
	EventSessionEnded      EventType = "session_ended"
	EventCheckpointCleared EventType = "checkpoint_cleared"
)

// Event is pushed to OnEvent subscribers after a successful transition.
type Event struct {
	Type    EventType              `json:"type"`
	Session *models.Session        `json:"session,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Service drives the session lifecycle.
type Service struct {
	repo   Repo
	log    *logrus.Logger
	scores Scoreboard // optional
	now    func() time.Time

	// OnEvent is invoked after each committed transition. If nil, no
	// broadcast is done.
	OnEvent func(ev Event)
}

// NewService builds a Service. scores may be nil when redis is unavailable.
func NewService(repo Repo, scores Scoreboard, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		repo:   repo,
		scores: scores,
		log:    log,
		now:    time.Now,
	}
}

func (s *Service) emit(ev Event) {
	if s.OnEvent != nil {
		s.OnEvent(ev)
	}
}

func (s *Service) updateScore(ctx context.Context, sessionID uuid.UUID, points int) {
	if s.scores == nil {
		return
	}
	if err := s.scores.UpdateScore(ctx, sessionID, points); err != nil {
		s.log.WithError(err).Warn("leaderboard score update failed")
	}
}

func (s *Service) pushScan(ctx context.Context, controllerID int, scan cache.RecentScan) {
	if s.scores == nil {
		return
	}
	if err := s.scores.PushScan(ctx, controllerID, scan); err != nil {
		s.log.WithError(err).Warn("recent scan push failed")
	}
}
