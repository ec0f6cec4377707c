package arena

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m32jawad/Arena/internal/cache"
	"github.com/m32jawad/Arena/internal/clock"
	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/models"
)

// CheckpointView is the checkpoint projection embedded in session payloads.
type CheckpointView struct {
	ID             uuid.UUID `json:"id"`
	ControllerID   int       `json:"controller_id"`
	ControllerName string    `json:"controller_name"`
	ControllerIP   string    `json:"controller_ip"`
	ClearedAt      time.Time `json:"cleared_at"`
	PointsEarned   int       `json:"points_earned"`
}

// StartResult is the payload of a successful rfid start/resume.
type StartResult struct {
	Message          string    `json:"message"`
	SessionID        uuid.UUID `json:"session_id"`
	PartyName        string    `json:"party_name"`
	SessionMinutes   int       `json:"session_minutes"`
	ElapsedSeconds   int       `json:"elapsed_seconds"`
	RemainingSeconds int       `json:"remaining_seconds"`
	StartedAt        time.Time `json:"started_at"`
	StorylineHint    string    `json:"storyline_hint,omitempty"`
}

// StopResult is the payload of a successful rfid stop.
type StopResult struct {
	Message              string    `json:"message"`
	SessionID            uuid.UUID `json:"session_id"`
	PartyName            string    `json:"party_name"`
	ElapsedSeconds       int       `json:"elapsed_seconds"`
	RemainingSeconds     int       `json:"remaining_seconds"`
	RemainingPointsAdded int       `json:"remaining_points_added"`
	TotalPoints          int       `json:"total_points"`
}

// StatusResult is the payload of an rfid status check.
type StatusResult struct {
	Session          *models.Session  `json:"session"`
	SessionStatus    string           `json:"session_status"`
	RemainingSeconds int              `json:"remaining_seconds"`
	RemainingMinutes int              `json:"remaining_minutes"`
	ElapsedSeconds   int              `json:"elapsed_seconds"`
	IsPlaying        bool             `json:"is_playing"`
	Checkpoints      []CheckpointView `json:"checkpoints"`
}

// CheckpointResult is the payload of an rfid checkpoint scan.
type CheckpointResult struct {
	Message        string    `json:"message"`
	Created        bool      `json:"-"`
	CheckpointID   uuid.UUID `json:"checkpoint_id"`
	SessionID      uuid.UUID `json:"session_id"`
	PartyName      string    `json:"party_name"`
	Controller     string    `json:"controller"`
	ClearedAt      time.Time `json:"cleared_at"`
	PointsEarned   int       `json:"points_earned"`
	BasePoints     int       `json:"base_points"`
	TimeBonus      int       `json:"time_bonus"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	TotalPoints    int       `json:"total_points"`
}

// Approve turns a signup into a live session: assigns the staff-entered RFID
// tag and minute budget and starts the countdown at now. A tag already held
// by another live session is refused.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, rfidTag string, sessionMinutes int) (*models.Session, error) {
	p, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	rfidTag = strings.TrimSpace(rfidTag)
	if rfidTag != "" {
		inUse, err := s.repo.ApprovedTagInUse(ctx, rfidTag, p.ID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, ErrTagInUse
		}
		p.RFIDTag = rfidTag
	}
	if sessionMinutes > 0 {
		p.SessionMinutes = sessionMinutes
	}

	now := s.now()
	p.Status = models.StatusApproved
	p.ApprovedAt = &now
	if err := s.repo.UpdateSession(ctx, p); err != nil {
		return nil, err
	}

	s.updateScore(ctx, p.ID, p.Points)
	s.emit(Event{Type: EventSessionApproved, Session: p})
	return p, nil
}

// Reject marks a signup rejected. Terminal.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	p, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}
	p.Status = models.StatusRejected
	return s.repo.UpdateSession(ctx, p)
}

// Status resolves the session state behind an RFID tag. An approved session
// whose countdown already ran out is ended in place and reported as expired.
func (s *Service) Status(ctx context.Context, rfid string) (*StatusResult, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return nil, ErrTagRequired
	}

	p, err := s.repo.GetLatestSessionByTag(ctx, rfid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoSessionForTag
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &StatusResult{Session: p}

	switch p.Status {
	case models.StatusApproved:
		remaining := clock.SessionRemaining(now, p)
		if remaining > 0 {
			res.SessionStatus = "active"
			res.RemainingSeconds = remaining
			res.RemainingMinutes = remaining / 60
			res.ElapsedSeconds = clock.SessionElapsed(now, p)
			res.IsPlaying = p.IsPlaying
		} else {
			if err := s.endExpired(ctx, p); err != nil {
				return nil, err
			}
			res.SessionStatus = "expired"
		}
	case models.StatusEnded:
		res.SessionStatus = "expired"
	default:
		res.SessionStatus = p.Status
	}

	res.Checkpoints, err = s.checkpointViews(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Start begins or resumes the playtime stopwatch for the tag's live session
// and returns the authoritative remaining time for the kiosk countdown.
func (s *Service) Start(ctx context.Context, rfid string) (*StartResult, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return nil, ErrTagRequired
	}

	p, err := s.repo.GetApprovedSessionByTag(ctx, rfid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoApprovedSession
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	remaining := clock.SessionRemaining(now, p)
	if remaining <= 0 {
		if err := s.endExpired(ctx, p); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	message := "Session resumed."
	if p.StartedAt == nil {
		p.StartedAt = &now
		message = "Session started."
	}
	p.LastStartedAt = &now
	p.IsPlaying = true
	if err := s.repo.UpdateSession(ctx, p); err != nil {
		return nil, err
	}

	res := &StartResult{
		Message:          message,
		SessionID:        p.ID,
		PartyName:        p.PartyName,
		SessionMinutes:   p.SessionMinutes,
		ElapsedSeconds:   clock.SessionElapsed(now, p),
		RemainingSeconds: remaining,
		StartedAt:        now,
		StorylineHint:    s.storylineHint(ctx, p),
	}

	s.emit(Event{Type: EventSessionStarted, Session: p})
	return res, nil
}

// Stop ends the tag's live session: banks the running stopwatch, converts the
// unused whole minutes into points and marks the session ended. Terminal.
func (s *Service) Stop(ctx context.Context, rfid string) (*StopResult, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return nil, ErrTagRequired
	}

	p, err := s.repo.GetApprovedSessionByTag(ctx, rfid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.bankStopwatch(p, now)

	remaining := clock.SessionRemaining(now, p)
	remainingPoints := remaining / 60
	p.Points += remainingPoints
	p.Status = models.StatusEnded
	p.EndedAt = &now
	if err := s.repo.UpdateSession(ctx, p); err != nil {
		return nil, err
	}

	s.updateScore(ctx, p.ID, p.Points)
	s.emit(Event{Type: EventSessionEnded, Session: p})

	return &StopResult{
		Message:              "Session ended.",
		SessionID:            p.ID,
		PartyName:            p.PartyName,
		ElapsedSeconds:       p.TotalElapsedSeconds,
		RemainingSeconds:     remaining,
		RemainingPointsAdded: remainingPoints,
		TotalPoints:          p.Points,
	}, nil
}

// Checkpoint records a checkpoint clear for the tag at the controller behind
// the given IP. First clear awards 10 base points plus a speed bonus; any
// repeat is acknowledged but worth nothing.
func (s *Service) Checkpoint(ctx context.Context, rfid, controllerIP string) (*CheckpointResult, error) {
	rfid = strings.TrimSpace(rfid)
	controllerIP = strings.TrimSpace(controllerIP)
	if rfid == "" || controllerIP == "" {
		return nil, ErrCheckpointArgs
	}

	p, err := s.repo.GetApprovedSessionByTag(ctx, rfid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}

	ctrl, err := s.repo.GetControllerByIP(ctx, controllerIP)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrControllerIP
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	elapsed := 0
	if p.StartedAt != nil {
		elapsed = int(now.Sub(*p.StartedAt) / time.Second)
	} else if p.ApprovedAt != nil {
		elapsed = int(now.Sub(*p.ApprovedAt) / time.Second)
	}

	cp := &models.Checkpoint{
		SessionID:    p.ID,
		ControllerID: ctrl.ID,
		PointsEarned: clock.CheckpointPoints(elapsed),
	}
	created, err := s.repo.CreateCheckpoint(ctx, cp)
	if err != nil {
		return nil, err
	}

	res := &CheckpointResult{
		Created:      created,
		CheckpointID: cp.ID,
		SessionID:    p.ID,
		PartyName:    p.PartyName,
		Controller:   ctrl.Name,
		ClearedAt:    cp.ClearedAt,
		TotalPoints:  p.Points,
	}

	scan := cache.RecentScan{RFIDTag: rfid, PartyName: p.PartyName, ScannedAt: now}
	if created {
		p.Points += cp.PointsEarned
		res.Message = "Checkpoint cleared!"
		res.PointsEarned = cp.PointsEarned
		res.BasePoints = clock.BasePoints
		res.TimeBonus = cp.PointsEarned - clock.BasePoints
		res.ElapsedSeconds = elapsed
		res.TotalPoints = p.Points
		scan.Result = "cleared"
		scan.PointsEarned = cp.PointsEarned

		s.updateScore(ctx, p.ID, p.Points)
		s.emit(Event{Type: EventCheckpointCleared, Session: p, Payload: map[string]interface{}{
			"controller_id":   ctrl.ID,
			"controller_name": ctrl.Name,
			"points_earned":   cp.PointsEarned,
		}})
	} else {
		res.Message = "Checkpoint already cleared."
		scan.Result = "already_cleared"
	}
	s.pushScan(ctx, ctrl.ID, scan)

	return res, nil
}

// AddCheckpoint credits a station clear from the dashboard, for when a
// controller failed to register a scan. Scoring matches the rfid path; a
// checkpoint that already exists is reported, not re-awarded.
func (s *Service) AddCheckpoint(ctx context.Context, sessionID uuid.UUID, controllerID int) (*CheckpointResult, error) {
	p, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ctrl, err := s.repo.GetController(ctx, controllerID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrControllerID
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	elapsed := 0
	if p.StartedAt != nil {
		elapsed = int(now.Sub(*p.StartedAt) / time.Second)
	} else if p.ApprovedAt != nil {
		elapsed = int(now.Sub(*p.ApprovedAt) / time.Second)
	}

	cp := &models.Checkpoint{
		SessionID:    p.ID,
		ControllerID: ctrl.ID,
		PointsEarned: clock.CheckpointPoints(elapsed),
	}
	created, err := s.repo.CreateCheckpoint(ctx, cp)
	if err != nil {
		return nil, err
	}

	res := &CheckpointResult{
		Created:      created,
		CheckpointID: cp.ID,
		SessionID:    p.ID,
		PartyName:    p.PartyName,
		Controller:   ctrl.Name,
		ClearedAt:    cp.ClearedAt,
		TotalPoints:  p.Points,
	}
	if created {
		p.Points += cp.PointsEarned
		res.Message = "Checkpoint added."
		res.PointsEarned = cp.PointsEarned
		res.BasePoints = clock.BasePoints
		res.TimeBonus = cp.PointsEarned - clock.BasePoints
		res.ElapsedSeconds = elapsed
		res.TotalPoints = p.Points

		s.updateScore(ctx, p.ID, p.Points)
		s.emit(Event{Type: EventCheckpointCleared, Session: p, Payload: map[string]interface{}{
			"controller_id":   ctrl.ID,
			"controller_name": ctrl.Name,
			"points_earned":   cp.PointsEarned,
		}})
	} else {
		res.Message = "Checkpoint already exists."
		res.PointsEarned = cp.PointsEarned
	}

	return res, nil
}

// CheckStaff validates that an RFID tag belongs to an active staff member.
// The distinct errors let kiosks display why a tag was refused.
func (s *Service) CheckStaff(ctx context.Context, rfid string) (*models.StaffUser, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return nil, ErrTagRequired
	}

	u, err := s.repo.GetStaffByRFID(ctx, rfid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrStaffInactive
	}
	if !u.IsStaff {
		return nil, ErrNotStaff
	}
	return u, nil
}

// EndSession is the staff-side manual stop from the dashboard. Unlike Stop it
// awards no remaining-time points.
func (s *Service) EndSession(ctx context.Context, id uuid.UUID) error {
	p, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	s.bankStopwatch(p, now)
	p.Status = models.StatusEnded
	p.EndedAt = &now
	if err := s.repo.UpdateSession(ctx, p); err != nil {
		return err
	}
	s.updateScore(ctx, p.ID, p.Points)
	s.emit(Event{Type: EventSessionEnded, Session: p})
	return nil
}

// UpdateSessionTime applies a staff +/- minute delta and/or a points override
// to a live session. Deltas pass through the configured extension/reduction
// gates; one reduction request removes at most one preset step, and the
// budget can never drop below one step or below the time already played plus
// one minute.
func (s *Service) UpdateSessionTime(ctx context.Context, id uuid.UUID, extraMinutes, points *int) (*models.Session, error) {
	p, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.StatusApproved {
		return nil, ErrNotFound
	}

	if extraMinutes != nil && *extraMinutes != 0 {
		gs, err := s.repo.LoadSettings(ctx)
		if err != nil {
			return nil, err
		}
		step := clock.PresetStep(gs.SessionPresets)
		delta := clock.ClampReduction(*extraMinutes, step)

		// floor against the countdown, not the stopwatch: reducing below
		// the wall-clock elapsed time would end the session on the spot
		elapsed := 0
		if p.ApprovedAt != nil {
			elapsed = int(s.now().Sub(*p.ApprovedAt) / time.Second)
		}
		p.SessionMinutes = clock.ApplyExtraMinutes(
			p.SessionMinutes, delta, elapsed,
			gs.AllowExtension, gs.AllowReduction,
		)
		if delta < 0 && step > 0 && p.SessionMinutes < step {
			p.SessionMinutes = step
		}
	}
	if points != nil {
		p.Points = *points
	}

	if err := s.repo.UpdateSession(ctx, p); err != nil {
		return nil, err
	}
	s.updateScore(ctx, p.ID, p.Points)
	return p, nil
}

// endExpired terminates an approved session whose countdown ran out, banking
// any running stopwatch segment first.
func (s *Service) endExpired(ctx context.Context, p *models.Session) error {
	now := s.now()
	s.bankStopwatch(p, now)
	p.Status = models.StatusEnded
	if p.EndedAt == nil {
		p.EndedAt = &now
	}
	if err := s.repo.UpdateSession(ctx, p); err != nil {
		return err
	}
	s.updateScore(ctx, p.ID, p.Points)
	s.emit(Event{Type: EventSessionEnded, Session: p})
	return nil
}

// bankStopwatch folds a running play segment into total_elapsed_seconds.
func (s *Service) bankStopwatch(p *models.Session, now time.Time) {
	if p.IsPlaying && p.LastStartedAt != nil {
		elapsed := now.Sub(*p.LastStartedAt) / time.Second
		if elapsed > 0 {
			p.TotalElapsedSeconds += int(elapsed)
		}
	}
	p.IsPlaying = false
	p.LastStartedAt = nil
}

func (s *Service) getSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	p, err := s.repo.GetSession(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return p, nil
}

// storylineHint resolves the hint overlay text for a session's storyline.
func (s *Service) storylineHint(ctx context.Context, p *models.Session) string {
	if p.StorylineID == nil {
		return ""
	}
	story, err := s.repo.GetStoryline(ctx, *p.StorylineID)
	if err != nil {
		return ""
	}
	if story.Text != "" {
		return story.Text
	}
	return story.Title
}

// checkpointViews loads a session's checkpoints with controller identity.
func (s *Service) checkpointViews(ctx context.Context, sessionID uuid.UUID) ([]CheckpointView, error) {
	cps, err := s.repo.ListCheckpoints(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	views := make([]CheckpointView, 0, len(cps))
	for _, cp := range cps {
		v := CheckpointView{
			ID:           cp.ID,
			ControllerID: cp.ControllerID,
			ClearedAt:    cp.ClearedAt,
			PointsEarned: cp.PointsEarned,
		}
		if ctrl, err := s.repo.GetController(ctx, cp.ControllerID); err == nil {
			v.ControllerName = ctrl.Name
			v.ControllerIP = ctrl.IPAddress
		}
		views = append(views, v)
	}
	return views, nil
}
