package arena

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m32jawad/Arena/internal/cache"
	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/models"
)

// memRepo is an in-memory Repo for service tests.
type memRepo struct {
	sessions    map[uuid.UUID]*models.Session
	checkpoints []*models.Checkpoint
	controllers map[int]*models.Controller
	storylines  map[int]*models.Storyline
	staff       map[string]*models.StaffUser
	settings    models.GeneralSettings
}

func newMemRepo() *memRepo {
	return &memRepo{
		sessions:    map[uuid.UUID]*models.Session{},
		controllers: map[int]*models.Controller{},
		storylines:  map[int]*models.Storyline{},
		staff:       map[string]*models.StaffUser{},
		settings:    models.GeneralSettings{AllowExtension: true, AllowReduction: true},
	}
}

func (m *memRepo) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	p, ok := m.sessions[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetLatestSessionByTag(ctx context.Context, tag string) (*models.Session, error) {
	var latest *models.Session
	for _, p := range m.sessions {
		if p.RFIDTag != tag {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, database.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memRepo) GetApprovedSessionByTag(ctx context.Context, tag string) (*models.Session, error) {
	for _, p := range m.sessions {
		if p.RFIDTag == tag && p.Status == models.StatusApproved {
			cp := *p
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memRepo) ListSessionsByStatus(ctx context.Context, statuses ...string) ([]*models.Session, error) {
	var out []*models.Session
	for _, p := range m.sessions {
		for _, st := range statuses {
			if p.Status == st {
				cp := *p
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (m *memRepo) UpdateSession(ctx context.Context, s *models.Session) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return database.ErrNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memRepo) ApprovedTagInUse(ctx context.Context, tag string, exclude uuid.UUID) (bool, error) {
	for _, p := range m.sessions {
		if p.ID != exclude && p.Status == models.StatusApproved && p.RFIDTag == tag {
			return true, nil
		}
	}
	return false, nil
}

// CreateCheckpoint mirrors the transactional get-or-create in the database
// package: a repeat (session, controller) pair returns the existing row, and
// a new row awards its points to the session immediately.
func (m *memRepo) CreateCheckpoint(ctx context.Context, cp *models.Checkpoint) (bool, error) {
	for _, existing := range m.checkpoints {
		if existing.SessionID == cp.SessionID && existing.ControllerID == cp.ControllerID {
			*cp = *existing
			return false, nil
		}
	}
	cp.ID = uuid.New()
	cp.ClearedAt = time.Now()
	stored := *cp
	m.checkpoints = append(m.checkpoints, &stored)
	if p, ok := m.sessions[cp.SessionID]; ok {
		p.Points += cp.PointsEarned
	}
	return true, nil
}

func (m *memRepo) ListCheckpoints(ctx context.Context, sessionID uuid.UUID) ([]*models.Checkpoint, error) {
	var out []*models.Checkpoint
	for _, cp := range m.checkpoints {
		if cp.SessionID == sessionID {
			c := *cp
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memRepo) GetController(ctx context.Context, id int) (*models.Controller, error) {
	c, ok := m.controllers[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return c, nil
}

func (m *memRepo) GetControllerByIP(ctx context.Context, ip string) (*models.Controller, error) {
	for _, c := range m.controllers {
		if c.IPAddress == ip {
			return c, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memRepo) ListControllers(ctx context.Context) ([]*models.Controller, error) {
	var out []*models.Controller
	for _, c := range m.controllers {
		out = append(out, c)
	}
	return out, nil
}

func (m *memRepo) CountControllers(ctx context.Context) (int, error) {
	return len(m.controllers), nil
}

func (m *memRepo) GetStoryline(ctx context.Context, id int) (*models.Storyline, error) {
	s, ok := m.storylines[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return s, nil
}

func (m *memRepo) GetStaffByRFID(ctx context.Context, tag string) (*models.StaffUser, error) {
	u, ok := m.staff[tag]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (m *memRepo) LoadSettings(ctx context.Context) (*models.GeneralSettings, error) {
	gs := m.settings
	return &gs, nil
}

// memBoard records scoreboard side effects.
type memBoard struct {
	scores map[uuid.UUID]int
	scans  []cache.RecentScan
}

func (b *memBoard) UpdateScore(ctx context.Context, sessionID uuid.UUID, points int) error {
	if b.scores == nil {
		b.scores = map[uuid.UUID]int{}
	}
	b.scores[sessionID] = points
	return nil
}

func (b *memBoard) PushScan(ctx context.Context, controllerID int, scan cache.RecentScan) error {
	b.scans = append(b.scans, scan)
	return nil
}

func newTestService(repo *memRepo, board *memBoard, now time.Time) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	var scores Scoreboard
	if board != nil {
		scores = board
	}
	svc := NewService(repo, scores, log)
	svc.now = func() time.Time { return now }
	return svc
}

func addPending(repo *memRepo, name string) *models.Session {
	p := &models.Session{
		ID:             uuid.New(),
		PartyName:      name,
		TeamSize:       4,
		SessionMinutes: 60,
		Status:         models.StatusPending,
		CreatedAt:      time.Now().Add(-time.Hour),
	}
	repo.sessions[p.ID] = p
	return p
}

func addApproved(repo *memRepo, name, tag string, minutes int, approvedAt time.Time) *models.Session {
	p := addPending(repo, name)
	p.Status = models.StatusApproved
	p.RFIDTag = tag
	p.SessionMinutes = minutes
	p.ApprovedAt = &approvedAt
	return p
}

func TestApprove(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	p := addPending(repo, "Team Rocket")

	got, err := svc.Approve(ctx, p.ID, " TAG-1 ", 45)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "TAG-1", got.RFIDTag)
	assert.Equal(t, 45, got.SessionMinutes)
	require.NotNil(t, got.ApprovedAt)
	assert.True(t, got.ApprovedAt.Equal(now))
}

func TestApproveRefusesTagHeldByLiveSession(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	addApproved(repo, "Holders", "TAG-1", 60, now.Add(-5*time.Minute))
	p := addPending(repo, "Newcomers")

	_, err := svc.Approve(ctx, p.ID, "TAG-1", 60)
	require.ErrorIs(t, err, ErrTagInUse)
	assert.Equal(t, "This RFID tag is already assigned to an active session.", err.Error())
	assert.Equal(t, models.StatusPending, repo.sessions[p.ID].Status)
}

func TestApproveZeroMinutesKeepsExisting(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, nil, time.Now())

	p := addPending(repo, "Team")
	got, err := svc.Approve(context.Background(), p.ID, "TAG-2", 0)
	require.NoError(t, err)
	assert.Equal(t, 60, got.SessionMinutes)
}

func TestStatusActive(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))

	res, err := svc.Status(context.Background(), "TAG-1")
	require.NoError(t, err)
	assert.Equal(t, "active", res.SessionStatus)
	assert.Equal(t, 50*60, res.RemainingSeconds)
	assert.Equal(t, 50, res.RemainingMinutes)
}

func TestStatusExpiresOverdueSession(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	p := addApproved(repo, "Team", "TAG-1", 30, now.Add(-45*time.Minute))

	res, err := svc.Status(context.Background(), "TAG-1")
	require.NoError(t, err)
	assert.Equal(t, "expired", res.SessionStatus)
	assert.Equal(t, models.StatusEnded, repo.sessions[p.ID].Status)
	require.NotNil(t, repo.sessions[p.ID].EndedAt)
}

func TestStatusUnknownTag(t *testing.T) {
	svc := newTestService(newMemRepo(), nil, time.Now())
	_, err := svc.Status(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNoSessionForTag)
}

func TestStatusBlankTag(t *testing.T) {
	svc := newTestService(newMemRepo(), nil, time.Now())
	_, err := svc.Status(context.Background(), "   ")
	require.ErrorIs(t, err, ErrTagRequired)
}

func TestStartFirstAndResume(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))

	res, err := svc.Start(ctx, "TAG-1")
	require.NoError(t, err)
	assert.Equal(t, "Session started.", res.Message)
	assert.Equal(t, 50*60, res.RemainingSeconds)

	got := repo.sessions[p.ID]
	assert.True(t, got.IsPlaying)
	require.NotNil(t, got.StartedAt)
	require.NotNil(t, got.LastStartedAt)

	res, err = svc.Start(ctx, "TAG-1")
	require.NoError(t, err)
	assert.Equal(t, "Session resumed.", res.Message)
}

func TestStartExpired(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	p := addApproved(repo, "Team", "TAG-1", 30, now.Add(-31*time.Minute))

	_, err := svc.Start(context.Background(), "TAG-1")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, models.StatusEnded, repo.sessions[p.ID].Status)
}

func TestStartNoApprovedSession(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-time.Minute))
	p.Status = models.StatusEnded

	_, err := svc.Start(context.Background(), "TAG-1")
	require.ErrorIs(t, err, ErrNoApprovedSession)
}

func TestStopConvertsRemainingMinutesToPoints(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	board := &memBoard{}
	svc := newTestService(repo, board, now)

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-20*time.Minute))
	p.Points = 35
	started := now.Add(-15 * time.Minute)
	p.StartedAt = &started
	p.LastStartedAt = &started
	p.IsPlaying = true

	res, err := svc.Stop(context.Background(), "TAG-1")
	require.NoError(t, err)
	assert.Equal(t, "Session ended.", res.Message)
	assert.Equal(t, 40, res.RemainingPointsAdded)
	assert.Equal(t, 75, res.TotalPoints)
	assert.Equal(t, 15*60, res.ElapsedSeconds)

	got := repo.sessions[p.ID]
	assert.Equal(t, models.StatusEnded, got.Status)
	assert.Equal(t, 75, got.Points)
	assert.False(t, got.IsPlaying)
	assert.Equal(t, 75, board.scores[p.ID])
}

func TestStopWithoutActiveSession(t *testing.T) {
	svc := newTestService(newMemRepo(), nil, time.Now())
	_, err := svc.Stop(context.Background(), "TAG-1")
	require.ErrorIs(t, err, ErrNoActiveSession)
	assert.Equal(t, "No active session found for this RFID tag.", err.Error())
}

func TestCheckpointFirstClearAwardsPoints(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	board := &memBoard{}
	svc := newTestService(repo, board, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))
	started := now.Add(-2 * time.Minute)
	p.StartedAt = &started
	repo.controllers[1] = &models.Controller{ID: 1, Name: "Vault", IPAddress: "10.0.0.11"}

	res, err := svc.Checkpoint(ctx, "TAG-1", "10.0.0.11")
	require.NoError(t, err)
	assert.Equal(t, "Checkpoint cleared!", res.Message)
	assert.Equal(t, "Vault", res.Controller)
	// 10 base + int(100/(1+2)) speed bonus
	assert.Equal(t, 43, res.PointsEarned)
	assert.Equal(t, 10, res.BasePoints)
	assert.Equal(t, 33, res.TimeBonus)
	assert.Equal(t, 43, res.TotalPoints)
	assert.Equal(t, 43, repo.sessions[p.ID].Points)

	require.Len(t, board.scans, 1)
	assert.Equal(t, "cleared", board.scans[0].Result)
	assert.Equal(t, 43, board.scans[0].PointsEarned)
}

func TestCheckpointRepeatIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	board := &memBoard{}
	svc := newTestService(repo, board, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))
	started := now.Add(-2 * time.Minute)
	p.StartedAt = &started
	repo.controllers[1] = &models.Controller{ID: 1, Name: "Vault", IPAddress: "10.0.0.11"}

	first, err := svc.Checkpoint(ctx, "TAG-1", "10.0.0.11")
	require.NoError(t, err)

	second, err := svc.Checkpoint(ctx, "TAG-1", "10.0.0.11")
	require.NoError(t, err)
	assert.Equal(t, "Checkpoint already cleared.", second.Message)
	assert.Equal(t, 0, second.PointsEarned)
	assert.Equal(t, first.CheckpointID, second.CheckpointID)
	assert.Equal(t, first.TotalPoints, repo.sessions[p.ID].Points)

	require.Len(t, board.scans, 2)
	assert.Equal(t, "already_cleared", board.scans[1].Result)
}

func TestCheckpointUnknownController(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))

	_, err := svc.Checkpoint(context.Background(), "TAG-1", "10.0.0.99")
	require.ErrorIs(t, err, ErrControllerIP)
}

func TestAddCheckpointCreditsMissedScan(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	board := &memBoard{}
	svc := newTestService(repo, board, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))
	started := now.Add(-2 * time.Minute)
	p.StartedAt = &started
	repo.controllers[1] = &models.Controller{ID: 1, Name: "Vault", IPAddress: "10.0.0.11"}

	res, err := svc.AddCheckpoint(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Checkpoint added.", res.Message)
	// same scoring as the rfid path: 10 base + int(100/(1+2))
	assert.Equal(t, 43, res.PointsEarned)
	assert.Equal(t, 43, res.TotalPoints)
	assert.Equal(t, 43, repo.sessions[p.ID].Points)
	assert.Equal(t, 43, board.scores[p.ID])
}

func TestAddCheckpointExistingIsNotReawarded(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))
	repo.controllers[1] = &models.Controller{ID: 1, Name: "Vault", IPAddress: "10.0.0.11"}

	first, err := svc.Checkpoint(ctx, "TAG-1", "10.0.0.11")
	require.NoError(t, err)

	res, err := svc.AddCheckpoint(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "Checkpoint already exists.", res.Message)
	assert.Equal(t, first.PointsEarned, repo.sessions[p.ID].Points)
}

func TestAddCheckpointUnknownController(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))

	_, err := svc.AddCheckpoint(context.Background(), p.ID, 7)
	require.ErrorIs(t, err, ErrControllerID)
}

func TestCheckStaff(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, nil, time.Now())
	ctx := context.Background()

	repo.staff["STAFF-1"] = &models.StaffUser{ID: 1, Username: "ops", IsStaff: true, IsActive: true}
	repo.staff["STAFF-2"] = &models.StaffUser{ID: 2, Username: "former", IsStaff: true, IsActive: false}
	repo.staff["STAFF-3"] = &models.StaffUser{ID: 3, Username: "guest", IsStaff: false, IsActive: true}

	u, err := svc.CheckStaff(ctx, "STAFF-1")
	require.NoError(t, err)
	assert.Equal(t, "ops", u.Username)

	_, err = svc.CheckStaff(ctx, "STAFF-2")
	require.ErrorIs(t, err, ErrStaffInactive)

	_, err = svc.CheckStaff(ctx, "STAFF-3")
	require.ErrorIs(t, err, ErrNotStaff)

	_, err = svc.CheckStaff(ctx, "UNKNOWN")
	require.ErrorIs(t, err, ErrStaffNotFound)
}

func TestEndSessionAwardsNoRemainingPoints(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-10*time.Minute))
	p.Points = 20
	started := now.Add(-5 * time.Minute)
	p.LastStartedAt = &started
	p.IsPlaying = true

	require.NoError(t, svc.EndSession(context.Background(), p.ID))

	got := repo.sessions[p.ID]
	assert.Equal(t, models.StatusEnded, got.Status)
	assert.Equal(t, 20, got.Points)
	assert.Equal(t, 5*60, got.TotalElapsedSeconds)
	assert.False(t, got.IsPlaying)
}

func TestUpdateSessionTime(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 30, now.Add(-10*time.Minute))

	plus := 15
	got, err := svc.UpdateSessionTime(ctx, p.ID, &plus, nil)
	require.NoError(t, err)
	assert.Equal(t, 45, got.SessionMinutes)

	// reduction bottoms out at elapsed+1 minutes
	minus := -60
	got, err = svc.UpdateSessionTime(ctx, p.ID, &minus, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, got.SessionMinutes)

	points := 99
	got, err = svc.UpdateSessionTime(ctx, p.ID, nil, &points)
	require.NoError(t, err)
	assert.Equal(t, 99, got.Points)
}

func TestUpdateSessionTimePresetStep(t *testing.T) {
	repo := newMemRepo()
	repo.settings.SessionPresets = "15,30,45,60"
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 60, now.Add(-2*time.Minute))

	// a single reduction removes at most one preset step
	minus := -40
	got, err := svc.UpdateSessionTime(ctx, p.ID, &minus, nil)
	require.NoError(t, err)
	assert.Equal(t, 45, got.SessionMinutes)

	// the budget never drops below one step
	repo.sessions[p.ID].SessionMinutes = 20
	minus = -15
	got, err = svc.UpdateSessionTime(ctx, p.ID, &minus, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, got.SessionMinutes)

	// extensions are not stepped
	plus := 40
	got, err = svc.UpdateSessionTime(ctx, p.ID, &plus, nil)
	require.NoError(t, err)
	assert.Equal(t, 55, got.SessionMinutes)
}

func TestUpdateSessionTimeGates(t *testing.T) {
	repo := newMemRepo()
	repo.settings.AllowExtension = false
	repo.settings.AllowReduction = false
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	p := addApproved(repo, "Team", "TAG-1", 30, now.Add(-10*time.Minute))

	plus := 15
	got, err := svc.UpdateSessionTime(ctx, p.ID, &plus, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, got.SessionMinutes)

	minus := -15
	got, err = svc.UpdateSessionTime(ctx, p.ID, &minus, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, got.SessionMinutes)
}

func TestUpdateSessionTimeRejectsNonLive(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, nil, time.Now())

	p := addPending(repo, "Team")
	plus := 5
	_, err := svc.UpdateSessionTime(context.Background(), p.ID, &plus, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEndedSessionsNewestFirst(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	older := addApproved(repo, "Older", "TAG-1", 30, now.Add(-3*time.Hour))
	oldEnd := now.Add(-2 * time.Hour)
	older.Status = models.StatusEnded
	older.EndedAt = &oldEnd

	newer := addApproved(repo, "Newer", "TAG-2", 30, now.Add(-time.Hour))
	newEnd := now.Add(-10 * time.Minute)
	newer.Status = models.StatusEnded
	newer.EndedAt = &newEnd

	views, err := svc.EndedSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, newer.ID, views[0].ID)
	assert.Equal(t, older.ID, views[1].ID)
	assert.Equal(t, "10 mins ago", views[0].EndedAgo)
}

func TestLiveSessionsSweepsExpired(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	live := addApproved(repo, "Live", "TAG-1", 60, now.Add(-10*time.Minute))
	dead := addApproved(repo, "Dead", "TAG-2", 30, now.Add(-45*time.Minute))

	views, err := svc.LiveSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, live.ID, views[0].ID)
	assert.Equal(t, 50, views[0].RemainingMinutes)
	assert.Equal(t, models.StatusEnded, repo.sessions[dead.ID].Status)
}

func TestLeaderboardOrderAndTies(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)

	repo.controllers[1] = &models.Controller{ID: 1, Name: "Vault", IPAddress: "10.0.0.11"}
	repo.controllers[2] = &models.Controller{ID: 2, Name: "Lab", IPAddress: "10.0.0.12"}

	a := addApproved(repo, "Alpha", "TAG-1", 60, now.Add(-10*time.Minute))
	a.Points = 50
	a.CreatedAt = now.Add(-2 * time.Hour)

	b := addApproved(repo, "Bravo", "TAG-2", 60, now.Add(-10*time.Minute))
	b.Points = 50
	b.CreatedAt = now.Add(-time.Hour)

	c := addApproved(repo, "Charlie", "TAG-3", 60, now.Add(-10*time.Minute))
	c.Points = 80
	c.Status = models.StatusEnded
	ended := now.Add(-time.Minute)
	c.EndedAt = &ended

	entries, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Charlie", entries[0].Name)
	assert.Equal(t, "Alpha", entries[1].Name) // earlier signup wins the tie
	assert.Equal(t, "Bravo", entries[2].Name)
	assert.Equal(t, "live", entries[1].SessionStatus)
	assert.Equal(t, models.StatusEnded, entries[0].SessionStatus)
	assert.Equal(t, 2, entries[0].TotalControllers)
}

func TestEventsEmitted(t *testing.T) {
	repo := newMemRepo()
	now := time.Now()
	svc := newTestService(repo, nil, now)
	ctx := context.Background()

	var types []EventType
	svc.OnEvent = func(ev Event) { types = append(types, ev.Type) }

	p := addPending(repo, "Team")
	_, err := svc.Approve(ctx, p.ID, "TAG-1", 60)
	require.NoError(t, err)
	_, err = svc.Start(ctx, "TAG-1")
	require.NoError(t, err)
	_, err = svc.Stop(ctx, "TAG-1")
	require.NoError(t, err)

	assert.Equal(t, []EventType{EventSessionApproved, EventSessionStarted, EventSessionEnded}, types)
}
