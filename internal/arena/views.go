package arena

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m32jawad/Arena/internal/clock"
	"github.com/m32jawad/Arena/internal/models"
)

// SessionView is the dashboard projection of a session: the record plus the
// derived countdown/stopwatch numbers and checkpoint progress.
type SessionView struct {
	*models.Session
	StorylineTitle     string           `json:"storyline_title"`
	Checkpoints        []CheckpointView `json:"checkpoints"`
	CheckpointsCleared int              `json:"checkpoints_cleared"`
	RemainingMinutes   int              `json:"remaining_minutes"`
	ElapsedSeconds     int              `json:"elapsed_seconds"`
	EndedAgo           string           `json:"ended_ago,omitempty"`
}

// LeaderboardEntry is the public ranking projection.
type LeaderboardEntry struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	TeamSize           int              `json:"team_size"`
	Points             int              `json:"points"`
	AvatarID           string           `json:"avatar_id"`
	StorylineTitle     string           `json:"storyline_title"`
	SessionMinutes     int              `json:"session_minutes"`
	RemainingMinutes   int              `json:"remaining_minutes"`
	SessionStatus      string           `json:"session_status"`
	CheckpointsCleared int              `json:"checkpoints_cleared"`
	TotalControllers   int              `json:"total_controllers"`
	Checkpoints        []CheckpointView `json:"checkpoints"`
	CreatedAt          time.Time        `json:"created_at"`
	ApprovedAt         *time.Time       `json:"approved_at"`
}

// PendingSignups lists signups awaiting staff review, oldest first.
func (s *Service) PendingSignups(ctx context.Context) ([]*SessionView, error) {
	pending, err := s.repo.ListSessionsByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}
	views := make([]*SessionView, 0, len(pending))
	for _, p := range pending {
		views = append(views, &SessionView{
			Session:        p,
			StorylineTitle: s.storylineTitle(ctx, p),
			Checkpoints:    []CheckpointView{},
		})
	}
	return views, nil
}

// LiveSessions returns approved sessions that still have playtime. Expired
// ones encountered on the way are ended in place and excluded.
func (s *Service) LiveSessions(ctx context.Context) ([]*SessionView, error) {
	approved, err := s.repo.ListSessionsByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, err
	}

	now := s.now()
	live := make([]*SessionView, 0, len(approved))
	for _, p := range approved {
		remaining := clock.SessionRemaining(now, p)
		if remaining <= 0 {
			if err := s.endExpired(ctx, p); err != nil {
				return nil, err
			}
			continue
		}
		v, err := s.sessionView(ctx, p)
		if err != nil {
			return nil, err
		}
		v.RemainingMinutes = remaining / 60
		v.ElapsedSeconds = clock.SessionElapsed(now, p)
		live = append(live, v)
	}
	return live, nil
}

// EndedSessions sweeps expired sessions and returns everything ended, most
// recently ended first.
func (s *Service) EndedSessions(ctx context.Context) ([]*SessionView, error) {
	now := s.now()

	// sweep: any approved session out of time joins the ended set
	approved, err := s.repo.ListSessionsByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	for _, p := range approved {
		if clock.SessionRemaining(now, p) <= 0 {
			if err := s.endExpired(ctx, p); err != nil {
				return nil, err
			}
		}
	}

	ended, err := s.repo.ListSessionsByStatus(ctx, models.StatusEnded)
	if err != nil {
		return nil, err
	}
	sort.Slice(ended, func(i, j int) bool {
		return endTime(ended[i]).After(endTime(ended[j]))
	})

	views := make([]*SessionView, 0, len(ended))
	for _, p := range ended {
		v, err := s.sessionView(ctx, p)
		if err != nil {
			return nil, err
		}
		v.ElapsedSeconds = p.TotalElapsedSeconds
		v.EndedAgo = clock.EndedAgo(now, endTime(p))
		views = append(views, v)
	}
	return views, nil
}

// Leaderboard projects all live and ended sessions ranked by points, with
// checkpoint progress against the current station count.
func (s *Service) Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	sessions, err := s.repo.ListSessionsByStatus(ctx, models.StatusApproved, models.StatusEnded)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountControllers(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Points != sessions[j].Points {
			return sessions[i].Points > sessions[j].Points
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	now := s.now()
	entries := make([]*LeaderboardEntry, 0, len(sessions))
	for _, p := range sessions {
		cps, err := s.checkpointViews(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		status := p.Status
		remainingMinutes := 0
		if p.Status == models.StatusApproved {
			remaining := clock.SessionRemaining(now, p)
			if remaining > 0 {
				status = "live"
				remainingMinutes = remaining / 60
			} else {
				status = models.StatusEnded
			}
		}

		entries = append(entries, &LeaderboardEntry{
			ID:                 p.ID,
			Name:               p.PartyName,
			Email:              p.Email,
			TeamSize:           p.TeamSize,
			Points:             p.Points,
			AvatarID:           p.AvatarID,
			StorylineTitle:     s.storylineTitle(ctx, p),
			SessionMinutes:     p.SessionMinutes,
			RemainingMinutes:   remainingMinutes,
			SessionStatus:      status,
			CheckpointsCleared: len(cps),
			TotalControllers:   total,
			Checkpoints:        cps,
			CreatedAt:          p.CreatedAt,
			ApprovedAt:         p.ApprovedAt,
		})
	}
	return entries, nil
}

func (s *Service) sessionView(ctx context.Context, p *models.Session) (*SessionView, error) {
	cps, err := s.checkpointViews(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		Session:            p,
		StorylineTitle:     s.storylineTitle(ctx, p),
		Checkpoints:        cps,
		CheckpointsCleared: len(cps),
	}, nil
}

func (s *Service) storylineTitle(ctx context.Context, p *models.Session) string {
	if p.StorylineID == nil {
		return ""
	}
	story, err := s.repo.GetStoryline(ctx, *p.StorylineID)
	if err != nil {
		return ""
	}
	return story.Title
}

// endTime picks the best available terminal timestamp for ordering and the
// "ended ago" display.
func endTime(p *models.Session) time.Time {
	switch {
	case p.EndedAt != nil:
		return *p.EndedAt
	case p.ApprovedAt != nil:
		return *p.ApprovedAt
	default:
		return p.CreatedAt
	}
}
