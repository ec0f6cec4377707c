package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/m32jawad/Arena/internal/models"
)

// Store adapts the package-level query functions to the interfaces consumed
// by internal/arena. It carries no state; every method runs against the
// global pool.
type Store struct{}

func (Store) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return GetSession(ctx, id)
}

func (Store) GetLatestSessionByTag(ctx context.Context, tag string) (*models.Session, error) {
	return GetLatestSessionByTag(ctx, tag)
}

func (Store) GetApprovedSessionByTag(ctx context.Context, tag string) (*models.Session, error) {
	return GetApprovedSessionByTag(ctx, tag)
}

func (Store) ListSessionsByStatus(ctx context.Context, statuses ...string) ([]*models.Session, error) {
	return ListSessionsByStatus(ctx, statuses...)
}

func (Store) UpdateSession(ctx context.Context, s *models.Session) error {
	return UpdateSession(ctx, s)
}

func (Store) ApprovedTagInUse(ctx context.Context, tag string, exclude uuid.UUID) (bool, error) {
	return ApprovedTagInUse(ctx, tag, exclude)
}

func (Store) CreateCheckpoint(ctx context.Context, cp *models.Checkpoint) (bool, error) {
	return CreateCheckpoint(ctx, cp)
}

func (Store) ListCheckpoints(ctx context.Context, sessionID uuid.UUID) ([]*models.Checkpoint, error) {
	return ListCheckpoints(ctx, sessionID)
}

func (Store) GetController(ctx context.Context, id int) (*models.Controller, error) {
	return GetController(ctx, id)
}

func (Store) GetControllerByIP(ctx context.Context, ip string) (*models.Controller, error) {
	return GetControllerByIP(ctx, ip)
}

func (Store) ListControllers(ctx context.Context) ([]*models.Controller, error) {
	return ListControllers(ctx)
}

func (Store) CountControllers(ctx context.Context) (int, error) {
	return CountControllers(ctx)
}

func (Store) GetStoryline(ctx context.Context, id int) (*models.Storyline, error) {
	return GetStoryline(ctx, id)
}

func (Store) GetStaffByRFID(ctx context.Context, tag string) (*models.StaffUser, error) {
	return GetStaffByRFID(ctx, tag)
}

func (Store) LoadSettings(ctx context.Context) (*models.GeneralSettings, error) {
	return LoadSettings(ctx)
}
