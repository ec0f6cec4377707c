package cache

import (
	"context"

	"github.com/google/uuid"
)

// Board exposes the redis projections behind the arena.Scoreboard interface.
type Board struct{}

func (Board) UpdateScore(ctx context.Context, sessionID uuid.UUID, points int) error {
	return UpdateScore(ctx, sessionID, points)
}

func (Board) PushScan(ctx context.Context, controllerID int, scan RecentScan) error {
	return PushRecentScan(ctx, controllerID, scan)
}
