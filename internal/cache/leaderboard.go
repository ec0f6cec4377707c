package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// leaderboardKey is the ZSET holding session points for the public top-N read
// path. Postgres stays the source of truth; this is a projection that is
// rewritten on every scoring event.
const leaderboardKey = "arena:leaderboard"

// UpdateScore writes a session's current points into the leaderboard ZSET.
func UpdateScore(ctx context.Context, sessionID uuid.UUID, points int) error {
	return Rdb.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(points),
		Member: sessionID.String(),
	}).Err()
}

// RemoveScore drops a session from the leaderboard ZSET (rejected/deleted).
func RemoveScore(ctx context.Context, sessionID uuid.UUID) error {
	return Rdb.ZRem(ctx, leaderboardKey, sessionID.String()).Err()
}

// TopSessions returns up to limit session ids ordered by points descending.
func TopSessions(ctx context.Context, limit int) ([]uuid.UUID, error) {
	results, err := Rdb.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(results))
	for _, member := range results {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Rank returns a session's 1-indexed leaderboard position, or -1 if absent.
func Rank(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	rank, err := Rdb.ZRevRank(ctx, leaderboardKey, sessionID.String()).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err
}
