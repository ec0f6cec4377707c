package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// recentScanLimit caps each station's scan history list.
const recentScanLimit = 50

// RecentScan is one RFID event at a station, as shown on the per-station
// recent-activity panel.
type RecentScan struct {
	RFIDTag      string    `json:"rfid_tag"`
	PartyName    string    `json:"party_name"`
	Result       string    `json:"result"` // "cleared", "already_cleared", "rejected"
	PointsEarned int       `json:"points_earned"`
	ScannedAt    time.Time `json:"scanned_at"`
}

func recentKey(controllerID int) string {
	return fmt.Sprintf("station:%d:recent", controllerID)
}

// PushRecentScan prepends a scan to the station's history and trims it.
func PushRecentScan(ctx context.Context, controllerID int, scan RecentScan) error {
	data, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("failed to marshal recent scan: %w", err)
	}
	key := recentKey(controllerID)
	if err := Rdb.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to push recent scan to '%s': %w", key, err)
	}
	return Rdb.LTrim(ctx, key, 0, recentScanLimit-1).Err()
}

// RecentScans returns the newest scans at a station, most recent first.
func RecentScans(ctx context.Context, controllerID, limit int) ([]RecentScan, error) {
	if limit <= 0 || limit > recentScanLimit {
		limit = recentScanLimit
	}
	raw, err := Rdb.LRange(ctx, recentKey(controllerID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	scans := make([]RecentScan, 0, len(raw))
	for _, item := range raw {
		var scan RecentScan
		if err := json.Unmarshal([]byte(item), &scan); err != nil {
			continue
		}
		scans = append(scans, scan)
	}
	return scans, nil
}
