// Package clock holds the session time arithmetic. Everything here is a pure
// function of wall-clock instants and session fields, so callers (handlers,
// the kiosk countdown, the expiry sweep) all agree on the same numbers.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m32jawad/Arena/internal/models"
)

// BasePoints is awarded for every newly cleared checkpoint, before the
// time bonus.
const BasePoints = 10

// RemainingSeconds returns how many whole seconds of playtime are left at
// instant now for a session approved at approvedAt with a budget of
// sessionMinutes. The result is truncated, never rounded, and never negative.
func RemainingSeconds(now, approvedAt time.Time, sessionMinutes int) int {
	deadline := approvedAt.Add(time.Duration(sessionMinutes) * time.Minute)
	rem := deadline.Sub(now) / time.Second
	if rem < 0 {
		return 0
	}
	return int(rem)
}

// SessionRemaining is RemainingSeconds applied to a session record.
// A session that was never approved has no countdown and reports zero.
func SessionRemaining(now time.Time, s *models.Session) int {
	if s.ApprovedAt == nil {
		return 0
	}
	return RemainingSeconds(now, *s.ApprovedAt, s.SessionMinutes)
}

// SessionElapsed returns the total seconds the party has actually played:
// the banked stopwatch value plus the currently running segment, if any.
func SessionElapsed(now time.Time, s *models.Session) int {
	elapsed := s.TotalElapsedSeconds
	if s.IsPlaying && s.LastStartedAt != nil {
		running := now.Sub(*s.LastStartedAt) / time.Second
		if running > 0 {
			elapsed += int(running)
		}
	}
	return elapsed
}

// FormatClock renders seconds as zero-padded MM:SS. Values are truncated, so
// a session with one second left shows 00:01 until it actually reaches zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ApplyExtraMinutes returns the new session_minutes after a staff +/- delta.
// Extensions add freely when allowed. Reductions are floored so the budget
// can never drop below the time already played plus one minute (and never
// below one minute outright). A delta the settings do not allow is ignored.
func ApplyExtraMinutes(sessionMinutes, delta, elapsedSeconds int, allowExtension, allowReduction bool) int {
	switch {
	case delta > 0 && allowExtension:
		return sessionMinutes + delta
	case delta < 0 && allowReduction:
		floor := elapsedSeconds/60 + 1
		if floor < 1 {
			floor = 1
		}
		next := sessionMinutes + delta
		if next < floor {
			return floor
		}
		return next
	default:
		return sessionMinutes
	}
}

// PresetStep parses the session_presets setting ("15,30,45,60") and returns
// the minute step the extension/reduction controls move by: the smallest
// positive value listed. An empty or unparseable setting yields 0, which
// disables the step guard.
func PresetStep(presets string) int {
	step := 0
	for _, f := range strings.Split(presets, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			continue
		}
		if step == 0 || n < step {
			step = n
		}
	}
	return step
}

// ClampReduction bounds one reduction request to a single preset step: the
// dashboard's minus control removes at most step minutes per click, however
// large a delta the request carries. Extensions and a zero step pass
// through unchanged.
func ClampReduction(delta, step int) int {
	if delta >= 0 || step <= 0 {
		return delta
	}
	if delta < -step {
		return -step
	}
	return delta
}

// TimeBonus converts the seconds elapsed before a checkpoint clear into its
// speed bonus: 100 / (1 + elapsed_minutes), truncated. One minute in is
// worth 50, five minutes ~16, tailing off toward zero.
func TimeBonus(elapsedSeconds int) int {
	elapsedMinutes := float64(elapsedSeconds) / 60.0
	return int(100.0 / (1.0 + elapsedMinutes))
}

// CheckpointPoints is the full award for a newly cleared checkpoint.
func CheckpointPoints(elapsedSeconds int) int {
	return BasePoints + TimeBonus(elapsedSeconds)
}

// EndedAgo renders how long ago a session ended, in the coarse buckets the
// dashboard displays ("5 mins ago", "3 hrs ago", "2 days ago").
func EndedAgo(now, endedAt time.Time) string {
	mins := int(now.Sub(endedAt).Minutes())
	if mins < 0 {
		mins = 0
	}
	switch {
	case mins < 60:
		return fmt.Sprintf("%d min%s ago", mins, plural(mins))
	case mins < 1440:
		hrs := mins / 60
		return fmt.Sprintf("%d hr%s ago", hrs, plural(hrs))
	default:
		days := mins / 1440
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
