package clock

import (
	"testing"
	"time"

	"github.com/m32jawad/Arena/internal/models"
)

func TestRemainingSecondsMonotonic(t *testing.T) {
	approved := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := RemainingSeconds(approved, approved, 10); got != 600 {
		t.Fatalf("at approval expected 600, got %d", got)
	}
	// 59.999s in is still inside the same minute bucket
	if got := RemainingSeconds(approved.Add(59*time.Second+999*time.Millisecond), approved, 10); got/60 != 9 {
		t.Fatalf("expected minute bucket 9, got %d (remaining %d)", got/60, got)
	}
	// exactly at the deadline
	if got := RemainingSeconds(approved.Add(10*time.Minute), approved, 10); got != 0 {
		t.Fatalf("at deadline expected 0, got %d", got)
	}
	// well past the deadline never goes negative
	if got := RemainingSeconds(approved.Add(time.Hour), approved, 10); got != 0 {
		t.Fatalf("past deadline expected 0, got %d", got)
	}
}

func TestRemainingSecondsTruncates(t *testing.T) {
	approved := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	// 0.2s before the deadline: one displayable second left, not zero
	now := approved.Add(10*time.Minute - 200*time.Millisecond)
	if got := RemainingSeconds(now, approved, 10); got != 0 {
		t.Fatalf("sub-second remainder truncates to 0, got %d", got)
	}
	now = approved.Add(10*time.Minute - 1200*time.Millisecond)
	if got := RemainingSeconds(now, approved, 10); got != 1 {
		t.Fatalf("1.2s remainder truncates to 1, got %d", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:   "00:00",
		1:   "00:01",
		59:  "00:59",
		60:  "01:00",
		600: "10:00",
		-5:  "00:00",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSessionElapsed(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 10, 0, 0, time.UTC)
	started := now.Add(-90 * time.Second)

	s := &models.Session{TotalElapsedSeconds: 120}
	if got := SessionElapsed(now, s); got != 120 {
		t.Fatalf("paused session: expected banked 120, got %d", got)
	}

	s.IsPlaying = true
	s.LastStartedAt = &started
	if got := SessionElapsed(now, s); got != 210 {
		t.Fatalf("running session: expected 120+90=210, got %d", got)
	}
}

func TestApplyExtraMinutes(t *testing.T) {
	// extension allowed
	if got := ApplyExtraMinutes(10, 5, 0, true, true); got != 15 {
		t.Fatalf("extension: expected 15, got %d", got)
	}
	// extension disallowed is ignored
	if got := ApplyExtraMinutes(10, 5, 0, false, true); got != 10 {
		t.Fatalf("blocked extension: expected 10, got %d", got)
	}
	// reduction disallowed is ignored
	if got := ApplyExtraMinutes(10, -5, 0, true, false); got != 10 {
		t.Fatalf("blocked reduction: expected 10, got %d", got)
	}
	// simple reduction
	if got := ApplyExtraMinutes(10, -5, 0, true, true); got != 5 {
		t.Fatalf("reduction: expected 5, got %d", got)
	}
	// reduction floors at elapsed+1 minutes
	if got := ApplyExtraMinutes(10, -9, 240, true, true); got != 5 {
		t.Fatalf("floored reduction: expected 5 (4 elapsed mins + 1), got %d", got)
	}
	// repeated reductions cannot burrow below the floor
	minutes := 10
	for i := 0; i < 20; i++ {
		minutes = ApplyExtraMinutes(minutes, -5, 60, true, true)
	}
	if minutes != 2 {
		t.Fatalf("repeated reductions: expected floor 2, got %d", minutes)
	}
}

func TestPresetStep(t *testing.T) {
	cases := []struct {
		presets string
		want    int
	}{
		{"15,30,45,60", 15},
		{"30, 15, 60", 15},
		{"5", 5},
		{"", 0},
		{"abc", 0},
		{"0,-5", 0},
		{"x,20,y", 20},
	}
	for _, c := range cases {
		if got := PresetStep(c.presets); got != c.want {
			t.Errorf("PresetStep(%q) = %d, want %d", c.presets, got, c.want)
		}
	}
}

func TestClampReduction(t *testing.T) {
	cases := []struct {
		delta, step, want int
	}{
		{-30, 15, -15}, // one click removes at most one step
		{-15, 15, -15},
		{-5, 15, -5},
		{-30, 0, -30}, // no presets configured, no guard
		{20, 15, 20},  // extensions pass through
		{0, 15, 0},
	}
	for _, c := range cases {
		if got := ClampReduction(c.delta, c.step); got != c.want {
			t.Errorf("ClampReduction(%d, %d) = %d, want %d", c.delta, c.step, got, c.want)
		}
	}
	// repeated single decrements never request more than one step each
	for pending := 0; pending > -100; {
		step := ClampReduction(pending-15, 15) - pending
		if step < -15 {
			t.Fatalf("decrement from %d requested %d minutes", pending, step)
		}
		pending += step
		if step == 0 {
			break
		}
	}
}

func TestTimeBonus(t *testing.T) {
	cases := []struct {
		elapsed int
		want    int
	}{
		{0, 100},
		{60, 50},
		{120, 33},
		{300, 16},
		{600, 9},
	}
	for _, c := range cases {
		if got := TimeBonus(c.elapsed); got != c.want {
			t.Errorf("TimeBonus(%d) = %d, want %d", c.elapsed, got, c.want)
		}
	}
	if got := CheckpointPoints(60); got != 60 {
		t.Errorf("CheckpointPoints(60) = %d, want 60", got)
	}
}

func TestEndedAgo(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{90 * time.Second, "1 min ago"},
		{5 * time.Minute, "5 mins ago"},
		{90 * time.Minute, "1 hr ago"},
		{3 * time.Hour, "3 hrs ago"},
		{49 * time.Hour, "2 days ago"},
	}
	for _, c := range cases {
		if got := EndedAgo(now, now.Add(-c.ago)); got != c.want {
			t.Errorf("EndedAgo(-%v) = %q, want %q", c.ago, got, c.want)
		}
	}
}
