package rewards

import "testing"

func TestForLevel(t *testing.T) {
	tests := []struct {
		level int
		badge string
		title string
		bonus int
	}{
		{1, "level-1", "Level 1 Novice", 10},
		{4, "level-4", "Level 4 Novice", 40},
		{5, "level-5", "Level 5 Conversationalist", 50},
		{10, "level-10", "Level 10 Scholar", 100},
		{20, "level-20", "Level 20 Sage", 200},
		{37, "level-37", "Level 37 Sage", 370},
	}

	for _, tt := range tests {
		rw := ForLevel(tt.level)
		if rw.Badge != tt.badge {
			t.Errorf("ForLevel(%d).Badge = %q, want %q", tt.level, rw.Badge, tt.badge)
		}
		if rw.Title != tt.title {
			t.Errorf("ForLevel(%d).Title = %q, want %q", tt.level, rw.Title, tt.title)
		}
		if rw.Bonus != tt.bonus {
			t.Errorf("ForLevel(%d).Bonus = %d, want %d", tt.level, rw.Bonus, tt.bonus)
		}
	}
}

func TestMilestoneFor(t *testing.T) {
	tests := []struct {
		days  int
		ok    bool
		badge string
		xp    int
	}{
		{6, false, "", 0},
		{7, true, "streak-bronze", 100},
		{8, false, "", 0},
		{30, true, "streak-silver", 500},
		{100, true, "streak-gold", 2000},
		{365, true, "streak-diamond", 10000},
		{366, false, "", 0},
	}

	for _, tt := range tests {
		ms, ok := MilestoneFor(tt.days)
		if ok != tt.ok {
			t.Errorf("MilestoneFor(%d) ok = %v, want %v", tt.days, ok, tt.ok)
			continue
		}
		if ok && (ms.Badge != tt.badge || ms.XP != tt.xp) {
			t.Errorf("MilestoneFor(%d) = %+v", tt.days, ms)
		}
	}
}

func TestMilestonesIsACopy(t *testing.T) {
	ms := Milestones()
	if len(ms) != 4 {
		t.Fatalf("Milestones() length = %d, want 4", len(ms))
	}
	ms[0].XP = 1

	again, _ := MilestoneFor(7)
	if again.XP != 100 {
		t.Error("mutating the returned slice leaked into the schedule")
	}
}

func TestBloomBadge(t *testing.T) {
	if got := BloomBadge("은/는 particle"); got != "garden:bloom:은/는 particle" {
		t.Errorf("BloomBadge() = %q", got)
	}
}
