package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/facebookgo/clock"

	"github.com/minho/lingua/internal/store"
)

func newTestService() *Service {
	return NewService(store.NewMemory(), clock.NewMock())
}

func TestGrantXP(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	res, err := svc.GrantXP(ctx, "u1", 40, "lesson complete")
	if err != nil {
		t.Fatalf("GrantXP() error = %v", err)
	}
	if res.XPEarned != 40 || res.TotalXP != 40 || res.Level != 0 || res.LeveledUp {
		t.Errorf("result = %+v, want 40 XP at level 0", res)
	}

	rec, err := svc.Record(ctx, "u1")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(rec.History) != 1 {
		t.Fatalf("History length = %d, want 1", len(rec.History))
	}
	entry := rec.History[0]
	if entry.Amount != 40 || entry.Reason != "lesson complete" || entry.Total != 40 {
		t.Errorf("history entry = %+v", entry)
	}
}

func TestGrantXPLevelUp(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.GrantXP(ctx, "u1", 90, "warmup"); err != nil {
		t.Fatal(err)
	}
	res, err := svc.GrantXP(ctx, "u1", 20, "crossed the line")
	if err != nil {
		t.Fatal(err)
	}

	if !res.LeveledUp {
		t.Fatal("LeveledUp = false, want true at 110 XP")
	}
	if res.Level != 1 {
		t.Errorf("Level = %d, want 1", res.Level)
	}
	if res.Reward == nil {
		t.Fatal("Reward = nil, want a level reward")
	}
	if res.Reward.Badge != "level-1" {
		t.Errorf("Reward.Badge = %q, want %q", res.Reward.Badge, "level-1")
	}
	if res.Reward.Title != "Level 1 Novice" {
		t.Errorf("Reward.Title = %q", res.Reward.Title)
	}

	rec, _ := svc.Record(ctx, "u1")
	if !rec.HasBadge("level-1") {
		t.Error("record is missing the level-1 badge")
	}
}

func TestGrantXPMultiLevelJump(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// 600 XP in one grant skips straight to level 3.
	res, err := svc.GrantXP(ctx, "u1", 600, "imported progress")
	if err != nil {
		t.Fatal(err)
	}
	if res.Level != 3 || !res.LeveledUp {
		t.Errorf("result = %+v, want level 3 with a level-up", res)
	}
	if res.Reward.Badge != "level-3" {
		t.Errorf("Reward.Badge = %q, want level-3 only", res.Reward.Badge)
	}
}

func TestGrantXPValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		amount int
		reason string
	}{
		{"empty user", "", 10, "r"},
		{"zero amount", "u1", 0, "r"},
		{"negative amount", "u1", -5, "r"},
		{"empty reason", "u1", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GrantXP(ctx, tt.userID, tt.amount, tt.reason)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("GrantXP() error = %v, want *ValidationError", err)
			}
		})
	}

	if _, err := svc.Record(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Record() after rejected grants = %v, want ErrNotFound", err)
	}
}

func TestGrantXPConcurrent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GrantXP(ctx, "u1", 10, "parallel"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	rec, err := svc.Record(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.XP != workers*10 {
		t.Errorf("XP = %d, want %d", rec.XP, workers*10)
	}
	if len(rec.History) != workers {
		t.Errorf("History length = %d, want %d", len(rec.History), workers)
	}
}

func TestGrantBadgeIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.GrantBadge(ctx, "u1", "early-bird"); err != nil {
			t.Fatal(err)
		}
	}

	rec, err := svc.Record(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Badges) != 1 {
		t.Errorf("Badges = %v, want exactly one", rec.Badges)
	}
}

func TestRecordUnknownUser(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Record(context.Background(), "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Record() = %v, want ErrNotFound", err)
	}
}
