package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// testStoreContract runs the behavior every backend must share: lazy
// creation for XP and streak records, strict existence for plants, and
// atomic read-modify-write semantics.
func testStoreContract(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("xp get missing", func(t *testing.T) {
		if _, err := st.XP().Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() = %v, want ErrNotFound", err)
		}
	})

	t.Run("xp transact creates lazily", func(t *testing.T) {
		err := st.XP().Transact(ctx, "alice", func(rec *XPRecord) error {
			if rec.UserID != "alice" {
				t.Errorf("UserID = %q, want prefilled", rec.UserID)
			}
			rec.XP = 50
			rec.Badges = append(rec.Badges, "starter")
			rec.History = append(rec.History, XPEntry{
				Amount: 50, Reason: "test", At: time.Now().UTC(), Total: 50,
			})
			return nil
		})
		if err != nil {
			t.Fatalf("Transact() error = %v", err)
		}

		rec, err := st.XP().Get(ctx, "alice")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if rec.XP != 50 || len(rec.Badges) != 1 || len(rec.History) != 1 {
			t.Errorf("record = %+v, want the transacted state", rec)
		}
		if rec.History[0].Reason != "test" {
			t.Errorf("History[0] = %+v", rec.History[0])
		}
	})

	t.Run("xp fn error discards changes", func(t *testing.T) {
		boom := errors.New("boom")
		err := st.XP().Transact(ctx, "alice", func(rec *XPRecord) error {
			rec.XP = 9999
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Transact() = %v, want the fn error", err)
		}

		rec, _ := st.XP().Get(ctx, "alice")
		if rec.XP != 50 {
			t.Errorf("XP = %d after aborted transact, want 50", rec.XP)
		}
	})

	t.Run("streak transact creates lazily", func(t *testing.T) {
		err := st.Streaks().Transact(ctx, "alice", func(rec *StreakRecord) error {
			rec.UserID = "alice"
			rec.Days = 3
			rec.Longest = 3
			rec.LastActivity = "2026-08-27"
			rec.History = append(rec.History, StreakEntry{Date: "2026-08-27", Active: true})
			return nil
		})
		if err != nil {
			t.Fatalf("Transact() error = %v", err)
		}

		rec, err := st.Streaks().Get(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if rec.Days != 3 || rec.LastActivity != "2026-08-27" || len(rec.History) != 1 {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("streak get missing", func(t *testing.T) {
		if _, err := st.Streaks().Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() = %v, want ErrNotFound", err)
		}
	})

	t.Run("plant lifecycle", func(t *testing.T) {
		p := &Plant{
			ID:       "p1",
			UserID:   "alice",
			Item:     "은/는 particle",
			Category: CategoryGrammar,
			Stage:    StageSeed,
			History:  []ErrorEntry{{At: time.Now().UTC(), Context: "first slip"}},
		}
		if err := st.Plants().Create(ctx, p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		dup := &Plant{ID: "p2", UserID: "alice", Item: "은/는 particle", Category: CategoryGrammar, Stage: StageSeed}
		if err := st.Plants().Create(ctx, dup); !errors.Is(err, ErrConflict) {
			t.Errorf("Create() duplicate = %v, want ErrConflict", err)
		}

		got, err := st.Plants().Find(ctx, "alice", "은/는 particle", CategoryGrammar)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if got.ID != "p1" {
			t.Errorf("Find() ID = %s, want p1", got.ID)
		}

		if _, err := st.Plants().Find(ctx, "alice", "은/는 particle", CategoryPronunciation); !errors.Is(err, ErrNotFound) {
			t.Errorf("Find() other category = %v, want ErrNotFound", err)
		}

		err = st.Plants().Transact(ctx, "alice", "p1", func(p *Plant) error {
			p.PracticeCount = 3
			p.Mastery = 0.3
			p.Stage = StageSprout
			p.History = append(p.History, ErrorEntry{At: time.Now().UTC(), Corrected: true})
			return nil
		})
		if err != nil {
			t.Fatalf("Transact() error = %v", err)
		}

		got, err = st.Plants().Get(ctx, "alice", "p1")
		if err != nil {
			t.Fatal(err)
		}
		if got.Stage != StageSprout || got.PracticeCount != 3 || len(got.History) != 2 {
			t.Errorf("plant = %+v", got)
		}
	})

	t.Run("plant transact missing", func(t *testing.T) {
		err := st.Plants().Transact(ctx, "alice", "no-such-plant", func(*Plant) error { return nil })
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Transact() = %v, want ErrNotFound", err)
		}
	})

	t.Run("plant list is per user", func(t *testing.T) {
		other := &Plant{ID: "p9", UserID: "bob", Item: "받침", Category: CategoryPronunciation, Stage: StageSeed}
		if err := st.Plants().Create(ctx, other); err != nil {
			t.Fatal(err)
		}

		plants, err := st.Plants().List(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if len(plants) != 1 || plants[0].ID != "p1" {
			t.Errorf("List(alice) = %v, want only p1", plants)
		}
	})
}

func TestIsTransient(t *testing.T) {
	inner := errors.New("socket closed")
	err := &TransientError{Err: inner}

	if !IsTransient(err) {
		t.Error("IsTransient = false for a TransientError")
	}
	if !errors.Is(err, inner) {
		t.Error("TransientError must unwrap to its cause")
	}
	if IsTransient(ErrNotFound) {
		t.Error("IsTransient = true for ErrNotFound")
	}
	if IsTransient(nil) {
		t.Error("IsTransient = true for nil")
	}
}
