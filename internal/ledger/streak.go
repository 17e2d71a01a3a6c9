package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/minho/lingua/internal/rewards"
	"github.com/minho/lingua/internal/store"
)

// dayFormat is the calendar-day encoding used throughout the streak
// ledger. All comparisons happen in UTC; shifting the boundary per user
// would silently move streak deadlines.
const dayFormat = "2006-01-02"

// StreakResult reports the outcome of recording a day's activity.
type StreakResult struct {
	Streak     int                `json:"streak"`
	Longest    int                `json:"longest_streak"`
	Increased  bool               `json:"increased"`
	Reset      bool               `json:"reset,omitempty"`
	FreezeUsed bool               `json:"freeze_used,omitempty"`
	Milestone  *rewards.Milestone `json:"milestone,omitempty"`
}

// RecordActivity advances the user's daily streak for today (UTC).
// Repeated calls on the same calendar day are no-ops. A gap of one day
// extends the streak; longer gaps consume a freeze token if one is
// available and otherwise reset the streak to one. Milestone rewards are
// granted through the XP ledger after the streak record commits.
func (s *Service) RecordActivity(ctx context.Context, userID string) (*StreakResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userID", Reason: "must not be empty"}
	}

	today := s.clock.Now().UTC()
	todayStr := today.Format(dayFormat)

	var res StreakResult
	err := s.store.Streaks().Transact(ctx, userID, func(rec *store.StreakRecord) error {
		rec.UserID = userID

		gap, err := dayGap(rec.LastActivity, today)
		if err != nil {
			return fmt.Errorf("corrupt last activity date %q: %w", rec.LastActivity, err)
		}

		counted := true
		switch {
		case rec.LastActivity == "":
			// First ever activity.
			rec.Days = 1
			res.Increased = true
			rec.History = append(rec.History, store.StreakEntry{Date: todayStr, Active: true})

		case gap <= 0:
			// Same calendar day; nothing to record.
			counted = false

		case gap == 1:
			rec.Days++
			res.Increased = true
			rec.History = append(rec.History, store.StreakEntry{Date: todayStr, Active: true})
			if ms, ok := rewards.MilestoneFor(rec.Days); ok {
				res.Milestone = &ms
			}

		case rec.FreezeCount > 0:
			// The freeze covers the gap; the streak survives intact.
			rec.FreezeCount--
			res.FreezeUsed = true
			rec.History = append(rec.History, store.StreakEntry{Date: todayStr, Active: true, FreezeUsed: true})

		default:
			rec.Days = 1
			res.Reset = true
			rec.History = append(rec.History, store.StreakEntry{Date: todayStr, Active: true})
		}

		if counted {
			rec.LastActivity = todayStr
		}
		if rec.Days > rec.Longest {
			rec.Longest = rec.Days
		}
		res.Streak = rec.Days
		res.Longest = rec.Longest
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Milestone != nil {
		reason := fmt.Sprintf("streak milestone: %d days", res.Milestone.Days)
		if _, err := s.GrantXP(ctx, userID, res.Milestone.XP, reason); err != nil {
			return nil, err
		}
		if err := s.GrantBadge(ctx, userID, res.Milestone.Badge); err != nil {
			return nil, err
		}
	}

	return &res, nil
}

// GrantFreeze atomically adds count freeze tokens (default one) to the
// user's streak record and returns the new balance.
func (s *Service) GrantFreeze(ctx context.Context, userID string, count int) (int, error) {
	if userID == "" {
		return 0, &ValidationError{Field: "userID", Reason: "must not be empty"}
	}
	if count < 0 {
		return 0, &ValidationError{Field: "count", Reason: "must not be negative"}
	}
	if count == 0 {
		count = 1
	}

	var balance int
	err := s.store.Streaks().Transact(ctx, userID, func(rec *store.StreakRecord) error {
		rec.UserID = userID
		rec.FreezeCount += count
		balance = rec.FreezeCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Streak returns the user's streak record, or store.ErrNotFound.
func (s *Service) Streak(ctx context.Context, userID string) (*store.StreakRecord, error) {
	return s.store.Streaks().Get(ctx, userID)
}

// dayGap returns the whole calendar days between the stored last-activity
// day and now, both in UTC. An empty last day returns 0.
func dayGap(lastDay string, now time.Time) (int, error) {
	if lastDay == "" {
		return 0, nil
	}
	last, err := time.Parse(dayFormat, lastDay)
	if err != nil {
		return 0, err
	}
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(last).Hours() / 24), nil
}
