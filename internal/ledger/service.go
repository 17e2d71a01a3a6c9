// Package ledger applies gamification updates (XP, streaks, and the
// mistake garden) as atomic read-modify-writes against per-user records.
package ledger

import (
	"context"

	"github.com/facebookgo/clock"

	"github.com/minho/lingua/internal/rewards"
	"github.com/minho/lingua/internal/store"
)

// Service is the gamification ledger. It owns no state of its own; every
// mutation runs inside a store transaction.
type Service struct {
	store store.Store
	clock clock.Clock
}

// NewService creates a ledger over the given store. A nil clk falls back
// to the wall clock.
func NewService(st store.Store, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.New()
	}
	return &Service{store: st, clock: clk}
}

// XPResult reports the outcome of an XP grant.
type XPResult struct {
	XPEarned  int                  `json:"xp_earned"`
	TotalXP   int                  `json:"total_xp"`
	Level     int                  `json:"current_level"`
	LeveledUp bool                 `json:"leveled_up"`
	Reward    *rewards.LevelReward `json:"level_up_reward,omitempty"`
}

// GrantXP transactionally adds amount to the user's XP, appends a history
// entry carrying the running total, and detects level-ups against the
// pre-grant level. Retried calls double-grant; callers must dedupe at the
// request layer.
func (s *Service) GrantXP(ctx context.Context, userID string, amount int, reason string) (*XPResult, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userID", Reason: "must not be empty"}
	}
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Reason: "must not be empty"}
	}

	var res XPResult
	err := s.store.XP().Transact(ctx, userID, func(rec *store.XPRecord) error {
		before := Level(rec.XP)
		rec.XP += amount
		rec.Level = Level(rec.XP)
		rec.History = append(rec.History, store.XPEntry{
			Amount: amount,
			Reason: reason,
			At:     s.clock.Now().UTC(),
			Total:  rec.XP,
		})

		res = XPResult{XPEarned: amount, TotalXP: rec.XP, Level: rec.Level}
		if rec.Level > before {
			rw := rewards.ForLevel(rec.Level)
			if !rec.HasBadge(rw.Badge) {
				rec.Badges = append(rec.Badges, rw.Badge)
			}
			res.LeveledUp = true
			res.Reward = &rw
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GrantBadge adds a badge to the user's record. Granting a badge the user
// already holds is a no-op.
func (s *Service) GrantBadge(ctx context.Context, userID, badge string) error {
	if userID == "" {
		return &ValidationError{Field: "userID", Reason: "must not be empty"}
	}
	if badge == "" {
		return &ValidationError{Field: "badge", Reason: "must not be empty"}
	}
	return s.store.XP().Transact(ctx, userID, func(rec *store.XPRecord) error {
		if !rec.HasBadge(badge) {
			rec.Badges = append(rec.Badges, badge)
		}
		return nil
	})
}

// Record returns the user's gamification record, or store.ErrNotFound if
// the user has never earned anything.
func (s *Service) Record(ctx context.Context, userID string) (*store.XPRecord, error) {
	return s.store.XP().Get(ctx, userID)
}
