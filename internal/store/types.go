package store

import "time"

// Category classifies what kind of mistake a garden plant tracks.
type Category string

const (
	CategoryPronunciation Category = "pronunciation"
	CategoryGrammar       Category = "grammar"
	CategoryVocabulary    Category = "vocabulary"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPronunciation, CategoryGrammar, CategoryVocabulary:
		return true
	}
	return false
}

// Stage is a plant's growth stage. Stages only ever advance.
type Stage string

const (
	StageSeed   Stage = "seed"
	StageSprout Stage = "sprout"
	StageBud    Stage = "bud"
	StageBloom  Stage = "bloom"
)

// XPEntry is one line of a user's XP history.
type XPEntry struct {
	Amount int       `json:"amount"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
	// Total is the running XP total after this entry applied.
	Total int `json:"total"`
}

// XPRecord is a user's gamification ledger: XP, level, and earned badges.
type XPRecord struct {
	UserID  string    `json:"user_id"`
	XP      int       `json:"xp"`
	Level   int       `json:"level"`
	Badges  []string  `json:"badges"`
	History []XPEntry `json:"history"`
}

// HasBadge reports whether the record already holds badge.
func (r *XPRecord) HasBadge(badge string) bool {
	for _, b := range r.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// StreakEntry is one recorded day of a user's streak history.
type StreakEntry struct {
	// Date is the UTC calendar day, formatted 2006-01-02.
	Date       string `json:"date"`
	Active     bool   `json:"active"`
	FreezeUsed bool   `json:"freeze_used,omitempty"`
}

// StreakRecord tracks a user's daily activity streak.
type StreakRecord struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
	// Longest is the longest streak ever reached; it never decreases.
	Longest int `json:"longest"`
	// LastActivity is the UTC calendar day of the most recent counted
	// activity, formatted 2006-01-02. Empty means no activity yet.
	LastActivity string        `json:"last_activity"`
	FreezeCount  int           `json:"freeze_count"`
	History      []StreakEntry `json:"history"`
}

// ErrorEntry is one occurrence or practice attempt on a garden plant.
type ErrorEntry struct {
	At time.Time `json:"at"`
	// Context carries the sentence or situation the mistake occurred in.
	Context string `json:"context,omitempty"`
	// Corrected marks a successful practice rather than a recurrence.
	Corrected bool `json:"corrected,omitempty"`
}

// Plant is one tracked recurring mistake in a user's garden.
type Plant struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	Item          string       `json:"item"`
	Category      Category     `json:"category"`
	Stage         Stage        `json:"stage"`
	PracticeCount int          `json:"practice_count"`
	// Mastery grows with practice, capped at 1.
	Mastery float64      `json:"mastery_level"`
	History []ErrorEntry `json:"history"`
}
