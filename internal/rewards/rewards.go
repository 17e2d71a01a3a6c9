// Package rewards is the single source of truth for the badge and bonus-XP
// schedule. Ledger services look rewards up here instead of embedding
// literals.
package rewards

import "fmt"

// LevelReward is granted when a learner's level increases.
type LevelReward struct {
	Badge string `json:"badge"`
	Title string `json:"title"`
	Bonus int    `json:"bonus"`
}

// ForLevel builds the reward for reaching level l.
func ForLevel(l int) LevelReward {
	return LevelReward{
		Badge: fmt.Sprintf("level-%d", l),
		Title: fmt.Sprintf("Level %d %s", l, TitleFor(l)),
		Bonus: l * 10,
	}
}

// TitleFor maps a level to its honorific band.
func TitleFor(l int) string {
	switch {
	case l >= 20:
		return "Sage"
	case l >= 10:
		return "Scholar"
	case l >= 5:
		return "Conversationalist"
	default:
		return "Novice"
	}
}

// Milestone is a streak length that awards a badge and bonus XP.
type Milestone struct {
	Days  int    `json:"days"`
	Badge string `json:"badge"`
	XP    int    `json:"xp"`
}

var milestones = []Milestone{
	{Days: 7, Badge: "streak-bronze", XP: 100},
	{Days: 30, Badge: "streak-silver", XP: 500},
	{Days: 100, Badge: "streak-gold", XP: 2000},
	{Days: 365, Badge: "streak-diamond", XP: 10000},
}

// MilestoneFor returns the milestone matching the streak length exactly.
// Milestones fire only on the day the streak reaches them.
func MilestoneFor(days int) (Milestone, bool) {
	for _, m := range milestones {
		if m.Days == days {
			return m, true
		}
	}
	return Milestone{}, false
}

// Milestones returns the full streak schedule in ascending order.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestones))
	copy(out, milestones)
	return out
}

// Garden rewards.
const (
	// SeedXP is granted once when a new mistake plant is created.
	SeedXP = 5
	// PracticeXP is granted per successful practice of a plant.
	PracticeXP = 10
	// BloomBonusXP is the one-time bonus when a plant reaches bloom.
	BloomBonusXP = 100
)

// BloomBadge is the mastery badge for a bloomed item.
func BloomBadge(item string) string {
	return "garden:bloom:" + item
}
