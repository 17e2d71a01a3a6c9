// Package encourage picks the flavor line shown alongside a difficulty
// change. The choice is cosmetic: the tested contract is set membership,
// never a specific line, so the picker takes a seedable source.
package encourage

import (
	"math/rand"
	"time"
)

var harder = []string{
	"You're on a roll — let's raise the bar a little.",
	"That was almost too smooth. Time for a real challenge.",
	"Leveling you up. You've earned it.",
}

var easier = []string{
	"Let's ease off a touch and lock in the basics.",
	"No rush — we'll take a smaller step this time.",
	"Good effort. Let's rebuild some momentum.",
}

var steady = []string{
	"Right in the zone. Keep going.",
	"This pace suits you — staying the course.",
	"Nice rhythm. Let's hold it here.",
}

// Picker selects encouragement lines from a seedable random source.
type Picker struct {
	r *rand.Rand
}

// NewPicker builds a picker. A nil source seeds from the wall clock.
func NewPicker(r *rand.Rand) *Picker {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Picker{r: r}
}

// ForChange returns a line matching the sign of a difficulty change.
func (p *Picker) ForChange(change float64) string {
	set := Lines(change)
	return set[p.r.Intn(len(set))]
}

// Lines returns the full candidate set for a change direction so tests
// can assert membership.
func Lines(change float64) []string {
	switch {
	case change > 0:
		return harder
	case change < 0:
		return easier
	default:
		return steady
	}
}
