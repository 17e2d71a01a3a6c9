package ledger

// The level schedule is triangular: completing level n costs n×100 XP, so
// the cumulative thresholds run 100, 300, 600, 1000, ...

// XPForLevel returns the cumulative XP needed to complete level l.
func XPForLevel(l int) int {
	if l <= 0 {
		return 0
	}
	return 100 * l * (l + 1) / 2
}

// Level returns the highest fully completed level for totalXP. It is
// monotonically non-decreasing in totalXP.
func Level(totalXP int) int {
	l := 0
	for XPForLevel(l+1) <= totalXP {
		l++
	}
	return l
}

// LevelProgress returns how far totalXP has advanced from the current
// level's threshold toward the next, in [0, 1).
func LevelProgress(totalXP int) float64 {
	if totalXP < 0 {
		return 0
	}
	l := Level(totalXP)
	floor := XPForLevel(l)
	ceil := XPForLevel(l + 1)
	return float64(totalXP-floor) / float64(ceil-floor)
}
