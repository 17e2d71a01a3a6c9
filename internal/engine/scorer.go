package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

const (
	// baseSeconds and secondsPerDifficulty define the expected response
	// time: 5 + 25×difficulty seconds.
	baseSeconds          = 5.0
	secondsPerDifficulty = 25.0

	// fastAnswerSeconds and slowAnswerSeconds are the absolute cutoffs
	// that nudge confidence up or down.
	fastAnswerSeconds = 10.0
	slowAnswerSeconds = 30.0

	hintPenalty = 0.1
)

// ValidationError reports malformed scorer input. No metric is produced
// when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ScoreTurn converts one raw interaction into a normalized Metric.
// Difficulty is the difficulty the turn was served at, in [0, 1].
func ScoreTurn(userInput, expectedOutput string, elapsedSeconds, difficulty float64, hintCount int, takenAt time.Time) (Metric, error) {
	if elapsedSeconds < 0 {
		return Metric{}, &ValidationError{Field: "elapsedSeconds", Reason: "must be non-negative"}
	}
	if difficulty < 0 || difficulty > 1 {
		return Metric{}, &ValidationError{Field: "difficulty", Reason: "must be within [0, 1]"}
	}
	if hintCount < 0 {
		return Metric{}, &ValidationError{Field: "hintCount", Reason: "must be non-negative"}
	}

	acc := accuracy(userInput, expectedOutput)
	return Metric{
		Accuracy:   acc,
		Timing:     timingScore(elapsedSeconds, difficulty),
		Confidence: confidence(acc, elapsedSeconds, hintCount),
		TakenAt:    takenAt,
		HintCount:  hintCount,
	}, nil
}

// accuracy is 1 minus the normalized Levenshtein distance between the
// trimmed, lowercased answer and expectation. Two empty strings are a
// perfect match; one empty string is a total miss.
func accuracy(userInput, expectedOutput string) float64 {
	a := strings.ToLower(strings.TrimSpace(userInput))
	b := strings.ToLower(strings.TrimSpace(expectedOutput))
	switch {
	case a == "" && b == "":
		return 1
	case a == "" || b == "":
		return 0
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	dist := levenshtein.Distance(a, b, levenshtein.NewParams())
	return clamp(1-float64(dist)/float64(longest), 0, 1)
}

// timingScore compares elapsed time against the expected window for the
// difficulty. Full credit covers ratios in [0.5, 1.25]: noticeably faster
// than expected still reads as engaged, while past 25% over the window the
// turn starts to look labored. Under half the expected time the material
// is too easy; over double, too hard.
func timingScore(elapsedSeconds, difficulty float64) float64 {
	expected := baseSeconds + secondsPerDifficulty*difficulty
	ratio := elapsedSeconds / expected
	switch {
	case ratio < 0.5:
		return 0.3
	case ratio <= 1.25:
		return 1.0
	case ratio <= 2.0:
		return 0.6
	default:
		return 0.3
	}
}

// confidence starts at accuracy, rewards quick answers, and penalizes slow
// ones and hint usage.
func confidence(accuracy, elapsedSeconds float64, hintCount int) float64 {
	c := accuracy
	if elapsedSeconds < fastAnswerSeconds {
		c += 0.1
	}
	if elapsedSeconds > slowAnswerSeconds {
		c -= 0.1
	}
	c -= hintPenalty * float64(hintCount)
	return clamp(c, 0, 1)
}
