package engine

import (
	"errors"
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreTurnPerfectTurn(t *testing.T) {
	m, err := ScoreTurn("안녕하세요", "안녕하세요", 6, 0.2, 0, time.Now())
	if err != nil {
		t.Fatalf("ScoreTurn() error = %v", err)
	}
	if m.Accuracy != 1.0 {
		t.Errorf("Accuracy = %v, want 1.0", m.Accuracy)
	}
	if m.Timing != 1.0 {
		t.Errorf("Timing = %v, want 1.0", m.Timing)
	}
	if m.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", m.Confidence)
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		want     float64
	}{
		{"exact match", "hello", "hello", 1.0},
		{"both empty", "", "", 1.0},
		{"empty input", "", "hello", 0.0},
		{"empty expectation", "hello", "", 0.0},
		{"case and whitespace ignored", "  Hello ", "hello", 1.0},
		{"one rune off in hangul", "감사함니다", "감사합니다", 0.8},
		{"one rune off in ascii", "helo", "hello", 0.8},
		{"total mismatch", "abcde", "vwxyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accuracy(tt.input, tt.expected)
			if !almostEqual(got, tt.want) {
				t.Errorf("accuracy(%q, %q) = %v, want %v", tt.input, tt.expected, got, tt.want)
			}
		})
	}
}

func TestTimingScore(t *testing.T) {
	// difficulty 0.2 means an expected window of 10 seconds.
	tests := []struct {
		name       string
		elapsed    float64
		difficulty float64
		want       float64
	}{
		{"way too fast", 3, 0.2, 0.3},
		{"just under half", 4.9, 0.2, 0.3},
		{"half the window", 5, 0.2, 1.0},
		{"on the window", 10, 0.2, 1.0},
		{"upper edge of full credit", 12.5, 0.2, 1.0},
		{"a bit slow", 15, 0.2, 0.6},
		{"double the window", 20, 0.2, 0.6},
		{"way too slow", 25, 0.2, 0.3},
		{"hardest material widens the window", 37.5, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timingScore(tt.elapsed, tt.difficulty)
			if got != tt.want {
				t.Errorf("timingScore(%v, %v) = %v, want %v", tt.elapsed, tt.difficulty, got, tt.want)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name     string
		accuracy float64
		elapsed  float64
		hints    int
		want     float64
	}{
		{"fast bonus", 0.8, 6, 0, 0.9},
		{"slow penalty", 0.8, 35, 0, 0.7},
		{"hints cost a tenth each", 1.0, 15, 2, 0.8},
		{"clamped at one", 1.0, 6, 0, 1.0},
		{"clamped at zero", 0.1, 40, 3, 0.0},
		{"neutral pace", 0.7, 20, 0, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidence(tt.accuracy, tt.elapsed, tt.hints)
			if !almostEqual(got, tt.want) {
				t.Errorf("confidence(%v, %v, %d) = %v, want %v", tt.accuracy, tt.elapsed, tt.hints, got, tt.want)
			}
		})
	}
}

func TestScoreTurnValidation(t *testing.T) {
	tests := []struct {
		name       string
		elapsed    float64
		difficulty float64
		hints      int
		field      string
	}{
		{"negative elapsed", -1, 0.5, 0, "elapsedSeconds"},
		{"difficulty below range", 10, -0.1, 0, "difficulty"},
		{"difficulty above range", 10, 1.1, 0, "difficulty"},
		{"negative hints", 10, 0.5, -1, "hintCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScoreTurn("a", "a", tt.elapsed, tt.difficulty, tt.hints, time.Now())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ScoreTurn() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
