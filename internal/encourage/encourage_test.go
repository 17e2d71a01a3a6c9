package encourage

import (
	"math/rand"
	"testing"
)

func contains(set []string, s string) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func TestForChangePicksFromTheRightSet(t *testing.T) {
	p := NewPicker(rand.New(rand.NewSource(1)))

	tests := []struct {
		name   string
		change float64
	}{
		{"harder", 0.1},
		{"easier", -0.1},
		{"steady", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Lines(tt.change)
			for i := 0; i < 20; i++ {
				line := p.ForChange(tt.change)
				if !contains(set, line) {
					t.Fatalf("ForChange(%v) = %q, not in its candidate set", tt.change, line)
				}
			}
		})
	}
}

func TestLinesAreDisjointByDirection(t *testing.T) {
	for _, up := range Lines(1) {
		if contains(Lines(-1), up) || contains(Lines(0), up) {
			t.Errorf("line %q appears in more than one direction", up)
		}
	}
}

func TestNewPickerNilSource(t *testing.T) {
	p := NewPicker(nil)
	if line := p.ForChange(0.1); line == "" {
		t.Error("ForChange() returned an empty line")
	}
}
