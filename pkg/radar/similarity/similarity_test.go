package similarity

import (
	"math"
	"testing"
)

func TestDice(t *testing.T) {
	tests := []struct {
		a, b    string
		atLeast float64
		atMost  float64
	}{
		{"too expensive for this tool", "too expensive for this software", 0.75, 0.80},
		{"Same Text", "same   text", 1, 1},
		{"i hate slow exports", "this tool is great", 0, 0.1},
		{"a", "b", 0, 0},
		{"", "", 1, 1},
		{"", "something", 0, 0},
	}

	for _, tt := range tests {
		got := Dice{}.Score(tt.a, tt.b)
		if got < tt.atLeast || got > tt.atMost {
			t.Errorf("Dice(%q, %q) = %.4f, want in [%.2f, %.2f]", tt.a, tt.b, got, tt.atLeast, tt.atMost)
		}
	}
}

func TestDiceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"need a cheaper crm", "need cheaper crm tools"},
		{"invoicing is painful", "painful invoicing"},
	}
	for _, p := range pairs {
		ab := Dice{}.Score(p[0], p[1])
		ba := Dice{}.Score(p[1], p[0])
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("Dice not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"slow export tool", "slow export tool", 1},
		{"slow export tool", "slow import tool", 0.5},
		{"alpha", "beta", 0},
		{"", "", 1},
		{"Hello, world!", "world hello", 1},
	}

	for _, tt := range tests {
		if got := (Jaccard{}).Score(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFuncClamps(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{-0.5, 0},
		{0.4, 0.4},
		{3, 1},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		f := Func(func(string, string) float64 { return tt.raw })
		if got := f.Score("a", "b"); got != tt.want {
			t.Errorf("Func(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDefault(t *testing.T) {
	if _, ok := Default().(Dice); !ok {
		t.Errorf("Default() = %T, want Dice", Default())
	}
}
