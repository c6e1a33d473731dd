package fuzzy

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"coffee", "coffee", 0},
		{"coffee", "cofee", 1},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]string{{"arabica", "robusta"}, {"tea", "team"}, {"x", "yyy"}}
	for _, p := range pairs {
		if Distance(p[0], p[1]) != Distance(p[1], p[0]) {
			t.Errorf("Distance not symmetric for %q/%q", p[0], p[1])
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("", ""); got != 1 {
		t.Errorf("Similarity(empty, empty) = %v", got)
	}
	if got := Similarity("coffee", "coffee"); got != 1 {
		t.Errorf("Similarity(equal) = %v", got)
	}
	// kitten/sitting: 1 - 3/7
	want := 1 - 3.0/7.0
	if got := Similarity("kitten", "sitting"); math.Abs(got-want) > 1e-12 {
		t.Errorf("Similarity(kitten, sitting) = %v, want %v", got, want)
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		level, want float64
	}{
		{0, 1},
		{1, 0.7},
		{2, 0.4},
	}
	for _, tt := range tests {
		if got := Threshold(tt.level); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Threshold(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestMatch_LevelZeroRequiresExact(t *testing.T) {
	if _, ok := Match("coffee", "cofee", 0); ok {
		t.Error("level 0 accepted a non-exact match")
	}
	if _, ok := Match("coffee", "coffee", 0); !ok {
		t.Error("level 0 rejected an exact match")
	}
}

func TestMatch_Monotonic(t *testing.T) {
	words := []string{"coffee", "cofee", "toffee", "tea", "arabica", "caffe", "c"}
	levels := []float64{0, 0.5, 1, 1.5, 2}
	prev := -1
	for _, lvl := range levels {
		n := 0
		for _, w := range words {
			if _, ok := Match(w, "coffee", lvl); ok {
				n++
			}
		}
		if n < prev {
			t.Errorf("level %v matched %d words, fewer than previous level (%d)", lvl, n, prev)
		}
		prev = n
	}
}
