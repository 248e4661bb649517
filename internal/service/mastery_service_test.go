package service

import (
	"math"
	"testing"
)

func TestBlendScore(t *testing.T) {
	testCases := []struct {
		name       string
		current    float64
		hasCurrent bool
		score      float64
		expected   float64
	}{
		{"first score seeds at 80 percent", 0, false, 100, 80},
		{"first low score", 0, false, 50, 40},
		{"blend weights history 70/30", 80, true, 100, 86}, // 80*0.7 + 100*0.3
		{"blend pulls down on bad score", 80, true, 0, 56},
		{"stable when score equals mastery", 75, true, 75, 75},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BlendScore(tc.current, tc.hasCurrent, tc.score)
			if math.Abs(got-tc.expected) > 0.001 {
				t.Errorf("Expected %.2f, got %.2f", tc.expected, got)
			}
		})
	}
}

// A long streak of perfect scores should asymptotically approach 100 without
// ever overshooting.
func TestBlendScoreConverges(t *testing.T) {
	score := BlendScore(0, false, 100)
	for i := 0; i < 50; i++ {
		next := BlendScore(score, true, 100)
		if next < score {
			t.Fatalf("Score regressed from %.2f to %.2f on perfect streak", score, next)
		}
		if next > 100 {
			t.Fatalf("Score overshot 100: %.2f", next)
		}
		score = next
	}
	if score < 99 {
		t.Errorf("Expected convergence near 100, got %.2f", score)
	}
}
