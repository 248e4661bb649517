package service

import (
	"testing"
	"time"

	"learnhub/internal/models"
)

func TestMergeProgress(t *testing.T) {
	now := time.Now().UTC()

	testCases := []struct {
		name              string
		existing          *models.VideoProgress
		update            models.VideoProgressUpdate
		expectedPct       float64
		expectedCompleted bool
	}{
		{
			name:        "first update stored as-is",
			existing:    nil,
			update:      models.VideoProgressUpdate{WatchPercentage: 42},
			expectedPct: 42,
		},
		{
			name:        "higher percentage wins",
			existing:    &models.VideoProgress{WatchPercentage: 30},
			update:      models.VideoProgressUpdate{WatchPercentage: 75},
			expectedPct: 75,
		},
		{
			name:        "stale lower percentage never regresses",
			existing:    &models.VideoProgress{WatchPercentage: 90},
			update:      models.VideoProgressUpdate{WatchPercentage: 10},
			expectedPct: 90,
		},
		{
			name:              "completed is sticky",
			existing:          &models.VideoProgress{WatchPercentage: 100, Completed: true},
			update:            models.VideoProgressUpdate{WatchPercentage: 20, Completed: false},
			expectedPct:       100,
			expectedCompleted: true,
		},
		{
			name:              "update can complete",
			existing:          &models.VideoProgress{WatchPercentage: 80},
			update:            models.VideoProgressUpdate{WatchPercentage: 100, Completed: true},
			expectedPct:       100,
			expectedCompleted: true,
		},
		{
			name:        "percentage clamped to 100",
			existing:    nil,
			update:      models.VideoProgressUpdate{WatchPercentage: 120},
			expectedPct: 100,
		},
		{
			name:        "negative percentage clamped to 0",
			existing:    nil,
			update:      models.VideoProgressUpdate{WatchPercentage: -5},
			expectedPct: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			merged := MergeProgress(tc.existing, tc.update, now)
			if merged.WatchPercentage != tc.expectedPct {
				t.Errorf("Expected watch percentage %.1f, got %.1f", tc.expectedPct, merged.WatchPercentage)
			}
			if merged.Completed != tc.expectedCompleted {
				t.Errorf("Expected completed %v, got %v", tc.expectedCompleted, merged.Completed)
			}
			if !merged.Timestamp.Equal(now) {
				t.Errorf("Expected timestamp %v, got %v", now, merged.Timestamp)
			}
		})
	}
}

// Replaying the same update twice must not change the outcome.
func TestMergeProgressIdempotent(t *testing.T) {
	now := time.Now().UTC()
	update := models.VideoProgressUpdate{WatchPercentage: 60, Completed: false}

	first := MergeProgress(nil, update, now)
	second := MergeProgress(&first, update, now)

	if second.WatchPercentage != first.WatchPercentage || second.Completed != first.Completed {
		t.Errorf("Replayed update changed progress: %+v vs %+v", first, second)
	}
}
