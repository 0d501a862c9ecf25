package models

import (
	"testing"
	"time"
)

func TestPointsForDifficulty(t *testing.T) {
	cases := []struct {
		difficulty string
		want       int
	}{
		{DifficultyBeginner, 30},
		{DifficultyIntermediate, 50},
		{DifficultyAdvanced, 70},
		{"Expert", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := PointsForDifficulty(tc.difficulty); got != tc.want {
			t.Errorf("PointsForDifficulty(%q) = %d, want %d", tc.difficulty, got, tc.want)
		}
	}
}

func TestNormalizeOverridesClientPoints(t *testing.T) {
	c := Challenge{
		Name:       "Morning Run",
		Difficulty: DifficultyIntermediate,
		Points:     9999, // client-supplied, must be ignored
		Status:     ChallengeActive,
	}

	c.Normalize(time.Now())

	if c.Points != 50 {
		t.Errorf("points = %d, want 50 derived from difficulty", c.Points)
	}
	if c.Status != ChallengeActive {
		t.Errorf("status changed unexpectedly to %q", c.Status)
	}
}

func TestNormalizeArchivesPastEndDate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	c := Challenge{
		Difficulty: DifficultyBeginner,
		Status:     ChallengeActive,
		EndAt:      &past,
	}

	c.Normalize(now)

	if c.Status != ChallengeArchived {
		t.Errorf("status = %q, want %q for an expired challenge", c.Status, ChallengeArchived)
	}

	future := now.Add(time.Hour)
	c = Challenge{Difficulty: DifficultyBeginner, Status: ChallengeActive, EndAt: &future}
	c.Normalize(now)
	if c.Status != ChallengeActive {
		t.Errorf("future end date must not archive, got %q", c.Status)
	}
}
