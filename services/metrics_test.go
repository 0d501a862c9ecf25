package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
)

func completedParticipation(userID primitive.ObjectID, completedAt time.Time, points int) *models.Participation {
	return &models.Participation{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		ChallengeID:  primitive.NewObjectID(),
		CompletedAt:  &completedAt,
		PointsEarned: points,
	}
}

func TestCollectCountsAndSums(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()
	store := &fakeParticipationStore{records: []*models.Participation{
		completedParticipation(userID, now.Add(-1*time.Hour), 30),
		completedParticipation(userID, now.Add(-2*time.Hour), 70),
		{ID: primitive.NewObjectID(), UserID: userID, ChallengeID: primitive.NewObjectID()}, // joined, not completed
	}}

	snapshot, err := NewMetricsCollector(store).Collect(context.Background(), userID)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if got := snapshot[models.MetricChallengesCompleted]; got != 2 {
		t.Errorf("challenges_completed = %d, want 2", got)
	}
	if got := snapshot[models.MetricTotalPoints]; got != 100 {
		t.Errorf("total_points = %d, want 100", got)
	}
}

func TestCollectUnimplementedMetricsDefaultToZero(t *testing.T) {
	store := &fakeParticipationStore{}
	snapshot, err := NewMetricsCollector(store).Collect(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	for _, metric := range []string{
		models.MetricDifficultyMaster,
		models.MetricSpecificChallenge,
		models.MetricWeightMilestone,
		models.MetricGymAttendance,
		models.MetricCustom,
	} {
		if v, ok := snapshot[metric]; !ok || v != 0 {
			t.Errorf("metric %s should be present with value 0, got %d (present=%v)", metric, v, ok)
		}
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	now := time.Now()
	completions := []models.Participation{
		*completedParticipation(primitive.NewObjectID(), now.Add(-2*time.Hour), 30),
		*completedParticipation(primitive.NewObjectID(), now.Add(-26*time.Hour), 30),
		*completedParticipation(primitive.NewObjectID(), now.Add(-50*time.Hour), 30),
	}

	if got := streakDays(completions, now); got != 3 {
		t.Errorf("streak over three consecutive days = %d, want 3", got)
	}
}

func TestStreakBreaksOnLargeGap(t *testing.T) {
	now := time.Now()
	completions := []models.Participation{
		*completedParticipation(primitive.NewObjectID(), now.Add(-2*time.Hour), 30),
		// Five days before the first completion: gap of 5 > streak(1)+1.
		*completedParticipation(primitive.NewObjectID(), now.Add(-122*time.Hour), 30),
	}

	if got := streakDays(completions, now); got != 1 {
		t.Errorf("streak with a five-day gap = %d, want 1", got)
	}
}

// The gap tolerance grows with the streak: after n qualifying completions
// a gap of n+1 days still extends the run. This mirrors the production
// behavior badge rules were written against.
func TestStreakToleranceGrowsWithLength(t *testing.T) {
	now := time.Now()
	completions := []models.Participation{
		*completedParticipation(primitive.NewObjectID(), now.Add(-24*time.Hour), 30),  // gap 1 <= 0+1
		*completedParticipation(primitive.NewObjectID(), now.Add(-72*time.Hour), 30),  // gap 2 <= 1+1
		*completedParticipation(primitive.NewObjectID(), now.Add(-144*time.Hour), 30), // gap 3 <= 2+1
	}

	if got := streakDays(completions, now); got != 3 {
		t.Errorf("streak with growing gaps = %d, want 3", got)
	}
}

func TestStreakEmpty(t *testing.T) {
	if got := streakDays(nil, time.Now()); got != 0 {
		t.Errorf("streak with no completions = %d, want 0", got)
	}
}

func TestCollectScansAtMostThirtyCompletions(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()
	store := &fakeParticipationStore{}
	// 40 completions on consecutive days; only the 30 most recent are
	// visible to the streak scan.
	for i := 0; i < 40; i++ {
		store.records = append(store.records,
			completedParticipation(userID, now.Add(-time.Duration(i*24+1)*time.Hour), 30))
	}

	snapshot, err := NewMetricsCollector(store).Collect(context.Background(), userID)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if got := snapshot[models.MetricStreakDays]; got != 30 {
		t.Errorf("streak_days = %d, want 30 (scan bounded at 30 records)", got)
	}
	if got := snapshot[models.MetricChallengesCompleted]; got != 40 {
		t.Errorf("challenges_completed = %d, want 40 (count is not bounded)", got)
	}
}
