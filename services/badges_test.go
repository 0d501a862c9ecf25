package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
)

func pointsBadge(name string, threshold, maxEarnings int) models.Badge {
	return models.Badge{
		ID:   primitive.NewObjectID(),
		Name: name,
		Rules: &models.BadgeRules{
			Single: &models.BadgeRule{
				Type:     models.MetricTotalPoints,
				Operator: models.OpGreaterOrEqual,
				Value:    threshold,
			},
		},
		MaxEarnings: maxEarnings,
		IsActive:    true,
	}
}

func newBadgeFixture(badges ...models.Badge) (*BadgeService, *fakeParticipationStore, *fakeBadgeStore) {
	parts := &fakeParticipationStore{}
	store := &fakeBadgeStore{badges: badges}
	return NewBadgeService(store, NewMetricsCollector(parts)), parts, store
}

func TestAssignEligibleBadgesAtThreshold(t *testing.T) {
	badge := pointsBadge("100 Points Master", 100, 1)
	svc, parts, store := newBadgeFixture(badge)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	now := time.Now()

	// Two completed challenges worth 30 and 70 points.
	parts.records = []*models.Participation{
		completedParticipation(userID, now.Add(-1*time.Hour), 30),
		completedParticipation(userID, now.Add(-2*time.Hour), 70),
	}

	awarded, err := svc.AssignEligibleBadges(ctx, userID, &models.EarnedFrom{Points: 70})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(awarded) != 1 {
		t.Fatalf("expected exactly one badge awarded, got %d", len(awarded))
	}
	if awarded[0].BadgeID != badge.ID {
		t.Errorf("wrong badge awarded")
	}
	if awarded[0].EarnedCount != 1 {
		t.Errorf("earnedCount = %d, want 1", awarded[0].EarnedCount)
	}
	if awarded[0].EarnedFrom == nil || awarded[0].EarnedFrom.Points != 70 {
		t.Errorf("provenance not copied from context")
	}

	// A second pass must not award it again: maxEarnings is 1.
	again, err := svc.AssignEligibleBadges(ctx, userID, nil)
	if err != nil {
		t.Fatalf("second assign failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("badge at its cap must be skipped, got %d awards", len(again))
	}
	if count, _ := store.CountByUser(ctx, userID); count != 1 {
		t.Errorf("expected one stored earning, got %d", count)
	}
}

func TestAssignEligibleBadgesBelowThreshold(t *testing.T) {
	svc, parts, _ := newBadgeFixture(pointsBadge("100 Points Master", 100, 1))
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 30),
	}

	awarded, err := svc.AssignEligibleBadges(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(awarded) != 0 {
		t.Errorf("expected no award below threshold, got %d", len(awarded))
	}
}

func TestAssignEligibleBadgesUnlimitedCap(t *testing.T) {
	svc, parts, _ := newBadgeFixture(pointsBadge("Repeatable", 30, -1))
	ctx := context.Background()
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 30),
	}

	for i := 0; i < 3; i++ {
		awarded, err := svc.AssignEligibleBadges(ctx, userID, nil)
		if err != nil {
			t.Fatalf("assign pass %d failed: %v", i, err)
		}
		if len(awarded) != 1 {
			t.Fatalf("unlimited badge should award on every eligible pass, got %d", len(awarded))
		}
	}
}

func TestAssignEligibleBadgesSkipsCustomEvaluator(t *testing.T) {
	custom := models.Badge{
		ID:          primitive.NewObjectID(),
		Name:        "Legacy",
		Rules:       &models.BadgeRules{Evaluator: "legacy-hook"},
		MaxEarnings: -1,
		IsActive:    true,
	}
	svc, parts, _ := newBadgeFixture(custom)
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 70),
	}

	awarded, err := svc.AssignEligibleBadges(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(awarded) != 0 {
		t.Errorf("custom evaluator badges must never auto-assign")
	}
}

func TestAssignEligibleBadgesSkipsInactive(t *testing.T) {
	badge := pointsBadge("Archived", 10, -1)
	badge.IsActive = false
	svc, parts, _ := newBadgeFixture(badge)
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 70),
	}

	awarded, err := svc.AssignEligibleBadges(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if len(awarded) != 0 {
		t.Errorf("inactive badges must not be evaluated")
	}
}

func TestAssignBadgeToUserNotFound(t *testing.T) {
	svc, _, _ := newBadgeFixture()

	_, err := svc.AssignBadgeToUser(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), nil)
	if !errors.Is(err, ErrBadgeNotFound) {
		t.Errorf("expected ErrBadgeNotFound, got %v", err)
	}
}

func TestAssignBadgeToUserCapReached(t *testing.T) {
	badge := pointsBadge("Single Shot", 0, 1)
	svc, _, _ := newBadgeFixture(badge)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	if _, err := svc.AssignBadgeToUser(ctx, userID, badge.ID, nil); err != nil {
		t.Fatalf("first manual assign failed: %v", err)
	}

	_, err := svc.AssignBadgeToUser(ctx, userID, badge.ID, nil)
	if !errors.Is(err, ErrEarningCapReached) {
		t.Errorf("expected ErrEarningCapReached, got %v", err)
	}
}
