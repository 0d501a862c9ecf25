package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
)

func activeReward(name string, cost, maxClaims int) models.Reward {
	return models.Reward{
		ID:         primitive.NewObjectID(),
		Name:       name,
		PointsCost: cost,
		Type:       models.RewardFreeSession,
		MaxClaims:  maxClaims,
		IsActive:   true,
	}
}

func newRewardFixture(rewards ...models.Reward) (*RewardService, *fakeParticipationStore, *fakeRewardStore) {
	parts := &fakeParticipationStore{}
	store := &fakeRewardStore{rewards: rewards}
	return NewRewardService(store, parts), parts, store
}

func TestClaimRewardNotFound(t *testing.T) {
	svc, _, _ := newRewardFixture()

	_, err := svc.Claim(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), nil)
	if !errors.Is(err, ErrRewardNotFound) {
		t.Errorf("expected ErrRewardNotFound, got %v", err)
	}
}

func TestClaimRewardInsufficientPoints(t *testing.T) {
	reward := activeReward("Free Session", 100, -1)
	svc, parts, _ := newRewardFixture(reward)
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 50),
	}

	_, err := svc.Claim(context.Background(), userID, reward.ID, nil)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestClaimRewardSuccess(t *testing.T) {
	reward := activeReward("Free Session", 100, -1)
	svc, parts, store := newRewardFixture(reward)
	userID := primitive.NewObjectID()
	now := time.Now()
	parts.records = []*models.Participation{
		completedParticipation(userID, now, 30),
		completedParticipation(userID, now, 70),
	}

	ur, err := svc.Claim(context.Background(), userID, reward.ID, nil)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if ur.Code == "" {
		t.Error("expected an activation code on the claim")
	}
	if ur.ClaimedFrom == nil || ur.ClaimedFrom.TotalPoints != 100 {
		t.Errorf("claim should record the user's total points at claim time")
	}
	if store.rewards[0].ClaimedCount != 1 {
		t.Errorf("claimedCount = %d, want 1", store.rewards[0].ClaimedCount)
	}
}

func TestClaimRewardCapReached(t *testing.T) {
	reward := activeReward("One Shot", 10, 1)
	svc, parts, _ := newRewardFixture(reward)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 50),
	}

	if _, err := svc.Claim(ctx, userID, reward.ID, nil); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	_, err := svc.Claim(ctx, userID, reward.ID, nil)
	if !errors.Is(err, ErrClaimCapReached) {
		t.Errorf("expected ErrClaimCapReached, got %v", err)
	}
}

func TestClaimExpiredReward(t *testing.T) {
	reward := activeReward("Expired", 10, -1)
	past := time.Now().Add(-24 * time.Hour)
	reward.ValidUntil = &past
	svc, parts, _ := newRewardFixture(reward)
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 50),
	}

	_, err := svc.Claim(context.Background(), userID, reward.ID, nil)
	if !errors.Is(err, ErrRewardUnavailable) {
		t.Errorf("expected ErrRewardUnavailable, got %v", err)
	}
}

func TestUseReward(t *testing.T) {
	reward := activeReward("Free Session", 10, -1)
	svc, parts, _ := newRewardFixture(reward)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	parts.records = []*models.Participation{
		completedParticipation(userID, time.Now(), 50),
	}

	ur, err := svc.Claim(ctx, userID, reward.ID, nil)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	used, err := svc.Use(ctx, ur.ID)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}
	if used.UsedAt == nil {
		t.Error("usedAt not set")
	}

	_, err = svc.Use(ctx, primitive.NewObjectID())
	if !errors.Is(err, ErrRewardNotFound) {
		t.Errorf("expected ErrRewardNotFound for unknown claim, got %v", err)
	}
}
