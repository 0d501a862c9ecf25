package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJoinThenDuplicateJoin(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	challengeID := primitive.NewObjectID()

	p, err := svc.Join(ctx, userID, challengeID)
	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if p.PointsEarned != 0 {
		t.Errorf("expected 0 points on join, got %d", p.PointsEarned)
	}

	_, err = svc.Join(ctx, userID, challengeID)
	if !errors.Is(err, ErrAlreadyParticipating) {
		t.Errorf("expected ErrAlreadyParticipating on second join, got %v", err)
	}
}

func TestCompleteWithoutJoining(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)

	_, err := svc.Complete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 50)
	if !errors.Is(err, ErrNotParticipating) {
		t.Errorf("expected ErrNotParticipating, got %v", err)
	}
}

func TestCompleteSnapshotsPoints(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	challengeID := primitive.NewObjectID()

	if _, err := svc.Join(ctx, userID, challengeID); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	p, err := svc.Complete(ctx, userID, challengeID, 50)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if p.CompletedAt == nil {
		t.Fatal("completedAt not set")
	}
	if p.PointsEarned != 50 {
		t.Errorf("expected 50 points earned, got %d", p.PointsEarned)
	}

	// The snapshot survives later changes to the challenge's point value:
	// the total is read from the participation, never from the challenge.
	total, err := svc.UserTotalPoints(ctx, userID)
	if err != nil {
		t.Fatalf("total points failed: %v", err)
	}
	if total != 50 {
		t.Errorf("expected total of 50, got %d", total)
	}
}

func TestRecompletionRejected(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	challengeID := primitive.NewObjectID()

	svc.Join(ctx, userID, challengeID)
	if _, err := svc.Complete(ctx, userID, challengeID, 30); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	_, err := svc.Complete(ctx, userID, challengeID, 70)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted on re-completion, got %v", err)
	}

	total, _ := svc.UserTotalPoints(ctx, userID)
	if total != 30 {
		t.Errorf("re-completion must not rewrite points: expected 30, got %d", total)
	}
}

func TestLeaveBeforeCompletion(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	challengeID := primitive.NewObjectID()

	svc.Join(ctx, userID, challengeID)
	if err := svc.Leave(ctx, userID, challengeID); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	total, _ := svc.UserTotalPoints(ctx, userID)
	if total != 0 {
		t.Errorf("expected 0 points after leaving, got %d", total)
	}

	participating, _ := svc.IsParticipating(ctx, userID, challengeID)
	if participating {
		t.Error("no participation record should remain after leave")
	}
}

func TestLeaveWithoutJoining(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)

	err := svc.Leave(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, ErrNotParticipating) {
		t.Errorf("expected ErrNotParticipating, got %v", err)
	}
}

func TestLeaveAfterCompletionRejected(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	challengeID := primitive.NewObjectID()

	svc.Join(ctx, userID, challengeID)
	svc.Complete(ctx, userID, challengeID, 50)

	err := svc.Leave(ctx, userID, challengeID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted when leaving a completed challenge, got %v", err)
	}

	total, _ := svc.UserTotalPoints(ctx, userID)
	if total != 50 {
		t.Errorf("points history must survive a rejected leave: expected 50, got %d", total)
	}
}

func TestActiveAndCompletedListings(t *testing.T) {
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	c1 := primitive.NewObjectID()
	c2 := primitive.NewObjectID()

	svc.Join(ctx, userID, c1)
	svc.Join(ctx, userID, c2)
	svc.Complete(ctx, userID, c1, 30)

	active, _ := svc.ActiveChallenges(ctx, userID)
	if len(active) != 1 || active[0].ChallengeID != c2 {
		t.Errorf("expected exactly c2 active, got %v", active)
	}

	completed, _ := svc.CompletedChallenges(ctx, userID)
	if len(completed) != 1 || completed[0].ChallengeID != c1 {
		t.Errorf("expected exactly c1 completed, got %v", completed)
	}
}
