package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
)

func newLeaderboardFixture() (*LeaderboardService, *fakeParticipationStore, *fakeBadgeStore) {
	parts := &fakeParticipationStore{}
	badges := &fakeBadgeStore{}
	users := &fakeUserStore{users: map[primitive.ObjectID]models.PublicUser{}}
	return NewLeaderboardService(parts, badges, users), parts, badges
}

func addCompleted(parts *fakeParticipationStore, userID primitive.ObjectID, points int, when time.Time) {
	parts.records = append(parts.records, completedParticipation(userID, when, points))
}

func addJoined(parts *fakeParticipationStore, userID primitive.ObjectID) {
	parts.records = append(parts.records, &models.Participation{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		ChallengeID: primitive.NewObjectID(),
	})
}

func TestTopByPointsOrderingAndLimit(t *testing.T) {
	svc, parts, _ := newLeaderboardFixture()
	ctx := context.Background()
	now := time.Now()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	carol := primitive.NewObjectID()

	addCompleted(parts, alice, 30, now)
	addCompleted(parts, bob, 70, now)
	addCompleted(parts, bob, 30, now)
	addCompleted(parts, carol, 50, now)

	entries, err := svc.TopByPoints(ctx, 2)
	if err != nil {
		t.Fatalf("topByPoints failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != bob || entries[0].TotalPoints != 100 {
		t.Errorf("expected bob first with 100 points, got %v", entries[0])
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Errorf("ranks must follow output position")
	}
	if entries[1].UserID != carol {
		t.Errorf("expected carol second with 50 points")
	}
}

func TestTopByPointsCapsLimitAtFifty(t *testing.T) {
	svc, parts, _ := newLeaderboardFixture()
	now := time.Now()
	for i := 0; i < 60; i++ {
		addCompleted(parts, primitive.NewObjectID(), 30, now)
	}

	entries, err := svc.TopByPoints(context.Background(), 1000)
	if err != nil {
		t.Fatalf("topByPoints failed: %v", err)
	}
	if len(entries) != 50 {
		t.Errorf("expected limit clamped to 50, got %d entries", len(entries))
	}
}

func TestTopByPointsExcludesUsersWithoutCompletions(t *testing.T) {
	svc, parts, _ := newLeaderboardFixture()
	joinedOnly := primitive.NewObjectID()
	addJoined(parts, joinedOnly)

	entries, err := svc.TopByPoints(context.Background(), 10)
	if err != nil {
		t.Fatalf("topByPoints failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("users with no completions must not appear, got %d entries", len(entries))
	}
}

func TestTopByChallengesSecondarySort(t *testing.T) {
	svc, parts, _ := newLeaderboardFixture()
	now := time.Now()

	early := primitive.NewObjectID()
	late := primitive.NewObjectID()

	addCompleted(parts, early, 30, now.Add(-48*time.Hour))
	addCompleted(parts, early, 30, now.Add(-47*time.Hour))
	addCompleted(parts, late, 30, now.Add(-2*time.Hour))
	addCompleted(parts, late, 30, now.Add(-1*time.Hour))

	entries, err := svc.TopByChallenges(context.Background(), 10)
	if err != nil {
		t.Fatalf("topByChallenges failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Equal completion counts: the more recent completion ranks first.
	if entries[0].UserID != late {
		t.Errorf("expected the recently active user first on equal counts")
	}
}

func TestMostActiveIncludesJoinedOnly(t *testing.T) {
	svc, parts, badges := newLeaderboardFixture()
	ctx := context.Background()
	now := time.Now()

	busy := primitive.NewObjectID()
	finisher := primitive.NewObjectID()

	// busy joined three, completed one; finisher joined one, completed one.
	addCompleted(parts, busy, 30, now)
	addJoined(parts, busy)
	addJoined(parts, busy)
	addCompleted(parts, finisher, 70, now)

	badges.earned = append(badges.earned, models.UserBadge{
		ID: primitive.NewObjectID(), UserID: finisher, BadgeID: primitive.NewObjectID(), EarnedAt: now, EarnedCount: 1,
	})

	entries, err := svc.MostActive(ctx, 10)
	if err != nil {
		t.Fatalf("mostActive failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != busy || entries[0].TotalParticipations != 3 {
		t.Errorf("expected busy first with 3 participations, got %v", entries[0])
	}
	if entries[0].CompletionRate != 33 {
		t.Errorf("completionRate = %d, want 33", entries[0].CompletionRate)
	}
	if entries[1].CompletionRate != 100 {
		t.Errorf("completionRate = %d, want 100", entries[1].CompletionRate)
	}
	if entries[1].BadgesEarned != 1 {
		t.Errorf("badgesEarned = %d, want 1", entries[1].BadgesEarned)
	}
}

func TestUserRankNilWithoutCompletions(t *testing.T) {
	svc, parts, _ := newLeaderboardFixture()
	ctx := context.Background()

	unknown := primitive.NewObjectID()
	result, err := svc.UserRank(ctx, unknown)
	if err != nil {
		t.Fatalf("userRank failed: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil for a user with no participations, got %v", result)
	}

	joinedOnly := primitive.NewObjectID()
	addJoined(parts, joinedOnly)
	result, err = svc.UserRank(ctx, joinedOnly)
	if err != nil {
		t.Fatalf("userRank failed: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil for a user with no completed participations, got %v", result)
	}
}

func TestUserRankCompetitionRanking(t *testing.T) {
	svc, parts, _ := newLeaderboardFixture()
	ctx := context.Background()
	now := time.Now()

	leader := primitive.NewObjectID()
	tiedA := primitive.NewObjectID()
	tiedB := primitive.NewObjectID()

	addCompleted(parts, leader, 100, now)
	addCompleted(parts, tiedA, 50, now)
	addCompleted(parts, tiedB, 50, now)

	rankA, err := svc.UserRank(ctx, tiedA)
	if err != nil {
		t.Fatalf("userRank failed: %v", err)
	}
	rankB, err := svc.UserRank(ctx, tiedB)
	if err != nil {
		t.Fatalf("userRank failed: %v", err)
	}

	if rankA.Rank != 2 || rankB.Rank != 2 {
		t.Errorf("equal totals must share the same rank: got %d and %d, want 2 and 2", rankA.Rank, rankB.Rank)
	}

	top, err := svc.UserRank(ctx, leader)
	if err != nil {
		t.Fatalf("userRank failed: %v", err)
	}
	if top.Rank != 1 {
		t.Errorf("leader rank = %d, want 1", top.Rank)
	}
}
