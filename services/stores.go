package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
)

// UserActivityStat is one user's participation record grouped by the
// store's aggregation primitive. The leaderboard views derive all of their
// rankings from this shape.
type UserActivityStat struct {
	UserID              primitive.ObjectID `bson:"_id"`
	TotalParticipations int                `bson:"totalParticipations"`
	CompletedChallenges int                `bson:"completedChallenges"`
	TotalPoints         int                `bson:"totalPoints"`
	LastCompletedAt     time.Time          `bson:"lastCompletedAt"`
}

// ParticipationStore is the persistence collaborator for user-challenge
// participation records.
type ParticipationStore interface {
	// Insert creates a participation record. It returns
	// ErrAlreadyParticipating when a record for the same (user, challenge)
	// pair exists; the backing store enforces the pair's uniqueness so
	// concurrent joins cannot both succeed.
	Insert(ctx context.Context, p *models.Participation) error

	// FindOne returns the participation for the pair, or nil when absent.
	FindOne(ctx context.Context, userID, challengeID primitive.ObjectID) (*models.Participation, error)

	// CompleteIfOpen atomically marks an uncompleted participation
	// completed, setting completedAt and pointsEarned in one conditional
	// write. It returns nil when no open record matched, leaving it to the
	// caller to distinguish absent from already-completed.
	CompleteIfOpen(ctx context.Context, userID, challengeID primitive.ObjectID, points int, now time.Time) (*models.Participation, error)

	// Delete removes the participation for the pair, reporting whether a
	// record existed.
	Delete(ctx context.Context, userID, challengeID primitive.ObjectID) (bool, error)

	// ByUser lists a user's participations. completed filters on
	// completion state when non-nil.
	ByUser(ctx context.Context, userID primitive.ObjectID, completed *bool) ([]models.Participation, error)

	// CompletedByUser lists a user's completed participations ordered by
	// completedAt descending, at most limit records (0 = no limit).
	CompletedByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]models.Participation, error)

	// ByChallenge lists every participation in a challenge.
	ByChallenge(ctx context.Context, challengeID primitive.ObjectID) ([]models.Participation, error)

	// SumPointsByUser totals pointsEarned over a user's completed
	// participations.
	SumPointsByUser(ctx context.Context, userID primitive.ObjectID) (int, error)

	// UserTotals groups the whole participation collection per user.
	UserTotals(ctx context.Context) ([]UserActivityStat, error)
}

// BadgeStore is the persistence collaborator for badges and their earnings.
type BadgeStore interface {
	ActiveBadges(ctx context.Context) ([]models.Badge, error)
	FindByID(ctx context.Context, badgeID primitive.ObjectID) (*models.Badge, error)
	EarnedCount(ctx context.Context, userID, badgeID primitive.ObjectID) (int, error)
	InsertUserBadge(ctx context.Context, ub *models.UserBadge) error
	UserBadges(ctx context.Context, userID primitive.ObjectID) ([]models.UserBadge, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int, error)
	DeleteUserBadge(ctx context.Context, userID, badgeID primitive.ObjectID) (bool, error)
}

// RewardStore is the persistence collaborator for the reward catalog.
type RewardStore interface {
	FindByID(ctx context.Context, rewardID primitive.ObjectID) (*models.Reward, error)
	ClaimCount(ctx context.Context, userID, rewardID primitive.ObjectID) (int, error)
	InsertUserReward(ctx context.Context, ur *models.UserReward) error
	IncrementClaimed(ctx context.Context, rewardID primitive.ObjectID) error
	MarkUsed(ctx context.Context, userRewardID primitive.ObjectID, now time.Time) (*models.UserReward, error)
}

// UserStore resolves user references for leaderboard entries.
type UserStore interface {
	FindPublic(ctx context.Context, userID primitive.ObjectID) (*models.PublicUser, error)
}
