package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitquest/models"
	"fitquest/utils"
)

// RewardService handles claiming and using rewards from the points
// catalog. Claiming checks the user's accumulated challenge points against
// the reward's cost but does not deduct them; points are a lifetime score,
// not a spendable balance.
type RewardService struct {
	store          RewardStore
	participations ParticipationStore
}

func NewRewardService(store RewardStore, participations ParticipationStore) *RewardService {
	return &RewardService{store: store, participations: participations}
}

// Claim records a reward claim for the user. Fails with ErrRewardNotFound,
// ErrRewardUnavailable (inactive or expired), ErrClaimCapReached or
// ErrInsufficientPoints.
func (s *RewardService) Claim(ctx context.Context, userID, rewardID primitive.ObjectID, claimedFrom *models.ClaimedFrom) (*models.UserReward, error) {
	reward, err := s.store.FindByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}

	now := time.Now()
	if !reward.IsActive || (reward.ValidUntil != nil && reward.ValidUntil.Before(now)) {
		return nil, ErrRewardUnavailable
	}

	if reward.MaxClaims != -1 {
		claims, err := s.store.ClaimCount(ctx, userID, rewardID)
		if err != nil {
			return nil, err
		}
		if claims >= reward.MaxClaims {
			return nil, ErrClaimCapReached
		}
	}

	totalPoints, err := s.participations.SumPointsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if totalPoints < reward.PointsCost {
		return nil, ErrInsufficientPoints
	}

	code := ""
	if reward.Details != nil && reward.Details.Code != "" {
		code = reward.Details.Code
	} else {
		code, err = utils.GenerateRandomToken(8)
		if err != nil {
			return nil, err
		}
	}

	if claimedFrom == nil {
		claimedFrom = &models.ClaimedFrom{}
	}
	claimedFrom.TotalPoints = totalPoints

	ur := &models.UserReward{
		UserID:      userID,
		RewardID:    rewardID,
		ClaimedAt:   now,
		ExpiresAt:   reward.ValidUntil,
		Code:        code,
		ClaimedFrom: claimedFrom,
	}
	if err := s.store.InsertUserReward(ctx, ur); err != nil {
		return nil, err
	}

	if err := s.store.IncrementClaimed(ctx, rewardID); err != nil {
		return nil, err
	}

	return ur, nil
}

// Use marks a claimed reward as used. Fails with ErrRewardNotFound when
// the claim does not exist.
func (s *RewardService) Use(ctx context.Context, userRewardID primitive.ObjectID) (*models.UserReward, error) {
	ur, err := s.store.MarkUsed(ctx, userRewardID, time.Now())
	if err != nil {
		return nil, err
	}
	if ur == nil {
		return nil, ErrRewardNotFound
	}
	return ur, nil
}
