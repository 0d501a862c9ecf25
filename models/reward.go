package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward types in the points-redemption catalog
const (
	RewardDiscount        = "discount"
	RewardFreeSession     = "free_session"
	RewardEquipment       = "equipment"
	RewardNutritionalPlan = "nutritional_plan"
	RewardCoachingSession = "coaching_session"
	RewardGymMembership   = "gym_membership"
	RewardCustom          = "custom"
)

// RewardDetails carries type-specific fields of a reward.
type RewardDetails struct {
	Amount     int    `bson:"amount,omitempty" json:"amount,omitempty"`
	Percentage int    `bson:"percentage,omitempty" json:"percentage,omitempty"`
	Quantity   int    `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Code       string `bson:"code,omitempty" json:"code,omitempty"`
}

// Reward is a redeemable catalog entry paid for with challenge points.
// MaxClaims of -1 means unlimited.
type Reward struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	PointsCost   int                `bson:"pointsCost" json:"pointsCost"`
	Type         string             `bson:"type" json:"type"`
	Details      *RewardDetails     `bson:"details,omitempty" json:"details,omitempty"`
	ValidUntil   *time.Time         `bson:"validUntil,omitempty" json:"validUntil,omitempty"`
	MaxClaims    int                `bson:"maxClaims" json:"maxClaims"`
	ClaimedCount int                `bson:"claimedCount" json:"claimedCount"`
	GymID        primitive.ObjectID `bson:"gymId,omitempty" json:"gymId,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedBy    primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ClaimedFrom records the context in which a reward was claimed.
type ClaimedFrom struct {
	ChallengeID primitive.ObjectID `bson:"challengeId,omitempty" json:"challengeId,omitempty"`
	TotalPoints int                `bson:"totalPoints,omitempty" json:"totalPoints,omitempty"`
}

// UserReward tracks one claim of a reward by a user.
type UserReward struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	RewardID    primitive.ObjectID `bson:"rewardId" json:"rewardId"`
	ClaimedAt   time.Time          `bson:"claimedAt" json:"claimedAt"`
	UsedAt      *time.Time         `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	ExpiresAt   *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Code        string             `bson:"code,omitempty" json:"code,omitempty"`
	ClaimedFrom *ClaimedFrom       `bson:"claimedFrom,omitempty" json:"claimedFrom,omitempty"`
}
