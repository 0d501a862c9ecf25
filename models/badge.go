package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Metric types a badge rule can reference. Only the first three are
// computed today; the rest evaluate against a default of 0.
const (
	MetricChallengesCompleted = "challenges_completed"
	MetricTotalPoints         = "total_points"
	MetricStreakDays          = "streak_days"
	MetricDifficultyMaster    = "difficulty_master"
	MetricSpecificChallenge   = "specific_challenge"
	MetricWeightMilestone     = "weight_milestone"
	MetricGymAttendance       = "gym_attendance"
	MetricCustom              = "custom"
)

// Comparison operators for badge rules
const (
	OpEqual          = "eq"
	OpGreater        = "gt"
	OpGreaterOrEqual = "gte"
	OpLess           = "lt"
	OpLessOrEqual    = "lte"
)

// Rule combinators
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// BadgeRule is one threshold condition over a user metric.
type BadgeRule struct {
	Type     string `bson:"type" json:"type"`
	Operator string `bson:"operator" json:"operator"`
	Value    int    `bson:"value" json:"value"`
	Weight   int    `bson:"weight,omitempty" json:"weight,omitempty"`
}

// CompoundRule is a list of rules joined by AND/OR logic.
type CompoundRule struct {
	Rules []BadgeRule `bson:"rules" json:"rules"`
	Logic string      `bson:"logic" json:"logic"`
}

// BadgeRules is the tagged rule form of a badge: exactly one of Single,
// Multiple or Evaluator should be set. Evaluator references an external
// evaluation hook that has no implementation; badges carrying it are
// never auto-assigned.
type BadgeRules struct {
	Single    *BadgeRule    `bson:"single,omitempty" json:"single,omitempty"`
	Multiple  *CompoundRule `bson:"multiple,omitempty" json:"multiple,omitempty"`
	Evaluator string        `bson:"evaluator,omitempty" json:"evaluator,omitempty"`
}

// Badge is an achievement awarded automatically when its rules are
// satisfied, or manually by an admin. MaxEarnings of -1 means unlimited.
type Badge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Rules       *BadgeRules        `bson:"rules,omitempty" json:"rules,omitempty"`
	MaxEarnings int                `bson:"maxEarnings" json:"maxEarnings"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EarnedFrom records why a badge was granted.
type EarnedFrom struct {
	ChallengeID primitive.ObjectID `bson:"challengeId,omitempty" json:"challengeId,omitempty"`
	Points      int                `bson:"points,omitempty" json:"points,omitempty"`
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
}

// UserBadge is one earning of a badge by a user. Unlike Participation the
// (userId, badgeId) pair is not unique; a badge may be earned repeatedly up
// to its MaxEarnings cap.
type UserBadge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	BadgeID     primitive.ObjectID `bson:"badgeId" json:"badgeId"`
	EarnedAt    time.Time          `bson:"earnedAt" json:"earnedAt"`
	EarnedCount int                `bson:"earnedCount" json:"earnedCount"`
	EarnedFrom  *EarnedFrom        `bson:"earnedFrom,omitempty" json:"earnedFrom,omitempty"`
}
