package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Challenge difficulty levels
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Challenge lifecycle states
const (
	ChallengeActive    = "Active"
	ChallengeCompleted = "Completed"
	ChallengeArchived  = "Archived"
)

// ChallengeDuration holds a duration value with its unit ("days", "weeks", "months")
type ChallengeDuration struct {
	Value int    `bson:"value" json:"value" binding:"required"`
	Unit  string `bson:"unit" json:"unit" binding:"required,oneof=days weeks months"`
}

// ChallengeExercise links an exercise into a challenge with its prescription
type ChallengeExercise struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps       int                `bson:"reps,omitempty" json:"reps,omitempty"`
	Duration   int                `bson:"duration,omitempty" json:"duration,omitempty"`
	Rest       int                `bson:"rest,omitempty" json:"rest,omitempty"`
}

// Challenge is a time-boxed fitness task carrying a fixed point value.
// Points are always derived from difficulty at write time; any
// client-supplied value is overwritten.
type Challenge struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	Difficulty  string              `bson:"difficulty" json:"difficulty"`
	Points      int                 `bson:"points" json:"points"`
	Exercises   []ChallengeExercise `bson:"exercises,omitempty" json:"exercises,omitempty"`
	GymID       primitive.ObjectID  `bson:"gymId,omitempty" json:"gymId,omitempty"`
	StartAt     *time.Time          `bson:"startAt,omitempty" json:"startAt,omitempty"`
	EndAt       *time.Time          `bson:"endAt,omitempty" json:"endAt,omitempty"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	IsApproved  bool                `bson:"isApproved" json:"isApproved"`
	Duration    ChallengeDuration   `bson:"duration" json:"duration"`
	Status      string              `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PointsForDifficulty maps difficulty to its fixed point value.
// Unknown difficulties are worth 0, which create/update validation rejects
// before the value could ever be persisted.
func PointsForDifficulty(difficulty string) int {
	switch difficulty {
	case DifficultyBeginner:
		return 30
	case DifficultyIntermediate:
		return 50
	case DifficultyAdvanced:
		return 70
	}
	return 0
}

// Normalize applies the write-time derivation rules: points follow
// difficulty, and a challenge whose end date has passed is archived.
func (c *Challenge) Normalize(now time.Time) {
	c.Points = PointsForDifficulty(c.Difficulty)
	if c.EndAt != nil && c.EndAt.Before(now) {
		c.Status = ChallengeArchived
	}
}
