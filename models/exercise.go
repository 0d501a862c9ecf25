package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Muscle groups an exercise can target
const (
	MuscleChest     = "Chest"
	MuscleBack      = "Back"
	MuscleLegs      = "Legs"
	MuscleShoulders = "Shoulders"
	MuscleArms      = "Arms"
	MuscleAbs       = "Abs"
	MuscleCardio    = "Cardio"
)

// Exercise is a catalog entry referenced by challenges.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	MuscleGroup string             `bson:"muscleGroup" json:"muscleGroup"`
	Difficulty  string             `bson:"difficulty" json:"difficulty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
