package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation pairs a user with a challenge they joined. One record per
// (userId, challengeId) pair, enforced by a unique index. CompletedAt unset
// means the user is still participating; once set, PointsEarned is the
// snapshot of the challenge's point value at completion time and is never
// recomputed.
type Participation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	ChallengeID  primitive.ObjectID `bson:"challengeId" json:"challengeId"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	PointsEarned int                `bson:"pointsEarned" json:"pointsEarned"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Completed reports whether this participation has been completed.
func (p *Participation) Completed() bool {
	return p.CompletedAt != nil
}

// SharedChallenge records a challenge shared by one user with others.
type SharedChallenge struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	ChallengeID primitive.ObjectID   `bson:"challengeId" json:"challengeId"`
	SharedBy    primitive.ObjectID   `bson:"sharedBy" json:"sharedBy"`
	SharedWith  []primitive.ObjectID `bson:"sharedWith" json:"sharedWith"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}
