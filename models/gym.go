package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GymAddress is a gym's postal address.
type GymAddress struct {
	Street  string `bson:"street" json:"street"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	City    string `bson:"city" json:"city"`
	Country string `bson:"country" json:"country"`
}

// GymContact holds contact details for a gym.
type GymContact struct {
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email"`
}

// Gym is a facility owned by an OWNER user. New gyms wait for admin
// approval before their challenges become visible.
type Gym struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Address     GymAddress         `bson:"address" json:"address"`
	Contact     GymContact         `bson:"contact" json:"contact"`
	Description string             `bson:"description" json:"description"`
	Capacity    int                `bson:"capacity" json:"capacity"`
	Equipment   []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Activities  []string           `bson:"activities,omitempty" json:"activities,omitempty"`
	IsApproved  bool               `bson:"isApproved" json:"isApproved"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
