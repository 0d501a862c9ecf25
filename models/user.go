package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. RBAC policies are keyed on these values.
const (
	RoleAdmin    = "ADMIN"
	RoleOwner    = "OWNER"
	RoleCustomer = "CUSTOMER"
)

// User defines a user entity
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Firstname string             `bson:"firstname" json:"firstname"`
	Lastname  string             `bson:"lastname" json:"lastname"`
	Login     string             `bson:"login" json:"login"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Birthdate *time.Time         `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	Weight    float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the subset of user fields safe to embed in API responses.
type PublicUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Firstname string             `bson:"firstname" json:"firstname"`
	Lastname  string             `bson:"lastname" json:"lastname"`
	Login     string             `bson:"login" json:"login"`
}
