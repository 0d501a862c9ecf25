package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"fitquest/db"
	"fitquest/middlewares"
	"fitquest/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateGymRequest is the gym creation payload
type CreateGymRequest struct {
	Name        string            `json:"name" binding:"required"`
	Address     models.GymAddress `json:"address" binding:"required"`
	Contact     models.GymContact `json:"contact"`
	Description string            `json:"description"`
	Capacity    int               `json:"capacity"`
	Equipment   []string          `json:"equipment"`
	Activities  []string          `json:"activities"`
}

// CreateGym registers a new gym owned by the caller. Gyms created by an
// admin are approved immediately; owner-created gyms wait for approval.
func CreateGym(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	now := time.Now()
	gym := models.Gym{
		Name:        req.Name,
		Address:     req.Address,
		Contact:     req.Contact,
		Description: req.Description,
		Capacity:    req.Capacity,
		Equipment:   req.Equipment,
		Activities:  req.Activities,
		IsApproved:  middlewares.CurrentUserRole(c) == models.RoleAdmin,
		OwnerID:     userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.GymsCollection).InsertOne(ctx, gym)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A gym with this name already exists"})
			return
		}
		log.Printf("Error creating gym: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gym"})
		return
	}

	gym.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, gym)
}

// ListGyms returns approved gyms. Admins see unapproved ones too via
// the approved=false query parameter.
func ListGyms(c *gin.Context) {
	filter := bson.M{"isApproved": true}
	if c.Query("approved") == "false" && middlewares.CurrentUserRole(c) == models.RoleAdmin {
		filter = bson.M{"isApproved": false}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.GymsCollection).Find(ctx, filter)
	if err != nil {
		log.Printf("Error listing gyms: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gyms"})
		return
	}
	defer cursor.Close(ctx)

	var gyms []models.Gym
	if err := cursor.All(ctx, &gyms); err != nil {
		log.Printf("Error decoding gyms: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode gyms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gyms": gyms, "total": len(gyms)})
}

// GetGym returns a single gym by id.
func GetGym(c *gin.Context) {
	gymID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var gym models.Gym
	if err := db.GetCollection(db.GymsCollection).FindOne(ctx, bson.M{"_id": gymID}).Decode(&gym); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		return
	}

	c.JSON(http.StatusOK, gym)
}

// UpdateGym updates gym fields. Only the owner or an admin may update.
func UpdateGym(c *gin.Context) {
	gymID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	userID, _ := middlewares.CurrentUserID(c)

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var gym models.Gym
	if err := db.GetCollection(db.GymsCollection).FindOne(ctx, bson.M{"_id": gymID}).Decode(&gym); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		return
	}
	if gym.OwnerID != userID && middlewares.CurrentUserRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner or an admin can update this gym"})
		return
	}

	update := bson.M{
		"name":        req.Name,
		"address":     req.Address,
		"contact":     req.Contact,
		"description": req.Description,
		"capacity":    req.Capacity,
		"equipment":   req.Equipment,
		"activities":  req.Activities,
		"updatedAt":   time.Now(),
	}
	if _, err := db.GetCollection(db.GymsCollection).UpdateOne(ctx, bson.M{"_id": gymID}, bson.M{"$set": update}); err != nil {
		log.Printf("Error updating gym: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gym"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gym updated successfully"})
}

// DeleteGym removes a gym. Only the owner or an admin may delete.
func DeleteGym(c *gin.Context) {
	gymID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	userID, _ := middlewares.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var gym models.Gym
	if err := db.GetCollection(db.GymsCollection).FindOne(ctx, bson.M{"_id": gymID}).Decode(&gym); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		return
	}
	if gym.OwnerID != userID && middlewares.CurrentUserRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner or an admin can delete this gym"})
		return
	}

	if _, err := db.GetCollection(db.GymsCollection).DeleteOne(ctx, bson.M{"_id": gymID}); err != nil {
		log.Printf("Error deleting gym: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete gym"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gym deleted successfully"})
}

// ApproveGym marks a gym as approved. Admin only.
func ApproveGym(c *gin.Context) {
	gymID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.GymsCollection).UpdateOne(ctx,
		bson.M{"_id": gymID},
		bson.M{"$set": bson.M{"isApproved": true, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("Error approving gym: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve gym"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gym not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gym approved successfully"})
}
