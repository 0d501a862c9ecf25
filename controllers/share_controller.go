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
)

// ShareChallengeRequest is the payload for sharing a challenge
type ShareChallengeRequest struct {
	ChallengeID string   `json:"challengeId" binding:"required"`
	UserIDs     []string `json:"userIds" binding:"required,min=1"`
}

// ShareRecipientsRequest adds or removes recipients on an existing share
type ShareRecipientsRequest struct {
	UserIDs []string `json:"userIds" binding:"required,min=1"`
}

func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ShareChallenge shares a challenge with a list of users.
func ShareChallenge(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ShareChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	challengeID, err := primitive.ObjectIDFromHex(req.ChallengeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}
	recipients, err := parseObjectIDs(req.UserIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID in list"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.GetCollection(db.ChallengesCollection).FindOne(ctx, bson.M{"_id": challengeID}).Err(); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	share := models.SharedChallenge{
		ChallengeID: challengeID,
		SharedBy:    userID,
		SharedWith:  recipients,
		CreatedAt:   time.Now(),
	}

	result, err := db.GetCollection(db.SharedChallengesCollection).InsertOne(ctx, share)
	if err != nil {
		log.Printf("Error sharing challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share challenge"})
		return
	}

	share.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, share)
}

// SharesByMe lists the challenges the caller has shared.
func SharesByMe(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	listShares(c, bson.M{"sharedBy": userID})
}

// SharesWithMe lists the challenges shared with the caller.
func SharesWithMe(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	listShares(c, bson.M{"sharedWith": userID})
}

func listShares(c *gin.Context, filter bson.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.SharedChallengesCollection).Find(ctx, filter)
	if err != nil {
		log.Printf("Error listing shares: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shares"})
		return
	}
	defer cursor.Close(ctx)

	var shares []models.SharedChallenge
	if err := cursor.All(ctx, &shares); err != nil {
		log.Printf("Error decoding shares: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode shares"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"shares": shares, "total": len(shares)})
}

// AddShareRecipients appends users to an existing share. Sharer only.
func AddShareRecipients(c *gin.Context) {
	updateShareRecipients(c, "$addToSet")
}

// RemoveShareRecipients removes users from an existing share. Sharer only.
func RemoveShareRecipients(c *gin.Context) {
	updateShareRecipients(c, "$pull")
}

func updateShareRecipients(c *gin.Context, op string) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	shareID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid share ID"})
		return
	}

	var req ShareRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	recipients, err := parseObjectIDs(req.UserIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID in list"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var update bson.M
	if op == "$pull" {
		update = bson.M{op: bson.M{"sharedWith": bson.M{"$in": recipients}}}
	} else {
		update = bson.M{op: bson.M{"sharedWith": bson.M{"$each": recipients}}}
	}

	result, err := db.GetCollection(db.SharedChallengesCollection).UpdateOne(ctx,
		bson.M{"_id": shareID, "sharedBy": userID}, update)
	if err != nil {
		log.Printf("Error updating share recipients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update share"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Share not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share updated successfully"})
}

// DeleteShare removes a share entirely. Sharer only.
func DeleteShare(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	shareID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid share ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.SharedChallengesCollection).DeleteOne(ctx,
		bson.M{"_id": shareID, "sharedBy": userID})
	if err != nil {
		log.Printf("Error deleting share: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete share"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Share not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Share deleted successfully"})
}
