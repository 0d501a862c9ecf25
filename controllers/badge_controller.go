package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"fitquest/db"
	"fitquest/middlewares"
	"fitquest/models"
	"fitquest/services"
	"fitquest/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateBadgeRequest is the badge definition payload. MaxEarnings of -1
// means the badge can be earned an unlimited number of times.
type CreateBadgeRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Rules       *models.BadgeRules `json:"rules"`
	MaxEarnings int                `json:"maxEarnings"`
}

// AssignBadgeRequest is the manual badge grant payload
type AssignBadgeRequest struct {
	UserID string `json:"userId" binding:"required"`
	Reason string `json:"reason"`
}

// CreateBadge defines a new badge. Admin only.
func CreateBadge(c *gin.Context) {
	userID, _ := middlewares.CurrentUserID(c)

	var req CreateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.MaxEarnings == 0 {
		req.MaxEarnings = 1
	}

	now := time.Now()
	badge := models.Badge{
		Name:        req.Name,
		Description: req.Description,
		Rules:       req.Rules,
		MaxEarnings: req.MaxEarnings,
		IsActive:    true,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.BadgesCollection).InsertOne(ctx, badge)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A badge with this name already exists"})
			return
		}
		log.Printf("Error creating badge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create badge"})
		return
	}

	badge.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, badge)
}

// ListBadges returns badge definitions. Inactive badges are included only
// for admins asking with active=false.
func ListBadges(c *gin.Context) {
	filter := bson.M{"isActive": true}
	if c.Query("active") == "false" && middlewares.CurrentUserRole(c) == models.RoleAdmin {
		filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.BadgesCollection).Find(ctx, filter)
	if err != nil {
		log.Printf("Error listing badges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch badges"})
		return
	}
	defer cursor.Close(ctx)

	var badges []models.Badge
	if err := cursor.All(ctx, &badges); err != nil {
		log.Printf("Error decoding badges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "total": len(badges)})
}

// GetBadge returns a badge definition by id.
func GetBadge(c *gin.Context) {
	badgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var badge models.Badge
	if err := db.GetCollection(db.BadgesCollection).FindOne(ctx, bson.M{"_id": badgeID}).Decode(&badge); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	}

	c.JSON(http.StatusOK, badge)
}

// UpdateBadge replaces a badge definition. Admin only. Already-granted
// earnings are untouched.
func UpdateBadge(c *gin.Context) {
	badgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge ID"})
		return
	}

	var req CreateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.MaxEarnings == 0 {
		req.MaxEarnings = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"name":        req.Name,
		"description": req.Description,
		"rules":       req.Rules,
		"maxEarnings": req.MaxEarnings,
		"updatedAt":   time.Now(),
	}
	result, err := db.GetCollection(db.BadgesCollection).UpdateOne(ctx, bson.M{"_id": badgeID}, bson.M{"$set": update})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A badge with this name already exists"})
			return
		}
		log.Printf("Error updating badge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update badge"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Badge updated successfully"})
}

// ToggleBadge flips a badge's active flag. Deactivating is the soft
// delete: the badge stops auto-assigning but earnings remain. Admin only.
func ToggleBadge(c *gin.Context) {
	badgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var badge models.Badge
	if err := db.GetCollection(db.BadgesCollection).FindOne(ctx, bson.M{"_id": badgeID}).Decode(&badge); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	}

	newState := !badge.IsActive
	if _, err := db.GetCollection(db.BadgesCollection).UpdateOne(ctx,
		bson.M{"_id": badgeID},
		bson.M{"$set": bson.M{"isActive": newState, "updatedAt": time.Now()}}); err != nil {
		log.Printf("Error toggling badge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle badge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Badge status updated", "isActive": newState})
}

// AssignBadge manually grants a badge to a user. Admin only.
func AssignBadge(c *gin.Context) {
	badgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge ID"})
		return
	}

	var req AssignBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reason := req.Reason
	if reason == "" {
		reason = "manual_grant"
	}
	ub, err := services.GetBadgeService().AssignBadgeToUser(ctx, targetID, badgeID, &models.EarnedFrom{Reason: reason})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadgeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		case errors.Is(err, services.ErrEarningCapReached):
			c.JSON(http.StatusConflict, gin.H{"error": "Badge earning cap reached for this user"})
		default:
			log.Printf("Error assigning badge: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign badge"})
		}
		return
	}

	badgeName := ""
	if badge, err := services.GetBadgeService().Badge(ctx, badgeID); err == nil && badge != nil {
		badgeName = badge.Name
	}
	websocket.BroadcastGamificationEvent(models.GamificationEvent{
		Type:      "badge_awarded",
		UserID:    targetID.Hex(),
		BadgeName: badgeName,
		Timestamp: time.Now(),
	})

	c.JSON(http.StatusCreated, ub)
}

// RemoveBadge removes one earning of a badge from a user. Admin only.
func RemoveBadge(c *gin.Context) {
	badgeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge ID"})
		return
	}
	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := services.GetBadgeService().RemoveBadgeFromUser(ctx, targetID, badgeID); err != nil {
		if errors.Is(err, services.ErrBadgeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User does not hold this badge"})
			return
		}
		log.Printf("Error removing badge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove badge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Badge removed successfully"})
}

// MyBadges lists the caller's badge earnings.
func MyBadges(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	badges, err := services.GetBadgeService().UserBadges(ctx, userID)
	if err != nil {
		log.Printf("Error fetching user badges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch badges"})
		return
	}

	count, err := services.GetBadgeService().UserBadgeCount(ctx, userID)
	if err != nil {
		log.Printf("Error counting user badges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "total": count})
}

// UserBadges lists another user's badge earnings.
func UserBadges(c *gin.Context) {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	badges, err := services.GetBadgeService().UserBadges(ctx, targetID)
	if err != nil {
		log.Printf("Error fetching user badges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "total": len(badges)})
}
