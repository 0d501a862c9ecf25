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
)

// CreateRewardRequest is the reward catalog payload. MaxClaims of -1 means
// the reward can be claimed an unlimited number of times per user.
type CreateRewardRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	PointsCost  int                   `json:"pointsCost" binding:"required,min=1"`
	Type        string                `json:"type" binding:"required"`
	Details     *models.RewardDetails `json:"details"`
	ValidUntil  *time.Time            `json:"validUntil"`
	MaxClaims   int                   `json:"maxClaims"`
	GymID       string                `json:"gymId"`
}

// CreateReward adds a reward to the catalog. Admin or owner only.
func CreateReward(c *gin.Context) {
	userID, _ := middlewares.CurrentUserID(c)

	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.MaxClaims == 0 {
		req.MaxClaims = 1
	}

	now := time.Now()
	reward := models.Reward{
		Name:        req.Name,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Type:        req.Type,
		Details:     req.Details,
		ValidUntil:  req.ValidUntil,
		MaxClaims:   req.MaxClaims,
		IsActive:    true,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.GymID != "" {
		gymID, err := primitive.ObjectIDFromHex(req.GymID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
			return
		}
		reward.GymID = gymID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.RewardsCollection).InsertOne(ctx, reward)
	if err != nil {
		log.Printf("Error creating reward: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reward"})
		return
	}

	reward.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, reward)
}

// ListRewards returns the active reward catalog.
func ListRewards(c *gin.Context) {
	filter := bson.M{"isActive": true}
	if c.Query("active") == "false" && middlewares.CurrentUserRole(c) == models.RoleAdmin {
		filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.RewardsCollection).Find(ctx, filter)
	if err != nil {
		log.Printf("Error listing rewards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rewards"})
		return
	}
	defer cursor.Close(ctx)

	var rewards []models.Reward
	if err := cursor.All(ctx, &rewards); err != nil {
		log.Printf("Error decoding rewards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards, "total": len(rewards)})
}

// GetReward returns a single reward by id.
func GetReward(c *gin.Context) {
	rewardID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var reward models.Reward
	if err := db.GetCollection(db.RewardsCollection).FindOne(ctx, bson.M{"_id": rewardID}).Decode(&reward); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}

	c.JSON(http.StatusOK, reward)
}

// UpdateReward replaces the mutable fields of a reward. Admin or owner only.
func UpdateReward(c *gin.Context) {
	rewardID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID"})
		return
	}

	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.MaxClaims == 0 {
		req.MaxClaims = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"name":        req.Name,
		"description": req.Description,
		"pointsCost":  req.PointsCost,
		"type":        req.Type,
		"details":     req.Details,
		"validUntil":  req.ValidUntil,
		"maxClaims":   req.MaxClaims,
		"updatedAt":   time.Now(),
	}
	result, err := db.GetCollection(db.RewardsCollection).UpdateOne(ctx, bson.M{"_id": rewardID}, bson.M{"$set": update})
	if err != nil {
		log.Printf("Error updating reward: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reward"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reward updated successfully"})
}

// DeactivateReward soft-deletes a reward: it disappears from the catalog
// but existing claims keep working. Admin or owner only.
func DeactivateReward(c *gin.Context) {
	rewardID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.RewardsCollection).UpdateOne(ctx,
		bson.M{"_id": rewardID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("Error deactivating reward: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate reward"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reward deactivated successfully"})
}

// ClaimReward claims a reward for the caller. Points are a lifetime score
// and are never deducted; the claim only requires the total to reach the
// reward's cost.
func ClaimReward(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	rewardID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	claim, err := services.GetRewardService().Claim(ctx, userID, rewardID, nil)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		case errors.Is(err, services.ErrRewardUnavailable):
			c.JSON(http.StatusGone, gin.H{"error": "Reward is no longer available"})
		case errors.Is(err, services.ErrClaimCapReached):
			c.JSON(http.StatusConflict, gin.H{"error": "Claim limit reached for this reward"})
		case errors.Is(err, services.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough points to claim this reward"})
		default:
			log.Printf("Error claiming reward: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim reward"})
		}
		return
	}

	rewardName := ""
	var reward models.Reward
	if err := db.GetCollection(db.RewardsCollection).FindOne(ctx, bson.M{"_id": rewardID}).Decode(&reward); err == nil {
		rewardName = reward.Name
	}
	websocket.BroadcastGamificationEvent(models.GamificationEvent{
		Type:       "reward_claimed",
		UserID:     userID.Hex(),
		RewardName: rewardName,
		Timestamp:  time.Now(),
	})

	c.JSON(http.StatusCreated, claim)
}

// UseReward marks one of the caller's claimed rewards as used.
func UseReward(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	claimID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Verify the claim belongs to the caller before marking it used.
	var existing models.UserReward
	if err := db.GetCollection(db.UserRewardsCollection).FindOne(ctx,
		bson.M{"_id": claimID, "userId": userID}).Decode(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claimed reward not found"})
		return
	}
	if existing.UsedAt != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Reward already used"})
		return
	}

	used, err := services.GetRewardService().Use(ctx, claimID)
	if err != nil {
		if errors.Is(err, services.ErrRewardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claimed reward not found"})
			return
		}
		log.Printf("Error using reward: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to use reward"})
		return
	}

	c.JSON(http.StatusOK, used)
}

// MyRewards lists the caller's claimed rewards.
func MyRewards(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.UserRewardsCollection).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Printf("Error listing claimed rewards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch claimed rewards"})
		return
	}
	defer cursor.Close(ctx)

	var claims []models.UserReward
	if err := cursor.All(ctx, &claims); err != nil {
		log.Printf("Error decoding claimed rewards: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode claimed rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": claims, "total": len(claims)})
}
