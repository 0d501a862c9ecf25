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

// CreateChallengeRequest is the challenge creation/update payload. A points
// field sent by the client is ignored; points always follow difficulty.
type CreateChallengeRequest struct {
	Name        string                     `json:"name" binding:"required"`
	Description string                     `json:"description"`
	Difficulty  string                     `json:"difficulty" binding:"required,oneof=Beginner Intermediate Advanced"`
	Exercises   []models.ChallengeExercise `json:"exercises"`
	GymID       string                     `json:"gymId"`
	StartAt     *time.Time                 `json:"startAt"`
	EndAt       *time.Time                 `json:"endAt"`
	Duration    models.ChallengeDuration   `json:"duration" binding:"required"`
}

// CreateChallenge creates a challenge. Challenges created by an admin or a
// gym owner are approved immediately; customer-created ones wait for
// admin approval.
func CreateChallenge(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	role := middlewares.CurrentUserRole(c)
	now := time.Now()
	challenge := models.Challenge{
		Name:        req.Name,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Exercises:   req.Exercises,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		CreatedBy:   userID,
		IsApproved:  role == models.RoleAdmin || role == models.RoleOwner,
		Duration:    req.Duration,
		Status:      models.ChallengeActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.GymID != "" {
		gymID, err := primitive.ObjectIDFromHex(req.GymID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
			return
		}
		challenge.GymID = gymID
	}
	challenge.Normalize(now)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.ChallengesCollection).InsertOne(ctx, challenge)
	if err != nil {
		log.Printf("Error creating challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	challenge.ID = result.InsertedID.(primitive.ObjectID)
	c.JSON(http.StatusCreated, challenge)
}

// ListChallenges returns approved, active challenges, optionally filtered
// by gym or difficulty.
func ListChallenges(c *gin.Context) {
	filter := bson.M{"isApproved": true, "status": models.ChallengeActive}
	if gym := c.Query("gymId"); gym != "" {
		gymID, err := primitive.ObjectIDFromHex(gym)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gym ID"})
			return
		}
		filter["gymId"] = gymID
	}
	if d := c.Query("difficulty"); d != "" {
		filter["difficulty"] = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.ChallengesCollection).Find(ctx, filter)
	if err != nil {
		log.Printf("Error listing challenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}
	defer cursor.Close(ctx)

	var challenges []models.Challenge
	if err := cursor.All(ctx, &challenges); err != nil {
		log.Printf("Error decoding challenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges, "total": len(challenges)})
}

// ListPendingChallenges returns unapproved challenges. Admin only.
func ListPendingChallenges(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := db.GetCollection(db.ChallengesCollection).Find(ctx, bson.M{"isApproved": false})
	if err != nil {
		log.Printf("Error listing pending challenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}
	defer cursor.Close(ctx)

	var challenges []models.Challenge
	if err := cursor.All(ctx, &challenges); err != nil {
		log.Printf("Error decoding challenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges, "total": len(challenges)})
}

// GetChallenge returns a single challenge by id.
func GetChallenge(c *gin.Context) {
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var challenge models.Challenge
	if err := db.GetCollection(db.ChallengesCollection).FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// fetchChallengeForWrite loads a challenge and checks the caller may modify
// it: the creator or an admin.
func fetchChallengeForWrite(c *gin.Context, ctx context.Context, challengeID primitive.ObjectID) (*models.Challenge, bool) {
	var challenge models.Challenge
	if err := db.GetCollection(db.ChallengesCollection).FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return nil, false
	}

	userID, _ := middlewares.CurrentUserID(c)
	if challenge.CreatedBy != userID && middlewares.CurrentUserRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an admin can modify this challenge"})
		return nil, false
	}
	return &challenge, true
}

// UpdateChallenge updates a challenge. Creator or admin only. Points are
// re-derived from difficulty; an expired end date archives the challenge.
func UpdateChallenge(c *gin.Context) {
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	challenge, ok := fetchChallengeForWrite(c, ctx, challengeID)
	if !ok {
		return
	}

	now := time.Now()
	challenge.Name = req.Name
	challenge.Description = req.Description
	challenge.Difficulty = req.Difficulty
	challenge.Exercises = req.Exercises
	challenge.StartAt = req.StartAt
	challenge.EndAt = req.EndAt
	challenge.Duration = req.Duration
	challenge.UpdatedAt = now
	challenge.Normalize(now)

	update := bson.M{
		"name":        challenge.Name,
		"description": challenge.Description,
		"difficulty":  challenge.Difficulty,
		"points":      challenge.Points,
		"exercises":   challenge.Exercises,
		"startAt":     challenge.StartAt,
		"endAt":       challenge.EndAt,
		"duration":    challenge.Duration,
		"status":      challenge.Status,
		"updatedAt":   challenge.UpdatedAt,
	}
	if _, err := db.GetCollection(db.ChallengesCollection).UpdateOne(ctx, bson.M{"_id": challengeID}, bson.M{"$set": update}); err != nil {
		log.Printf("Error updating challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge"})
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// DeleteChallenge removes a challenge. Creator or admin only.
func DeleteChallenge(c *gin.Context) {
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, ok := fetchChallengeForWrite(c, ctx, challengeID); !ok {
		return
	}

	if _, err := db.GetCollection(db.ChallengesCollection).DeleteOne(ctx, bson.M{"_id": challengeID}); err != nil {
		log.Printf("Error deleting challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge deleted successfully"})
}

// ApproveChallenge marks a challenge as approved. Admin only.
func ApproveChallenge(c *gin.Context) {
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.GetCollection(db.ChallengesCollection).UpdateOne(ctx,
		bson.M{"_id": challengeID},
		bson.M{"$set": bson.M{"isApproved": true, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("Error approving challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve challenge"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge approved successfully"})
}

// JoinChallenge enrolls the caller in a challenge.
func JoinChallenge(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var challenge models.Challenge
	if err := db.GetCollection(db.ChallengesCollection).FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}
	if !challenge.IsApproved || challenge.Status != models.ChallengeActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Challenge is not open for participation"})
		return
	}

	participation, err := services.GetParticipationService().Join(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyParticipating) {
			c.JSON(http.StatusConflict, gin.H{"error": "Already participating in this challenge"})
			return
		}
		log.Printf("Error joining challenge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join challenge"})
		return
	}

	c.JSON(http.StatusCreated, participation)
}

// CompleteChallenge marks the caller's participation completed, snapshots
// the challenge's point value and runs badge assignment in the same
// request. Awarded badges ride along in the response.
func CompleteChallenge(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var challenge models.Challenge
	if err := db.GetCollection(db.ChallengesCollection).FindOne(ctx, bson.M{"_id": challengeID}).Decode(&challenge); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	participation, err := services.GetParticipationService().Complete(ctx, userID, challengeID, challenge.Points)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotParticipating):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not participating in this challenge"})
		case errors.Is(err, services.ErrAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Challenge already completed"})
		default:
			log.Printf("Error completing challenge: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete challenge"})
		}
		return
	}

	websocket.BroadcastGamificationEvent(models.GamificationEvent{
		Type:        "challenge_completed",
		UserID:      userID.Hex(),
		ChallengeID: challengeID.Hex(),
		Points:      participation.PointsEarned,
		Timestamp:   time.Now(),
	})

	// Badge evaluation runs on the fresh metrics in the same request, so
	// the completion that crossed a threshold immediately grants its badge.
	earnedFrom := &models.EarnedFrom{
		ChallengeID: challengeID,
		Points:      participation.PointsEarned,
		Reason:      "challenge_completed",
	}
	awarded, err := services.GetBadgeService().AssignEligibleBadges(ctx, userID, earnedFrom)
	if err != nil {
		// Completion already happened; report it and log the badge failure.
		log.Printf("Error assigning badges after completion: %v", err)
		awarded = nil
	}

	for _, ub := range awarded {
		badgeName := ""
		if badge, err := services.GetBadgeService().Badge(ctx, ub.BadgeID); err == nil && badge != nil {
			badgeName = badge.Name
		}
		websocket.BroadcastGamificationEvent(models.GamificationEvent{
			Type:      "badge_awarded",
			UserID:    userID.Hex(),
			BadgeName: badgeName,
			Timestamp: time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"participation": participation,
		"badgesAwarded": awarded,
	})
}

// LeaveChallenge withdraws the caller from a challenge they joined but
// have not completed.
func LeaveChallenge(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := services.GetParticipationService().Leave(ctx, userID, challengeID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotParticipating):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not participating in this challenge"})
		case errors.Is(err, services.ErrAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot leave a completed challenge"})
		default:
			log.Printf("Error leaving challenge: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave challenge"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left challenge successfully"})
}

// MyActiveChallenges lists the caller's joined-but-open participations.
func MyActiveChallenges(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	participations, err := services.GetParticipationService().ActiveChallenges(ctx, userID)
	if err != nil {
		log.Printf("Error fetching active challenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch active challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"participations": participations, "total": len(participations)})
}

// MyCompletedChallenges lists the caller's completed participations.
func MyCompletedChallenges(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	participations, err := services.GetParticipationService().CompletedChallenges(ctx, userID)
	if err != nil {
		log.Printf("Error fetching completed challenges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch completed challenges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"participations": participations, "total": len(participations)})
}

// MyPoints returns the caller's lifetime points total.
func MyPoints(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	total, err := services.GetParticipationService().UserTotalPoints(ctx, userID)
	if err != nil {
		log.Printf("Error computing total points: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute total points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalPoints": total})
}

// ChallengeParticipants lists everyone enrolled in a challenge.
func ChallengeParticipants(c *gin.Context) {
	challengeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	participants, err := services.GetParticipationService().Participants(ctx, challengeID)
	if err != nil {
		log.Printf("Error fetching participants: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": participants, "total": len(participants)})
}
