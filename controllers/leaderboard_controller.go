package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"fitquest/middlewares"
	"fitquest/services"

	"github.com/gin-gonic/gin"
)

func leaderboardLimit(c *gin.Context) int {
	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}
	return limit
}

// LeaderboardByPoints returns the top users by lifetime points.
func LeaderboardByPoints(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := services.GetLeaderboardService().TopByPoints(ctx, leaderboardLimit(c))
	if err != nil {
		log.Printf("Error computing points leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "total": len(entries)})
}

// LeaderboardByChallenges returns the top users by completed challenges.
func LeaderboardByChallenges(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := services.GetLeaderboardService().TopByChallenges(ctx, leaderboardLimit(c))
	if err != nil {
		log.Printf("Error computing challenges leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "total": len(entries)})
}

// LeaderboardMostActive returns the most active users by participation
// count, completed or not.
func LeaderboardMostActive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := services.GetLeaderboardService().MostActive(ctx, leaderboardLimit(c))
	if err != nil {
		log.Printf("Error computing activity leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries, "total": len(entries)})
}

// MyRank returns the caller's standing. A user with no completed
// challenges has no rank yet.
func MyRank(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := services.GetLeaderboardService().UserRank(ctx, userID)
	if err != nil {
		log.Printf("Error computing user rank: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rank"})
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"ranked": false, "message": "Complete a challenge to enter the leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ranked": true, "rank": result})
}
