package routes

import (
	"fitquest/controllers"
	"fitquest/middlewares"
	"fitquest/models"

	"github.com/gin-gonic/gin"
)

// SetupChallengeRoutes registers challenge CRUD, participation and
// sharing endpoints.
func SetupChallengeRoutes(auth *gin.RouterGroup) {
	auth.GET("/challenges", controllers.ListChallenges)
	auth.GET("/challenges/:id", controllers.GetChallenge)
	auth.GET("/challenges/:id/participants", controllers.ChallengeParticipants)

	// Anyone may propose a challenge; only admin/owner creations are
	// approved immediately.
	auth.POST("/challenges", controllers.CreateChallenge)
	auth.PUT("/challenges/:id", controllers.UpdateChallenge)
	auth.DELETE("/challenges/:id", controllers.DeleteChallenge)

	admin := auth.Group("/")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/challenges/pending", controllers.ListPendingChallenges)
		admin.PUT("/challenges/:id/approve", controllers.ApproveChallenge)
	}

	// Participation lifecycle
	auth.POST("/challenges/:id/join", controllers.JoinChallenge)
	auth.POST("/challenges/:id/complete", controllers.CompleteChallenge)
	auth.DELETE("/challenges/:id/leave", controllers.LeaveChallenge)

	auth.GET("/me/challenges/active", controllers.MyActiveChallenges)
	auth.GET("/me/challenges/completed", controllers.MyCompletedChallenges)
	auth.GET("/me/points", controllers.MyPoints)

	// Sharing
	auth.POST("/shares", controllers.ShareChallenge)
	auth.GET("/shares/by-me", controllers.SharesByMe)
	auth.GET("/shares/with-me", controllers.SharesWithMe)
	auth.PUT("/shares/:id/recipients", controllers.AddShareRecipients)
	auth.DELETE("/shares/:id/recipients", controllers.RemoveShareRecipients)
	auth.DELETE("/shares/:id", controllers.DeleteShare)
}
