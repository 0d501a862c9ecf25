package routes

import (
	"fitquest/controllers"

	"github.com/gin-gonic/gin"
)

// SetupLeaderboardRoutes registers the ranking endpoints.
func SetupLeaderboardRoutes(auth *gin.RouterGroup) {
	auth.GET("/leaderboard/points", controllers.LeaderboardByPoints)
	auth.GET("/leaderboard/challenges", controllers.LeaderboardByChallenges)
	auth.GET("/leaderboard/most-active", controllers.LeaderboardMostActive)
	auth.GET("/me/rank", controllers.MyRank)
}
