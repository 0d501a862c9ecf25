package routes

import (
	"fitquest/controllers"
	"fitquest/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupRewardRoutes registers the reward catalog and claim endpoints.
func SetupRewardRoutes(auth *gin.RouterGroup) {
	auth.GET("/rewards", controllers.ListRewards)
	auth.GET("/rewards/:id", controllers.GetReward)
	auth.POST("/rewards/:id/claim", controllers.ClaimReward)
	auth.GET("/me/rewards", controllers.MyRewards)
	auth.PUT("/me/rewards/:id/use", controllers.UseReward)

	managed := auth.Group("/")
	managed.Use(middlewares.RBACMiddleware("reward", "manage"))
	{
		managed.POST("/rewards", controllers.CreateReward)
		managed.PUT("/rewards/:id", controllers.UpdateReward)
		managed.DELETE("/rewards/:id", controllers.DeactivateReward)
	}
}
