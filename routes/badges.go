package routes

import (
	"fitquest/controllers"
	"fitquest/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupBadgeRoutes registers badge catalog and earning endpoints.
func SetupBadgeRoutes(auth *gin.RouterGroup) {
	auth.GET("/badges", controllers.ListBadges)
	auth.GET("/badges/:id", controllers.GetBadge)
	auth.GET("/me/badges", controllers.MyBadges)

	managed := auth.Group("/")
	managed.Use(middlewares.RBACMiddleware("badge", "manage"))
	{
		managed.POST("/badges", controllers.CreateBadge)
		managed.PUT("/badges/:id", controllers.UpdateBadge)
		managed.PUT("/badges/:id/toggle", controllers.ToggleBadge)
		managed.POST("/badges/:id/assign", controllers.AssignBadge)
		managed.DELETE("/badges/:id/users/:userId", controllers.RemoveBadge)
	}
}
