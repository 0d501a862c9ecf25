package routes

import (
	"fitquest/controllers"
	"fitquest/middlewares"
	"fitquest/models"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers profile and user-administration endpoints.
func SetupUserRoutes(auth *gin.RouterGroup) {
	auth.GET("/users/me", controllers.GetProfile)
	auth.PUT("/users/me", controllers.UpdateProfile)
	auth.GET("/users/:id/badges", controllers.UserBadges)

	admin := auth.Group("/")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", controllers.ListUsers)
		admin.PUT("/users/:id/role", controllers.UpdateUserRole)
	}
}
