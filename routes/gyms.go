package routes

import (
	"fitquest/controllers"
	"fitquest/middlewares"
	"fitquest/models"

	"github.com/gin-gonic/gin"
)

// SetupGymRoutes registers the gym catalog endpoints.
func SetupGymRoutes(auth *gin.RouterGroup) {
	auth.GET("/gyms", controllers.ListGyms)
	auth.GET("/gyms/:id", controllers.GetGym)

	managed := auth.Group("/")
	managed.Use(middlewares.RBACMiddleware("gym", "manage"))
	{
		managed.POST("/gyms", controllers.CreateGym)
		managed.PUT("/gyms/:id", controllers.UpdateGym)
		managed.DELETE("/gyms/:id", controllers.DeleteGym)
	}

	auth.PUT("/gyms/:id/approve", middlewares.RequireRole(models.RoleAdmin), controllers.ApproveGym)
}
