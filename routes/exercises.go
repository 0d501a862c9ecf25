package routes

import (
	"fitquest/controllers"
	"fitquest/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupExerciseRoutes registers the exercise catalog endpoints.
func SetupExerciseRoutes(auth *gin.RouterGroup) {
	auth.GET("/exercises", controllers.ListExercises)
	auth.GET("/exercises/:id", controllers.GetExercise)

	managed := auth.Group("/")
	managed.Use(middlewares.RBACMiddleware("exercise", "manage"))
	{
		managed.POST("/exercises", controllers.CreateExercise)
		managed.PUT("/exercises/:id", controllers.UpdateExercise)
		managed.DELETE("/exercises/:id", controllers.DeleteExercise)
	}
}
