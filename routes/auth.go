package routes

import (
	"fitquest/controllers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers the public authentication endpoints.
func SetupAuthRoutes(router *gin.Engine) {
	router.POST("/auth/register", controllers.Register)
	router.POST("/auth/login", controllers.Login)
}
