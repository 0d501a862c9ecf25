package controllers

import (
	"context"
	"net/http"
	"time"

	"fitquest/db"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness and database reachability.
func HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := db.MongoClient.Ping(ctx, nil); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   "up",
		"database": dbStatus,
		"time":     time.Now().UTC(),
	})
}
