package handlers

import (
	"net/http"

	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	dbStatus := "ok"
	if err := database.Ping(database.DB); err != nil {
		dbStatus = "error"
	}

	redisStatus := "not configured"
	if database.Redis != nil {
		redisStatus = "ok"
		if err := database.Redis.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error"
		}
	}

	status := "ok"
	if dbStatus != "ok" || redisStatus == "error" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"message": "RealEstatePro API is running",
		"checks": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
