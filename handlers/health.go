package handlers

import (
	"net/http"

	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and the last dependency snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"message":      "Hi, I'm the salon booking service",
		"dependencies": utils.GetHealthStatus(),
	})
}
