package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports process liveness. It deliberately bypasses the
// readiness gate so orchestrators do not recycle the process while the
// models are still fitting.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
