package handlers

import (
	"net/http"

	"reserva/utils"

	"github.com/gin-gonic/gin"
)

// Health is injected from main before the router starts.
var Health *utils.HealthMonitor

// HealthHandler reports the latest dependency health snapshot. The service
// can still take bookings with the cache or queue broker down, so only a
// Mongo outage degrades the HTTP status.
func HealthHandler(c *gin.Context) {
	status := Health.Status()

	httpStatus := http.StatusOK
	if !status.Mongo {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, status)
}
