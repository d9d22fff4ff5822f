package handlers

import (
	"net/http"

	"reserva/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler returns the booked and blocked slots for one provider
// day, plus the effective schedule so clients can render the open grid.
func AvailabilityHandler(c *gin.Context) {
	providerID := c.Param("providerId")
	dateKey := c.Query("date")
	if dateKey == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing date query parameter", "")
		return
	}

	avail, err := Coordinator.Availability(c.Request.Context(), providerID, dateKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}
