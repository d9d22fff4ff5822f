package handlers

import (
	"net/http"

	"reserva/models"
	"reserva/services/notification"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var Notifier notification.NotificationService

// BroadcastHandler runs a supervised mass send and reports the outcome
// synchronously so the operator sees failures immediately.
func BroadcastHandler(c *gin.Context) {
	var input models.BroadcastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	report, err := Notifier.Broadcast(c.Request.Context(), input)
	if err != nil {
		getLogger(c).Error("broadcast failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "broadcast failed", "")
		return
	}
	c.JSON(http.StatusOK, report)
}

// BirthdayBroadcastHandler triggers the birthday greeting run manually; the
// same job also fires on the daily schedule.
func BirthdayBroadcastHandler(c *gin.Context) {
	report, err := Notifier.BroadcastBirthdays(c.Request.Context())
	if err != nil {
		getLogger(c).Error("birthday broadcast failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "birthday broadcast failed", "")
		return
	}
	c.JSON(http.StatusOK, report)
}
