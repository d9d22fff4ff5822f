package handlers

import (
	"net/http"

	"reserva/models"
	"reserva/services/reservation"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Coordinator is injected from main before the router starts.
var Coordinator reservation.Coordinator

// respondServiceError translates the reservation error taxonomy into HTTP.
// Anything outside the taxonomy is an internal failure and stays opaque.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case reservation.IsValidation(err):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), "")
	case reservation.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case reservation.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")
	case reservation.IsIllegalTransition(err):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	default:
		getLogger(c).Error("reservation operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}

// CreateReservationHandler books a slot and returns the booking id together
// with the one-time cancel code. The code is shown exactly once.
func CreateReservationHandler(c *gin.Context) {
	var input models.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := Coordinator.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"bookingId":  result.BookingID,
		"cancelCode": result.CancelCode,
	})
}

// CancelBySecretHandler cancels a booking authenticated only by its cancel
// code (the public self-service path).
func CancelBySecretHandler(c *gin.Context) {
	var input models.CancelBySecretInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := Coordinator.CancelByCode(c.Request.Context(), input.CancelCode); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// AdminCancelHandler cancels a booking by id (operator path).
func AdminCancelHandler(c *gin.Context) {
	bookingID := c.Param("id")
	if err := Coordinator.Cancel(c.Request.Context(), bookingID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// RescheduleHandler moves a booking to a new slot.
func RescheduleHandler(c *gin.Context) {
	bookingID := c.Param("id")
	var input models.RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := Coordinator.Reschedule(c.Request.Context(), bookingID, input.NewSlotStart); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rescheduled"})
}

// TransitionHandler advances a booking along the status graph.
func TransitionHandler(c *gin.Context) {
	bookingID := c.Param("id")
	var input models.TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := Coordinator.Transition(c.Request.Context(), bookingID, input.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(input.Status)})
}

// ListDayHandler lists bookings for a provider day (operator console).
func ListDayHandler(c *gin.Context) {
	providerID := c.Param("providerId")
	dateKey := c.Query("date")
	if dateKey == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing date query parameter", "")
		return
	}

	bookings, err := Coordinator.ListDay(c.Request.Context(), providerID, dateKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// BlockSlotHandler marks a slot administratively unavailable.
func BlockSlotHandler(c *gin.Context) {
	var input models.BlockSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := Coordinator.BlockSlot(c.Request.Context(), input); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "blocked"})
}

// UnblockSlotHandler releases an administrative block.
func UnblockSlotHandler(c *gin.Context) {
	var input models.BlockSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := Coordinator.UnblockSlot(c.Request.Context(), input); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unblocked"})
}
