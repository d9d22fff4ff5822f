package handlers

import (
	"net/http"
	"strconv"

	queueRepo "reserva/database/repository/queue"
	"reserva/models"
	"reserva/services/tasks"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	QueueRepo  queueRepo.QueueRepository
	TaskClient *tasks.Client
)

// ListQueueHandler lists outbound queue items by status (default pending).
func ListQueueHandler(c *gin.Context) {
	status := models.QueueStatus(c.DefaultQuery("status", string(models.QueuePending)))
	switch status {
	case models.QueuePending, models.QueueSent, models.QueueFailed:
	default:
		utils.JSONError(c, http.StatusBadRequest, "status must be pending, sent or failed", "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	items, err := QueueRepo.ListByStatus(status, limit)
	if err != nil {
		getLogger(c).Error("queue listing failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list queue", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// SweepNowHandler enqueues an immediate sweep on the worker instead of
// waiting for the next scheduled run.
func SweepNowHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err := TaskClient.EnqueueSweep(limit); err != nil {
		getLogger(c).Error("failed to enqueue sweep", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to enqueue sweep", "")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sweep enqueued"})
}

// RetryQueueItemHandler re-arms a terminally failed item so the next sweep
// picks it up with a fresh attempt budget.
func RetryQueueItemHandler(c *gin.Context) {
	id := c.Param("id")
	if err := QueueRepo.ResetForRetry(id); err != nil {
		getLogger(c).Error("failed to reset queue item",
			zap.String("itemId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to reset queue item", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
