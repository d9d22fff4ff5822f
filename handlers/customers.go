package handlers

import (
	"net/http"
	"strconv"

	customerRepo "reserva/database/repository/customer"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var Customers customerRepo.CustomerRepository

// ListCustomersHandler lists customers for the operator console.
func ListCustomersHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	customers, err := Customers.ListAll(limit)
	if err != nil {
		getLogger(c).Error("failed to list customers", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list customers", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
}

// GetCustomerHandler retrieves one customer with their visit stats.
func GetCustomerHandler(c *gin.Context) {
	id := c.Param("id")
	customer, err := Customers.GetByID(id)
	if err != nil {
		getLogger(c).Error("failed to get customer",
			zap.String("customerId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to get customer", "")
		return
	}
	if customer == nil {
		utils.JSONError(c, http.StatusNotFound, "customer not found", "")
		return
	}
	c.JSON(http.StatusOK, customer)
}
