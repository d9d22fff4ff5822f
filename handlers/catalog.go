package handlers

import (
	"net/http"

	providerRepo "reserva/database/repository/provider"
	"reserva/services/catalog"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Catalog   catalog.ServiceCatalog
	Providers providerRepo.ProviderRepository
)

// ListServicesHandler returns the bookable service types.
func ListServicesHandler(c *gin.Context) {
	services, err := Catalog.ListServices()
	if err != nil {
		getLogger(c).Error("failed to list services", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list services", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// ListProvidersHandler returns the active providers.
func ListProvidersHandler(c *gin.Context) {
	providers, err := Providers.ListActive()
	if err != nil {
		getLogger(c).Error("failed to list providers", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list providers", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}
