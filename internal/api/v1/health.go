package v1

import (
	"net/http"

	"github.com/ahamo-portal/portal/internal/api/dto"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/service"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	catalogService service.CatalogService
	log            *logger.Logger
}

func NewHealthHandler(catalogService service.CatalogService, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		catalogService: catalogService,
		log:            log,
	}
}

// @Summary Health check
// @Description Reports whether a plan catalog snapshot can be served
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	catalog, err := h.catalogService.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Warnw("health check failed, no plan catalog available", "error", err)
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: dto.HealthStatusUnavailable})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: dto.HealthStatusOK,
		Catalog: &dto.CatalogHealth{
			Plans:    catalog.Len(),
			LoadedAt: catalog.LoadedAt(),
		},
	})
}
