package v1

import (
	"net/http"

	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/service"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewPlanHandler(service service.CatalogService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log,
	}
}

// @Summary List plans
// @Description List the plans currently offered, cheapest first
// @Tags Plans
// @Produce json
// @Success 200 {object} dto.ListPlansResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	resp, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	resp, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
