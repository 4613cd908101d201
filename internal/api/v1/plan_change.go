package v1

import (
	"net/http"

	"github.com/ahamo-portal/portal/internal/api/dto"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/service"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
)

type PlanChangeHandler struct {
	service service.PlanChangeService
	log     *logger.Logger
}

func NewPlanChangeHandler(service service.PlanChangeService, log *logger.Logger) *PlanChangeHandler {
	return &PlanChangeHandler{
		service: service,
		log:     log,
	}
}

// @Summary Simulate a plan change
// @Description Preview the cost of switching the subscriber's current plan
// @Tags PlanChanges
// @Accept json
// @Produce json
// @Param X-Subscriber-ID header string true "Subscriber ID"
// @Param request body dto.SimulatePlanChangeRequest true "Target plan and optional effective date"
// @Success 200 {object} dto.PlanChangeSimulationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /plan-changes/simulate [post]
func (h *PlanChangeHandler) Simulate(c *gin.Context) {
	var req dto.SimulatePlanChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debugw("rejected plan change request body", "path", c.FullPath(), "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.SimulateForSubscriber(ctx, types.GetSubscriberID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Simulate a plan change from explicit input
// @Tags PlanChanges
// @Accept json
// @Produce json
// @Param request body dto.SimulateRawPlanChangeRequest true "Current plan, billing period and target"
// @Success 200 {object} dto.PlanChangeSimulationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /plan-changes/simulate/raw [post]
func (h *PlanChangeHandler) SimulateRaw(c *gin.Context) {
	var req dto.SimulateRawPlanChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debugw("rejected plan change request body", "path", c.FullPath(), "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Simulate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Compare every plan
// @Description Simulate a change to each other plan in the catalog
// @Tags PlanChanges
// @Produce json
// @Param X-Subscriber-ID header string true "Subscriber ID"
// @Param effectiveDate query string false "Effective date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListChangeOptionsResponse
// @Router /plan-changes/options [get]
func (h *PlanChangeHandler) ListOptions(c *gin.Context) {
	var req dto.ListChangeOptionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Debugw("rejected plan change options query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	resp, err := h.service.ListChangeOptions(ctx, types.GetSubscriberID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
