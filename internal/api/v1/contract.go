package v1

import (
	"net/http"

	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/ahamo-portal/portal/internal/service"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	service service.ContractService
	log     *logger.Logger
}

func NewContractHandler(service service.ContractService, log *logger.Logger) *ContractHandler {
	return &ContractHandler{
		service: service,
		log:     log,
	}
}

// @Summary Get the current contract
// @Description Current plan, billing period and data usage of the calling subscriber
// @Tags Contracts
// @Produce json
// @Param X-Subscriber-ID header string true "Subscriber ID"
// @Success 200 {object} dto.ContractResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /contracts/current [get]
func (h *ContractHandler) GetCurrentContract(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.GetCurrentContract(ctx, types.GetSubscriberID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
