package v1

import (
	"net/http"

	"github.com/flexprice/console/internal/api/dto"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/service"
	"github.com/gin-gonic/gin"
)

type PriceHandler struct {
	service service.PriceOverrideService
	log     *logger.Logger
}

func NewPriceHandler(service service.PriceOverrideService, log *logger.Logger) *PriceHandler {
	return &PriceHandler{service: service, log: log}
}

// @Summary Preview price overrides
// @Description Render prices with overrides applied and the line items a subscription would send, nothing is stored
// @Tags Prices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PreviewPriceRequest true "Prices and overrides"
// @Success 200 {object} dto.PricePreviewResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /prices/preview [post]
func (h *PriceHandler) PreviewPrices(c *gin.Context) {
	var req dto.PreviewPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
