package v1

import (
	"net/http"

	"github.com/flexprice/console/internal/flexprice"
	"github.com/flexprice/console/internal/logger"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	flexprice flexprice.Client
	logger    *logger.Logger
}

func NewHealthHandler(
	flexpriceClient flexprice.Client,
	logger *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		flexprice: flexpriceClient,
		logger:    logger,
	}
}

// @Summary Health check
// @Description Liveness of the console, with the reachability of the billing API
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	backend := "ok"
	if err := h.flexprice.Health(c.Request.Context()); err != nil {
		h.logger.Warnw("billing api health check failed", "error", err)
		backend = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"flexprice": backend,
	})
}
