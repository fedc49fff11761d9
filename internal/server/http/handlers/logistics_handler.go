package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/cherrytrack/internal/server/http/dto"
)

const (
	apiName    = "Cherry Logistics API"
	apiVersion = "1.0.0"
)

// LogisticsHandler serves tracking lookups, the reconciliation trigger and
// service probes.
type LogisticsHandler struct {
	facade LogisticsFacade
}

// NewLogisticsHandler constructs LogisticsHandler.
func NewLogisticsHandler(facade LogisticsFacade) *LogisticsHandler {
	return &LogisticsHandler{facade: facade}
}

// Track handles GET /api/tracking/:number.
func (h *LogisticsHandler) Track(c *gin.Context) {
	result, err := h.facade.Track(c.Request.Context(), c.Param("number"), c.Query("phone"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !result.Success {
		c.JSON(http.StatusOK, dto.NewTrackingFailureResponse(*result))
		return
	}
	c.JSON(http.StatusOK, dto.NewTrackingResponse(*result))
}

// CheckDeliveryStatus handles POST /api/cron/check-delivery-status.
func (h *LogisticsHandler) CheckDeliveryStatus(c *gin.Context) {
	summary, err := h.facade.CheckDeliveryStatus(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReconcileResponse(*summary))
}

// Health handles GET /api/health.
func (h *LogisticsHandler) Health(c *gin.Context) {
	if err := h.facade.HealthCheck(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Root handles GET /.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": apiName, "version": apiVersion})
}

// NotFound renders unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse("Not found"))
}
