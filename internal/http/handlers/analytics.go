package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/wellbeing-backend/internal/http/response"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
	"github.com/yungbote/wellbeing-backend/internal/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{log: log.With("handler", "AnalyticsHandler"), analytics: analytics}
}

// GET /api/analytics/segments
func (h *AnalyticsHandler) Segments(c *gin.Context) {
	out, err := h.analytics.Segments(c.Request.Context())
	if err != nil {
		respondErr(c, h.log, err, "Error en analytics/segments")
		return
	}
	response.RespondOK(c, out)
}

// GET /api/analytics/correlations
func (h *AnalyticsHandler) Correlations(c *gin.Context) {
	out, err := h.analytics.Correlations(c.Request.Context())
	if err != nil {
		respondErr(c, h.log, err, "Error en analytics/correlations")
		return
	}
	response.RespondOK(c, out)
}
