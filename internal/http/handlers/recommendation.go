package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/wellbeing-backend/internal/http/response"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
	"github.com/yungbote/wellbeing-backend/internal/services"
)

type RecommendationHandler struct {
	log             *logger.Logger
	recommendations services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recommendations services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:             log.With("handler", "RecommendationHandler"),
		recommendations: recommendations,
	}
}

// GET /api/recommendations/:id
func (h *RecommendationHandler) ForStudent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.recommendations.ForStudent(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.log, err, "Error al generar recomendaciones")
		return
	}
	response.RespondOK(c, out)
}
