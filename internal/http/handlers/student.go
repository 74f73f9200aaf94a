package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wellbeing-backend/internal/http/response"
	"github.com/yungbote/wellbeing-backend/internal/platform/apierr"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
	"github.com/yungbote/wellbeing-backend/internal/services"
)

type StudentHandler struct {
	log      *logger.Logger
	students services.StudentService
}

func NewStudentHandler(log *logger.Logger, students services.StudentService) *StudentHandler {
	return &StudentHandler{log: log.With("handler", "StudentHandler"), students: students}
}

// GET /api/students
func (h *StudentHandler) List(c *gin.Context) {
	out, err := h.students.List(c.Request.Context())
	if err != nil {
		respondErr(c, h.log, err, "Error al listar estudiantes")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	var in services.StudentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", errors.New(msgInvalidData))
		return
	}
	out, _, err := h.students.Create(c.Request.Context(), in)
	if err != nil {
		respondErr(c, h.log, err, "Error al guardar estudiante")
		return
	}
	response.RespondCreated(c, out)
}

// GET /api/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.log, err, "Error al obtener estudiante")
		return
	}
	response.RespondOK(c, out)
}

// parseID reads the :id path parameter, writing a 404 when it is not a
// positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.RespondAPIError(c, apierr.NotFound("not_found", errors.New(msgNotFound)), nil)
		return 0, false
	}
	return uint(id), true
}
