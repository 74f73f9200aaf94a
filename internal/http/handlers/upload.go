package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wellbeing-backend/internal/http/response"
	"github.com/yungbote/wellbeing-backend/internal/ingestion/pipeline"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
	"github.com/yungbote/wellbeing-backend/internal/services"
)

const formFileField = "file"

type UploadHandler struct {
	log       *logger.Logger
	ingestion services.IngestionService
	maxBytes  int64
}

func NewUploadHandler(log *logger.Logger, ingestion services.IngestionService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		log:       log.With("handler", "UploadHandler"),
		ingestion: ingestion,
		maxBytes:  maxBytes,
	}
}

// POST /api/upload/csv
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	if h.maxBytes > 0 {
		// Leave room for the multipart envelope around the file.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64<<10)
	}
	fh, err := c.FormFile(formFileField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondErr(c, h.log, pipeline.ErrInputTooLarge, "")
			return
		}
		response.RespondError(c, http.StatusBadRequest, "file_required", errors.New(msgFileRequired))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondErr(c, h.log, err, "Error al leer el archivo")
		return
	}
	defer f.Close()

	limit := h.maxBytes
	if limit <= 0 {
		limit = fh.Size
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		respondErr(c, h.log, err, "Error al leer el archivo")
		return
	}

	res, err := h.ingestion.Ingest(c.Request.Context(), services.Upload{FileName: fh.Filename, Data: data})
	if err != nil {
		respondErr(c, h.log, err, "Error al importar CSV")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/upload/runs
func (h *UploadHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.ingestion.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		respondErr(c, h.log, err, "Error al listar importaciones")
		return
	}
	response.RespondOK(c, runs)
}
