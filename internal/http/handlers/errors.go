package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wellbeing-backend/internal/data/repos"
	"github.com/yungbote/wellbeing-backend/internal/http/response"
	"github.com/yungbote/wellbeing-backend/internal/ingestion/pipeline"
	"github.com/yungbote/wellbeing-backend/internal/platform/apierr"
	"github.com/yungbote/wellbeing-backend/internal/platform/ctxutil"
	"github.com/yungbote/wellbeing-backend/internal/platform/logger"
	"github.com/yungbote/wellbeing-backend/internal/services"
)

const (
	msgFileRequired       = "Archivo requerido"
	msgEmptyCSV           = "CSV vacío"
	msgUnrecognizedSchema = "Estructura no reconocida. Usa StressLevelDataset.csv o Stress_Dataset.csv"
	msgMalformedCSV       = "CSV mal formado"
	msgTooLarge           = "Archivo demasiado grande"
	msgInvalidData        = "Datos inválidos"
	msgNotFound           = "No encontrado"
	msgStoreNotReady      = "BD no inicializada. Ejecuta: dssctl migrate"
)

// classify maps a service error to its HTTP form. fallback is the message
// used for unexpected failures.
func classify(err error, fallback string) *apierr.Error {
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		return apierr.BadRequest("empty_input", errors.New(msgEmptyCSV))
	case errors.Is(err, pipeline.ErrUnrecognizedSchema):
		return apierr.BadRequest("unrecognized_schema", errors.New(msgUnrecognizedSchema))
	case errors.Is(err, pipeline.ErrMalformedInput):
		return apierr.BadRequest("malformed_input", errors.New(msgMalformedCSV))
	case errors.Is(err, pipeline.ErrInputTooLarge):
		return apierr.New(http.StatusRequestEntityTooLarge, "too_large", errors.New(msgTooLarge))
	case errors.Is(err, services.ErrValidation):
		return apierr.BadRequest("invalid_input", errors.New(msgInvalidData))
	case errors.Is(err, services.ErrNotFound), errors.Is(err, repos.ErrNotFound):
		return apierr.NotFound("not_found", errors.New(msgNotFound))
	case errors.Is(err, repos.ErrStoreNotInitialized):
		return apierr.Internal("store_not_initialized", errors.New(msgStoreNotReady))
	default:
		return apierr.Internal("store_failure", errors.New(fallback))
	}
}

// respondErr logs server-side failures and writes the error envelope.
func respondErr(c *gin.Context, log *logger.Logger, err error, fallback string) {
	ae := classify(err, fallback)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error(fallback, append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
	}
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		response.RespondAPIError(c, ae, ve.Fields)
		return
	}
	response.RespondAPIError(c, ae, nil)
}
