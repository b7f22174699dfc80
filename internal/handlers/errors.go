package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/SscSPs/ohada_reporting_app/internal/dto"
	"github.com/SscSPs/ohada_reporting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// toAppError maps service errors to HTTP codes. Client errors keep the
// service message; anything else is reported with the fallback message.
func toAppError(err error, fallback string) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, apperrors.ErrNotImplemented):
		return apperrors.NewAppError(http.StatusNotImplemented, domain.ReportTypeNotImplemented, err)
	case errors.Is(err, apperrors.ErrValidation):
		return apperrors.NewAppError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, apperrors.ErrMissingSourceFile), errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewAppError(http.StatusNotFound, err.Error(), err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return apperrors.NewAppError(http.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, apperrors.ErrForbidden):
		return apperrors.NewAppError(http.StatusForbidden, "Forbidden", err)
	}
	return apperrors.NewAppError(http.StatusInternalServerError, fallback, err)
}

// respondError logs err at a level matching its status and writes the JSON error body.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	appErr := toAppError(err, fallback)
	if appErr.Code >= http.StatusInternalServerError && appErr.Code != http.StatusNotImplemented {
		logger.Error(fallback, slog.String("error", err.Error()))
	} else {
		logger.Warn(fallback, slog.Int("status", appErr.Code), slog.String("error", err.Error()))
	}
	c.JSON(appErr.Code, dto.ErrorResponse{Error: appErr.Message})
}
