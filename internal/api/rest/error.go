package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-settlement/internal/api/shared/errors"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error *apierrors.APIError `json:"error"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, apiErr *apierrors.APIError) {
	c.JSON(statusCode, errorResponse{Error: apiErr})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewValidationError(details))
}

// respondParseError reports a request body or query that failed conversion.
// Settlement errors other than ErrInvalidInput keep their own status and code.
func respondParseError(c *gin.Context, err error) {
	if !errors.Is(err, domain.ErrInvalidInput) {
		if status, apiErr, ok := apierrors.FromDomain(err); ok {
			respondWithError(c, status, apiErr)
			return
		}
	}
	respondValidationError(c, err.Error())
}

// respondUnauthorized sends a 401 when no authenticated caller is present
func respondUnauthorized(c *gin.Context) {
	respondWithError(c, http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication required"))
}

// respondError maps settlement errors to their status and code. Anything else
// is logged and reported as an internal error without details.
func respondError(c *gin.Context, err error, message string, fields ...zap.Field) {
	status, apiErr, ok := apierrors.FromDomain(err)
	if !ok {
		logger.ErrorCtx(c.Request.Context(), err, append(fields, zap.String("operation", message))...)
		apiErr.Message = message
	}
	respondWithError(c, status, apiErr)
}
