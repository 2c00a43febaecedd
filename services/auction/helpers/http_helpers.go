package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-board/internal/auctionerrors"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrDuplicateName):
		return http.StatusConflict, "bidder name already used in this session"
	case errors.Is(err, auctionerrors.ErrEmptyName):
		return http.StatusBadRequest, "bidder name is required"
	case errors.Is(err, auctionerrors.ErrEmptyItemName):
		return http.StatusBadRequest, "item name is required"
	case errors.Is(err, auctionerrors.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid session status"
	case errors.Is(err, auctionerrors.ErrSingleSession):
		return http.StatusConflict, "local store holds a single session"
	case errors.Is(err, auctionerrors.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, auctionerrors.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, auctionerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, auctionerrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, auctionerrors.ErrStoreIO):
		return http.StatusServiceUnavailable, "store unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// HandleServiceError maps err, sends it and logs it with fields
func HandleServiceError(c *gin.Context, handlerName, action string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+action, fields)
		return
	}
	utils.Warn(handlerName+": "+action, fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
