package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cchuang/regent/internal/app/models/dto"
	"github.com/cchuang/regent/internal/pkg/apperrors"
	"github.com/cchuang/regent/internal/pkg/logger"
)

// HandleAPIError maps a service error onto the HTTP error taxonomy. Field
// information attached by the services survives into the response so clients
// can render validation messages inline. Unrecognized errors become an
// opaque 500; their detail is logged, never exposed.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAuthRequired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", err)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password", err)

	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Session expired", err)

	case errors.Is(err, apperrors.ErrTokenInvalid):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid session token", err)

	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled", err)

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", err)

	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrTeacherNotFound),
		errors.Is(err, apperrors.ErrClassNotFound),
		errors.Is(err, apperrors.ErrDepartmentNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error(), err)

	case errors.Is(err, apperrors.ErrUsernameAlreadyExists),
		errors.Is(err, apperrors.ErrStudentIDAlreadyExists),
		errors.Is(err, apperrors.ErrTeacherIDAlreadyExists),
		errors.Is(err, apperrors.ErrClassNameAlreadyExists),
		errors.Is(err, apperrors.ErrHeadTeacherTaken),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error(), err)

	case errors.Is(err, apperrors.ErrClassHasStudents),
		errors.Is(err, apperrors.ErrDepartmentReferenced),
		errors.Is(err, apperrors.ErrSelfDelete):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceInUse, err.Error(), err)

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrWrongCurrentPassword),
		errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error(), err)

	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", nil)
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string, err error) {
	detail := dto.NewErrorDetail(code, message)
	if err != nil {
		if field := apperrors.FieldOf(err); field != "" {
			detail = detail.WithField(field)
		}
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// HandleBindingError converts a gin binding failure into the standard 400
// response shape.
func HandleBindingError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data").
		WithDetails(err.Error())
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
